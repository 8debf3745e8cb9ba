package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/repository"
	"sitepass/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

type AuthConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
	MFAIssuer        string
}

type AuthService struct {
	users      repository.UserRepository
	accessLogs repository.AccessLogRepository
	mfaSecrets repository.MFASecretRepository

	passwordHash PasswordHasher
	tokens       TokenIssuer
	mfaTokens    MFATokenIssuer
	mfaProvider  MFAProvider
	clock        Clock
	logger       *logrus.Logger
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	accessLogs repository.AccessLogRepository,
	mfaSecrets repository.MFASecretRepository,
	passwordHash PasswordHasher,
	tokens TokenIssuer,
	mfaTokens MFATokenIssuer,
	mfaProvider MFAProvider,
	clock Clock,
	logger *logrus.Logger,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		accessLogs:   accessLogs,
		mfaSecrets:   mfaSecrets,
		passwordHash: passwordHash,
		tokens:       tokens,
		mfaTokens:    mfaTokens,
		mfaProvider:  mfaProvider,
		clock:        clock,
		logger:       logger,
		config:       config,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

type LoginResult struct {
	AccessToken           string
	ExpiresIn             int64
	RefreshToken          string
	RefreshExpiresIn      int64
	RequirePasswordChange bool
	MFARequired           bool
	MFAToken              string
	MFATokenExpiresIn     int64
}

// Login walks the lockout transition table. Attempt counting is delegated to
// the store as a single conditional statement, so a burst of parallel wrong
// passwords can never under-count.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a compare so unknown emails cost the same as wrong passwords.
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		s.logAccess(ctx, entity.AccessLoginFailed, nil, nil, "", loginMetadata(input.IPAddress, map[string]any{"email": email}))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if user.Status != entity.UserStatusActive {
		s.logAccess(ctx, entity.AccessLoginFailed, &user.ID, nil, "", loginMetadata(input.IPAddress, map[string]any{"reason": "account_inactive"}))
		return nil, ErrAccountInactive
	}
	if user.Locked(now) {
		s.logAccess(ctx, entity.AccessLoginFailed, &user.ID, nil, "", loginMetadata(input.IPAddress, map[string]any{"reason": "account_locked"}))
		return nil, ErrAccountLocked
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		lockUntil := now.Add(s.lockDuration())
		if err := s.users.RecordFailedLogin(ctx, user.ID, s.maxAttempts(), lockUntil); err != nil {
			return nil, err
		}
		s.logAccess(ctx, entity.AccessLoginFailed, &user.ID, nil, "", loginMetadata(input.IPAddress, map[string]any{"reason": "wrong_password"}))
		return nil, ErrInvalidCredentials
	}

	if err := s.users.ResetLoginState(ctx, user.ID, now); err != nil {
		return nil, err
	}

	if s.mfaProvider != nil && s.mfaSecrets != nil && s.mfaTokens != nil {
		secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if secret != nil && secret.EnabledAt != nil {
			mfaToken, expiresIn, err := s.mfaTokens.IssueMFAToken(user.ID)
			if err != nil {
				return nil, err
			}
			return &LoginResult{
				MFARequired:       true,
				MFAToken:          mfaToken,
				MFATokenExpiresIn: int64(expiresIn.Seconds()),
			}, nil
		}
	}

	result, err := s.issueTokenPair(*user)
	if err != nil {
		return nil, err
	}
	s.logAccess(ctx, entity.AccessLogin, &user.ID, nil, "", loginMetadata(input.IPAddress, nil))
	return result, nil
}

func (s *AuthService) LoginWithMFA(ctx context.Context, mfaToken, code string) (*LoginResult, error) {
	if s.mfaProvider == nil || s.mfaTokens == nil || s.mfaSecrets == nil {
		return nil, ErrMFANotConfigured
	}
	if strings.TrimSpace(mfaToken) == "" || strings.TrimSpace(code) == "" {
		return nil, ErrInvalidInput
	}

	userID, err := s.mfaTokens.ParseMFAToken(mfaToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, ErrInvalidToken
	}

	secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.EnabledAt == nil {
		return nil, ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		s.logAccess(ctx, entity.AccessLoginFailed, &user.ID, nil, "", map[string]any{"reason": "mfa_failed"})
		return nil, ErrInvalidMFACode
	}

	result, err := s.issueTokenPair(*user)
	if err != nil {
		return nil, err
	}
	s.logAccess(ctx, entity.AccessLogin, &user.ID, nil, "", map[string]any{"mfa": true})
	return result, nil
}

// Refresh trades a valid refresh token for a new pair. The principal is
// reloaded because a token can outlive a deactivation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidInput
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != entity.UserStatusActive {
		return nil, ErrInvalidToken
	}

	return s.issueTokenPair(*user)
}

type CreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Role     entity.UserRole
	Password string
}

func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, ErrInvalidInput
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidInput
	}
	if ok, violations := utils.ValidatePasswordStrength(input.Password); !ok {
		return nil, &WeakPasswordError{Violations: violations}
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         input.Role,
		Status:       entity.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if !s.passwordHash.Verify(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if ok, violations := utils.ValidatePasswordStrength(next); !ok {
		return &WeakPasswordError{Violations: violations}
	}

	hash, err := s.passwordHash.Hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.RequirePasswordChange = false
	return s.users.Update(ctx, user)
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) ListAccessLogs(ctx context.Context, limit, offset int) ([]entity.AccessLog, error) {
	return s.accessLogs.List(ctx, limit, offset)
}

func (s *AuthService) EnableMFA(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return "", ErrMFANotConfigured
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrNotFound
	}

	secret, err := s.mfaProvider.GenerateSecret()
	if err != nil {
		return "", err
	}
	if err := s.mfaSecrets.Upsert(ctx, &entity.MFASecret{UserID: user.ID, Secret: secret}); err != nil {
		return "", err
	}

	issuer := s.config.MFAIssuer
	if strings.TrimSpace(issuer) == "" {
		issuer = "SitePass"
	}
	return s.mfaProvider.QRCodeURL(user.Email, issuer, secret)
}

func (s *AuthService) VerifyMFA(ctx context.Context, userID uuid.UUID, code string) error {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return ErrMFANotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}
	secret, err := s.mfaSecrets.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		return ErrInvalidMFACode
	}

	now := s.now()
	secret.EnabledAt = &now
	return s.mfaSecrets.Upsert(ctx, secret)
}

func (s *AuthService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	if s.mfaSecrets == nil {
		return nil
	}
	return s.mfaSecrets.Disable(ctx, userID)
}

func (s *AuthService) issueTokenPair(user entity.User) (*LoginResult, error) {
	accessToken, accessTTL, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshTTL, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:           accessToken,
		ExpiresIn:             int64(accessTTL.Seconds()),
		RefreshToken:          refreshToken,
		RefreshExpiresIn:      int64(refreshTTL.Seconds()),
		RequirePasswordChange: user.RequirePasswordChange,
	}, nil
}

func (s *AuthService) logAccess(
	ctx context.Context,
	action entity.AccessAction,
	guardID *uuid.UUID,
	visitorID *uuid.UUID,
	location string,
	metadata map[string]any,
) {
	if s.accessLogs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err == nil {
			payload = datatypes.JSON(bytes)
		}
	}
	log := &entity.AccessLog{
		Action:    action,
		GuardID:   guardID,
		VisitorID: visitorID,
		Location:  location,
		Metadata:  payload,
	}
	if err := s.accessLogs.Append(ctx, log); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("access log append failed")
	}
}

func loginMetadata(ipAddress *string, extra map[string]any) map[string]any {
	if ipAddress == nil {
		return extra
	}
	if extra == nil {
		extra = map[string]any{}
	}
	extra["ip"] = *ipAddress
	return extra
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) maxAttempts() int {
	if s.config.MaxLoginAttempts > 0 {
		return s.config.MaxLoginAttempts
	}
	return 5
}

func (s *AuthService) lockDuration() time.Duration {
	if s.config.LockDuration > 0 {
		return s.config.LockDuration
	}
	return 30 * time.Minute
}
