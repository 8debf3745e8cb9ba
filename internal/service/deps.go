package service

import (
	"context"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type TokenIssuer interface {
	IssueAccessToken(user entity.User) (string, time.Duration, error)
	IssueRefreshToken(user entity.User) (string, time.Duration, error)
	ParseRefreshToken(token string) (*utils.AccessClaims, error)
}

// Notifier is fire-and-forget from the caller's point of view: a dispatch
// failure is logged, never propagated, and never rolls back a committed
// state transition.
type Notifier interface {
	SendApprovalRequest(ctx context.Context, visitor entity.Visitor, employee entity.Employee, approvalToken string) error
	SendStatusUpdate(ctx context.Context, visitor entity.Visitor, status entity.VisitorStatus, employee *entity.Employee) error
}

type MFATokenIssuer interface {
	IssueMFAToken(userID uuid.UUID) (string, time.Duration, error)
	ParseMFAToken(token string) (uuid.UUID, error)
}

type MFAProvider interface {
	GenerateSecret() (string, error)
	QRCodeURL(email string, issuer string, secret string) (string, error)
	ValidateCode(secret string, code string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

// Hash is idempotent: a value that already carries a recognized bcrypt
// prefix is returned as-is so save paths can never double-hash.
func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	if utils.IsBcryptHash(password) {
		return password, nil
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// JWTTokenIssuer adapts the JWT manager to the TokenIssuer seam the auth
// service is tested through.
type JWTTokenIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTTokenIssuer) IssueAccessToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueAccessToken(user.ID.String(), string(user.Role), user.Email)
}

func (j JWTTokenIssuer) IssueRefreshToken(user entity.User) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueRefreshToken(user.ID.String(), string(user.Role), user.Email)
}

func (j JWTTokenIssuer) ParseRefreshToken(token string) (*utils.AccessClaims, error) {
	if j.Manager == nil {
		return nil, ErrInvalidToken
	}
	return j.Manager.ParseRefreshToken(token)
}
