package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and verifies access and refresh tokens. The two token
// kinds share a payload but use distinct secrets, so one can never stand in
// for the other.
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AccessClaims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (m JWTManager) IssueAccessToken(userID string, role string, email string) (string, time.Duration, error) {
	return m.issue(userID, role, email, m.AccessSecret, m.accessTTL())
}

func (m JWTManager) IssueRefreshToken(userID string, role string, email string) (string, time.Duration, error) {
	return m.issue(userID, role, email, m.RefreshSecret, m.refreshTTL())
}

func (m JWTManager) accessTTL() time.Duration {
	if m.AccessTTL == 0 {
		return 15 * time.Minute
	}
	return m.AccessTTL
}

func (m JWTManager) refreshTTL() time.Duration {
	if m.RefreshTTL == 0 {
		return 30 * 24 * time.Hour
	}
	return m.RefreshTTL
}

func (m JWTManager) issue(userID, role, email string, secret []byte, ttl time.Duration) (string, time.Duration, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m JWTManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	return m.parse(tokenString, m.AccessSecret)
}

func (m JWTManager) ParseRefreshToken(tokenString string) (*AccessClaims, error) {
	return m.parse(tokenString, m.RefreshSecret)
}

// parse collapses signature, expiry and structural failures into a single
// ErrInvalidToken so callers cannot tell which check rejected the token.
func (m JWTManager) parse(tokenString string, secret []byte) (*AccessClaims, error) {
	options := []jwt.ParserOption{}
	if m.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.Issuer))
	}
	if m.Audience != "" {
		options = append(options, jwt.WithAudience(m.Audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, options...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExpirationOf decodes the expiry without verifying the signature. Only
// useful for UX hints; never an authorization decision.
func ExpirationOf(tokenString string) *time.Time {
	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	expiry := claims.ExpiresAt.Time
	return &expiry
}

// IsExpired is decode-only as well.
func IsExpired(tokenString string) bool {
	expiry := ExpirationOf(tokenString)
	if expiry == nil {
		return true
	}
	return expiry.Before(time.Now())
}
