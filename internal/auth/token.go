package auth

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/campus-kit/user-service/internal/domain"
	"github.com/campus-kit/user-service/internal/repository"
)

var (
	// ErrTokenInvalid covers malformed tokens and bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a well-formed token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	users  repository.UserRepository
	now    func() time.Time
}

// NewTokenManager builds a new manager. The user repository backs IsValid,
// which refuses tokens whose subject no longer resolves to an account.
func NewTokenManager(secret string, ttl time.Duration, users repository.UserRepository) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, users: users, now: time.Now}
}

// Claims describes the JWT payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate builds and signs a JWT for the subject with its role claim.
func (tm *TokenManager) Generate(subject string, role domain.Role) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry and returns the claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExtractSubject decodes the sub claim without verifying the signature.
// The result is a lookup key only; callers must still Verify (or IsValid)
// before trusting it.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tm.decodeUnverified(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractRole decodes the role claim without verifying the signature.
func (tm *TokenManager) ExtractRole(tokenStr string) (string, error) {
	claims, err := tm.decodeUnverified(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}

// IsValid reports whether the token belongs to expectedSubject, still
// resolves to a stored account, carries a valid signature, and has not
// expired. Every failure collapses to false so callers cannot distinguish
// why a token was rejected.
func (tm *TokenManager) IsValid(ctx context.Context, tokenStr, expectedSubject string) bool {
	if expectedSubject == "" {
		return false
	}

	user, err := tm.users.GetByEmail(ctx, expectedSubject)
	if err != nil {
		return false
	}

	subject, err := tm.ExtractSubject(tokenStr)
	if err != nil || subject == "" || subject != user.Email {
		return false
	}

	if _, err := tm.Verify(tokenStr); err != nil {
		return false
	}
	return true
}

func (tm *TokenManager) decodeUnverified(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
