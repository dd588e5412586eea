package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/user-service/internal/auth"
	"github.com/campus-kit/user-service/internal/config"
	"github.com/campus-kit/user-service/internal/domain"
	"github.com/campus-kit/user-service/internal/events"
	"github.com/campus-kit/user-service/internal/repository"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

// AuthService coordinates registration, login and token validation flows.
type AuthService struct {
	users      repository.UserRepository
	students   repository.StudentRepository
	teachers   repository.TeacherRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	StudentRepo repository.StudentRepository
	TeacherRepo repository.TeacherRepository
	Dispatcher  events.Dispatcher
}

// RegisterInput is the registration request after transport decoding.
type RegisterInput struct {
	Name     string
	LastName string
	Email    string
	Password string
	Role     string
	CelPhone string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		students:   deps.StudentRepo,
		teachers:   deps.TeacherRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), deps.UserRepo),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates a stored credential and issues a token carrying the
// account's assigned role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewNotFound("email is not registered")
		}
		return "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	return s.tokenMgr.Generate(user.Email, user.Role)
}

// Register creates a credential plus its role-specific profile and issues a
// token for the new identity. The role set is closed: anything outside
// STUDENT/TEACHER is rejected instead of silently skipping the profile.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return "", time.Time{}, apperrors.NewConflict("email is already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, err
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return "", time.Time{}, apperrors.NewInvalidRole(input.Role)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return "", time.Time{}, err
	}

	user := &domain.User{
		Name:             input.Name,
		LastName:         input.LastName,
		Email:            input.Email,
		PasswordHash:     hash,
		Role:             role,
		CelPhone:         input.CelPhone,
		RegistrationDate: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", time.Time{}, err
	}

	switch role {
	case domain.RoleStudent:
		err = s.students.Create(ctx, &domain.Student{UserID: user.ID, Emotion: domain.EmotionNeutral})
	case domain.RoleTeacher:
		err = s.teachers.Create(ctx, &domain.Teacher{UserID: user.ID})
	}
	if err != nil {
		return "", time.Time{}, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(events.Event{
			Type: events.EventUserRegistered,
			Payload: events.UserRegisteredPayload{
				Email: user.Email,
				Name:  user.Name,
				Role:  user.Role,
			},
		})
	}

	return s.tokenMgr.Generate(user.Email, user.Role)
}

// Validate reports whether the Authorization header carries a token that is
// valid for the subject it claims.
func (s *AuthService) Validate(ctx context.Context, authHeader string) bool {
	token, ok := auth.BearerToken(authHeader)
	if !ok {
		return false
	}

	subject, err := s.tokenMgr.ExtractSubject(token)
	if err != nil {
		return false
	}

	return s.tokenMgr.IsValid(ctx, token, subject)
}

// ValidateRole additionally requires the token's role claim to match the
// requested role, case-insensitively.
func (s *AuthService) ValidateRole(ctx context.Context, role, authHeader string) bool {
	if !s.Validate(ctx, authHeader) {
		return false
	}

	token, _ := auth.BearerToken(authHeader)
	claimRole, err := s.tokenMgr.ExtractRole(token)
	if err != nil {
		return false
	}

	return strings.EqualFold(claimRole, role)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
