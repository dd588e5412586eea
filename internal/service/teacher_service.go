package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-kit/user-service/internal/cache"
	"github.com/campus-kit/user-service/internal/domain"
	"github.com/campus-kit/user-service/internal/repository"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

// TeacherProfile is the composed view of a credential and its teacher row.
type TeacherProfile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	CelPhone         string    `json:"cel_phone"`
	RegistrationDate time.Time `json:"registration_date"`
}

// TeacherPatch carries optional profile updates; nil fields are untouched.
type TeacherPatch struct {
	Name     *string
	LastName *string
	CelPhone *string
}

// TeacherService serves teacher profile reads and updates.
type TeacherService struct {
	users    repository.UserRepository
	teachers repository.TeacherRepository
	profiles *cache.ProfileCache
}

// NewTeacherService builds the service. The cache may be nil.
func NewTeacherService(users repository.UserRepository, teachers repository.TeacherRepository, profiles *cache.ProfileCache) *TeacherService {
	return &TeacherService{users: users, teachers: teachers, profiles: profiles}
}

// GetProfile resolves the teacher profile for the authenticated subject.
func (s *TeacherService) GetProfile(ctx context.Context, email string) (*TeacherProfile, error) {
	key := teacherCacheKey(email)
	var cached TeacherProfile
	if s.profiles.Get(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	profile := composeTeacherProfile(user)
	s.profiles.Set(ctx, key, profile)
	return profile, nil
}

// Patch applies a partial update to the profile of the authenticated subject.
func (s *TeacherService) Patch(ctx context.Context, email string, patch TeacherPatch) (*TeacherProfile, error) {
	user, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.CelPhone != nil {
		user.CelPhone = *patch.CelPhone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.profiles.Invalidate(ctx, teacherCacheKey(email))
	return composeTeacherProfile(user), nil
}

func (s *TeacherService) lookup(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("teacher not found")
		}
		return nil, err
	}

	if _, err := s.teachers.GetByUserID(ctx, user.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("teacher not found")
		}
		return nil, err
	}

	return user, nil
}

func composeTeacherProfile(user *domain.User) *TeacherProfile {
	return &TeacherProfile{
		ID:               user.ID,
		Name:             user.Name,
		LastName:         user.LastName,
		Email:            user.Email,
		CelPhone:         user.CelPhone,
		RegistrationDate: user.RegistrationDate,
	}
}

func teacherCacheKey(email string) string {
	return "teacher:" + email
}
