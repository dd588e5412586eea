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

// StudentProfile is the composed view of a credential and its student row.
type StudentProfile struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	LastName         string         `json:"last_name"`
	Email            string         `json:"email"`
	CelPhone         string         `json:"cel_phone"`
	Emotion          domain.Emotion `json:"emotion"`
	CoinEarned       int            `json:"coin_earned"`
	CoinAvailable    int            `json:"coin_available"`
	RegistrationDate time.Time      `json:"registration_date"`
}

// StudentPatch carries optional profile updates; nil fields are untouched.
type StudentPatch struct {
	Name     *string
	LastName *string
	CelPhone *string
	Emotion  *string
}

// StudentService serves student profile reads and updates.
type StudentService struct {
	users    repository.UserRepository
	students repository.StudentRepository
	profiles *cache.ProfileCache
}

// NewStudentService builds the service. The cache may be nil.
func NewStudentService(users repository.UserRepository, students repository.StudentRepository, profiles *cache.ProfileCache) *StudentService {
	return &StudentService{users: users, students: students, profiles: profiles}
}

// GetProfile resolves the student profile for the authenticated subject.
func (s *StudentService) GetProfile(ctx context.Context, email string) (*StudentProfile, error) {
	key := studentCacheKey(email)
	var cached StudentProfile
	if s.profiles.Get(ctx, key, &cached) {
		return &cached, nil
	}

	profile, _, _, err := s.loadProfile(ctx, email)
	if err != nil {
		return nil, err
	}

	s.profiles.Set(ctx, key, profile)
	return profile, nil
}

// Patch applies a partial update to the profile of the authenticated subject.
func (s *StudentService) Patch(ctx context.Context, email string, patch StudentPatch) (*StudentProfile, error) {
	_, user, student, err := s.loadProfile(ctx, email)
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
	if patch.Emotion != nil {
		student.Emotion = domain.Emotion(*patch.Emotion)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.profiles.Invalidate(ctx, studentCacheKey(email))
	return composeStudentProfile(user, student), nil
}

// IDsByEmails resolves student ids for the given emails. Unknown emails are
// skipped; sibling services use this for roster lookups.
func (s *StudentService) IDsByEmails(ctx context.Context, emails []string) ([]string, error) {
	return s.students.IDsByEmails(ctx, emails)
}

// AddPoints credits earned and available coins for a student.
func (s *StudentService) AddPoints(ctx context.Context, userID string, points int) (*StudentProfile, error) {
	student, err := s.students.AddPoints(ctx, userID, points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("student not found")
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.profiles.Invalidate(ctx, studentCacheKey(user.Email))
	return composeStudentProfile(user, student), nil
}

func (s *StudentService) loadProfile(ctx context.Context, email string) (*StudentProfile, *domain.User, *domain.Student, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("student not found")
		}
		return nil, nil, nil, err
	}

	student, err := s.students.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, apperrors.NewNotFound("student not found")
		}
		return nil, nil, nil, err
	}

	return composeStudentProfile(user, student), user, student, nil
}

func composeStudentProfile(user *domain.User, student *domain.Student) *StudentProfile {
	return &StudentProfile{
		ID:               user.ID,
		Name:             user.Name,
		LastName:         user.LastName,
		Email:            user.Email,
		CelPhone:         user.CelPhone,
		Emotion:          student.Emotion,
		CoinEarned:       student.CoinEarned,
		CoinAvailable:    student.CoinAvailable,
		RegistrationDate: user.RegistrationDate,
	}
}

func studentCacheKey(email string) string {
	return "student:" + email
}
