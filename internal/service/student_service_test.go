package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-kit/user-service/internal/cache"
	"github.com/campus-kit/user-service/internal/domain"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

func newStudentFixture(t *testing.T) (*StudentService, *memUserRepo, *memStudentRepo) {
	t.Helper()

	users := newMemUserRepo()
	students := newMemStudentRepo()
	profiles := cache.NewProfileCache(nil, time.Minute, zap.NewNop())
	return NewStudentService(users, students, profiles), users, students
}

func seedStudent(t *testing.T, users *memUserRepo, students *memStudentRepo, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:     "Ana",
		LastName: "Gomez",
		Email:    email,
		Role:     domain.RoleStudent,
		CelPhone: "555-0100",
	}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, students.Create(context.Background(), &domain.Student{
		UserID:  user.ID,
		Emotion: domain.EmotionNeutral,
	}))
	return user
}

func TestStudentService_GetProfile(t *testing.T) {
	svc, users, students := newStudentFixture(t)
	user := seedStudent(t, users, students, "a@x.com")

	profile, err := svc.GetProfile(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.Equal(t, domain.EmotionNeutral, profile.Emotion)
	assert.Zero(t, profile.CoinEarned)
}

func TestStudentService_GetProfileNotFound(t *testing.T) {
	svc, users, _ := newStudentFixture(t)

	_, err := svc.GetProfile(context.Background(), "missing@x.com")
	assertDomainCode(t, err, "NOT_FOUND")

	// Credential without a student row is also not a student.
	require.NoError(t, users.Create(context.Background(), &domain.User{Email: "t@x.com", Role: domain.RoleTeacher}))
	_, err = svc.GetProfile(context.Background(), "t@x.com")
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestStudentService_Patch(t *testing.T) {
	svc, users, students := newStudentFixture(t)
	seedStudent(t, users, students, "a@x.com")

	name := "Maria"
	emotion := "HAPPY"
	profile, err := svc.Patch(context.Background(), "a@x.com", StudentPatch{
		Name:    &name,
		Emotion: &emotion,
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria", profile.Name)
	assert.Equal(t, domain.EmotionHappy, profile.Emotion)
	assert.Equal(t, "Gomez", profile.LastName, "unset fields stay untouched")

	reloaded, err := svc.GetProfile(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Maria", reloaded.Name)
	assert.Equal(t, domain.EmotionHappy, reloaded.Emotion)
}

func TestStudentService_AddPoints(t *testing.T) {
	svc, users, students := newStudentFixture(t)
	user := seedStudent(t, users, students, "a@x.com")

	profile, err := svc.AddPoints(context.Background(), user.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, profile.CoinEarned)
	assert.Equal(t, 15, profile.CoinAvailable)

	profile, err = svc.AddPoints(context.Background(), user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 20, profile.CoinEarned)
	assert.Equal(t, 20, profile.CoinAvailable)

	_, err = svc.AddPoints(context.Background(), "no-such-id", 5)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}
