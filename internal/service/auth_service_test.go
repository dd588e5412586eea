package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-kit/user-service/internal/config"
	"github.com/campus-kit/user-service/internal/domain"
	"github.com/campus-kit/user-service/internal/events"
	apperrors "github.com/campus-kit/user-service/pkg/util"
)

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.nextID++
	user.ID = "user-" + strconv.Itoa(m.nextID)
	m.users[user.Email] = user
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.users[user.Email]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.Email] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

type memStudentRepo struct {
	students map[string]*domain.Student
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: make(map[string]*domain.Student)}
}

func (m *memStudentRepo) Create(_ context.Context, s *domain.Student) error {
	m.students[s.UserID] = s
	return nil
}

func (m *memStudentRepo) Update(_ context.Context, s *domain.Student) error {
	if _, ok := m.students[s.UserID]; !ok {
		return pgx.ErrNoRows
	}
	m.students[s.UserID] = s
	return nil
}

func (m *memStudentRepo) GetByUserID(_ context.Context, userID string) (*domain.Student, error) {
	if s, ok := m.students[userID]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memStudentRepo) IDsByEmails(_ context.Context, _ []string) ([]string, error) {
	return nil, nil
}

func (m *memStudentRepo) AddPoints(_ context.Context, userID string, points int) (*domain.Student, error) {
	s, ok := m.students[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	s.CoinEarned += points
	s.CoinAvailable += points
	return s, nil
}

type memTeacherRepo struct {
	teachers map[string]*domain.Teacher
}

func newMemTeacherRepo() *memTeacherRepo {
	return &memTeacherRepo{teachers: make(map[string]*domain.Teacher)}
}

func (m *memTeacherRepo) Create(_ context.Context, t *domain.Teacher) error {
	m.teachers[t.UserID] = t
	return nil
}

func (m *memTeacherRepo) GetByUserID(_ context.Context, userID string) (*domain.Teacher, error) {
	if t, ok := m.teachers[userID]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

type capturingDispatcher struct {
	published []events.Event
}

func (c *capturingDispatcher) Publish(event events.Event)                      { c.published = append(c.published, event) }
func (c *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
func (c *capturingDispatcher) Close()                                          {}

type authFixture struct {
	svc        *AuthService
	users      *memUserRepo
	students   *memStudentRepo
	teachers   *memTeacherRepo
	dispatcher *capturingDispatcher
}

func newAuthFixture() *authFixture {
	users := newMemUserRepo()
	students := newMemStudentRepo()
	teachers := newMemTeacherRepo()
	dispatcher := &capturingDispatcher{}

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "unit-test-secret",
			TokenTTLHours: 24,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:    users,
		StudentRepo: students,
		TeacherRepo: teachers,
		Dispatcher:  dispatcher,
	})
	return &authFixture{svc: svc, users: users, students: students, teachers: teachers, dispatcher: dispatcher}
}

func registerInput(email, role string) RegisterInput {
	return RegisterInput{
		Name:     "Ana",
		LastName: "Gomez",
		Email:    email,
		Password: "pw123456",
		Role:     role,
		CelPhone: "555-0100",
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, code, de.Code)
}

func TestAuthService_RegisterIssuesValidToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, _, err := f.svc.Register(ctx, registerInput("a@x.com", "STUDENT"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := f.users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.False(t, user.RegistrationDate.IsZero())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123456")))

	_, err = f.students.GetByUserID(ctx, user.ID)
	assert.NoError(t, err, "student profile must be persisted alongside the credential")

	assert.True(t, f.svc.Validate(ctx, "Bearer "+token))
	assert.True(t, f.svc.ValidateRole(ctx, "student", "Bearer "+token))
	assert.False(t, f.svc.ValidateRole(ctx, "teacher", "Bearer "+token))

	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventUserRegistered, f.dispatcher.published[0].Type)
}

func TestAuthService_RegisterTeacherCreatesTeacherProfile(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, registerInput("t@x.com", "TEACHER"))
	require.NoError(t, err)

	user, err := f.users.GetByEmail(ctx, "t@x.com")
	require.NoError(t, err)
	_, err = f.teachers.GetByUserID(ctx, user.ID)
	assert.NoError(t, err)
}

func TestAuthService_RegisterDuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, registerInput("a@x.com", "STUDENT"))
	require.NoError(t, err)

	// Same email, different role: still a conflict.
	_, _, err = f.svc.Register(ctx, registerInput("a@x.com", "TEACHER"))
	assertDomainCode(t, err, "CONFLICT")
}

func TestAuthService_RegisterUnknownRoleRejected(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	for _, role := range []string{"", "ADMIN", "wizard"} {
		_, _, err := f.svc.Register(ctx, registerInput("r@x.com", role))
		assertDomainCode(t, err, "INVALID_ROLE")
	}

	// No credential may exist without a profile.
	_, err := f.users.GetByEmail(ctx, "r@x.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAuthService_LoginFailureModes(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, _, err := f.svc.Register(ctx, registerInput("a@x.com", "STUDENT"))
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := f.svc.Login(ctx, "nobody@x.com", "pw123456")
		assertDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.svc.Login(ctx, "a@x.com", "wrong-password")
		assertDomainCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("correct password", func(t *testing.T) {
		token, _, err := f.svc.Login(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)
		assert.True(t, f.svc.ValidateRole(ctx, "STUDENT", "Bearer "+token))
	})
}

func TestAuthService_ValidateRoleIsCaseInsensitive(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, _, err := f.svc.Register(ctx, registerInput("a@x.com", "STUDENT"))
	require.NoError(t, err)

	header := "Bearer " + token
	assert.Equal(t, f.svc.ValidateRole(ctx, "student", header), f.svc.ValidateRole(ctx, "STUDENT", header))
	assert.True(t, f.svc.ValidateRole(ctx, "StUdEnT", header))
}

func TestAuthService_ValidateRejectsBadHeaders(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	assert.False(t, f.svc.Validate(ctx, ""))
	assert.False(t, f.svc.Validate(ctx, "Bearer"))
	assert.False(t, f.svc.Validate(ctx, "Bearer garbage"))
	assert.False(t, f.svc.Validate(ctx, "Basic abc"))
}

func TestAuthService_ValidateFalseAfterAccountDeleted(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, _, err := f.svc.Register(ctx, registerInput("a@x.com", "STUDENT"))
	require.NoError(t, err)

	delete(f.users.users, "a@x.com")
	assert.False(t, f.svc.Validate(ctx, "Bearer "+token))
}
