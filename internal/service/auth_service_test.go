package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stagelink/api/internal/audit"
	"stagelink/api/internal/models"
	"stagelink/api/internal/security"
	"stagelink/api/internal/service"
	"stagelink/api/internal/store"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) UpdateStatus(ctx context.Context, id string, status models.AccountStatus, actorID string) (models.User, error) {
	args := m.Called(ctx, id, status, actorID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) AddPendingStageManager(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) ListPendingStageManagers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if v := args.Get(0); v != nil {
		users = v.([]models.User)
	}
	return users, args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Publish(ctx context.Context, room, event string, payload any) {
	m.Called(ctx, room, event, payload)
}

func newService(users *mockUserStore, notifier *mockNotifier) *service.AuthService {
	return service.NewAuthService(users, notifier, audit.New(zerolog.Nop(), nil), zerolog.Nop())
}

func hashedUser(t *testing.T, password string) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:           "u1",
		Email:        "dj@stagelink.io",
		PasswordHash: hash,
		DisplayName:  "DJ Test",
		Role:         models.RoleDJ,
		Status:       models.StatusActive,
	}
}

func TestLoginSuccess(t *testing.T) {
	users := &mockUserStore{}
	notifier := &mockNotifier{}
	user := hashedUser(t, "correct horse battery")

	users.On("FindByEmail", mock.Anything, "dj@stagelink.io").Return(user, nil)

	got, err := newService(users, notifier).Login(context.Background(), "DJ@StageLink.io", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	users := &mockUserStore{}
	user := hashedUser(t, "correct horse battery")

	users.On("FindByEmail", mock.Anything, "dj@stagelink.io").Return(user, nil)

	_, err := newService(users, &mockNotifier{}).Login(context.Background(), "dj@stagelink.io", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := &mockUserStore{}
	users.On("FindByEmail", mock.Anything, "ghost@stagelink.io").Return(models.User{}, store.ErrUserNotFound)

	_, err := newService(users, &mockNotifier{}).Login(context.Background(), "ghost@stagelink.io", "whatever")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginNonActiveStillAuthenticates(t *testing.T) {
	// Status gating happens at the gatekeeper and permission engine, not
	// at credential verification.
	users := &mockUserStore{}
	user := hashedUser(t, "correct horse battery")
	user.Status = models.StatusSuspended

	users.On("FindByEmail", mock.Anything, "dj@stagelink.io").Return(user, nil)

	got, err := newService(users, &mockNotifier{}).Login(context.Background(), "dj@stagelink.io", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, got.Status)
}

func TestRegisterStageManager(t *testing.T) {
	users := &mockUserStore{}
	notifier := &mockNotifier{}

	var created models.User
	users.On("AddPendingStageManager", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		created = u
		return u.Role == models.RoleStageManager && u.Status == models.StatusPending
	})).Return(nil)
	notifier.On("Publish", mock.Anything, "role:super_admin", "registration.pending", mock.Anything).Return()

	got, err := newService(users, notifier).RegisterStageManager(context.Background(), service.RegisterInput{
		Email:       "New.Manager@StageLink.io",
		Password:    "a long password",
		DisplayName: "New Manager",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.manager@stagelink.io", got.Email)
	assert.Equal(t, models.RoleStageManager, got.Role)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.NotEmpty(t, created.ID)

	ok, err := security.VerifyPassword("a long password", created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	notifier.AssertExpectations(t)
}

func TestApprove(t *testing.T) {
	users := &mockUserStore{}
	notifier := &mockNotifier{}

	pending := models.User{ID: "u2", Email: "sm@stagelink.io", Role: models.RoleStageManager, Status: models.StatusPending}
	approved := pending
	approved.Status = models.StatusActive

	users.On("GetByID", mock.Anything, "u2").Return(pending, nil)
	users.On("UpdateStatus", mock.Anything, "u2", models.StatusActive, "admin-1").Return(approved, nil)
	notifier.On("Publish", mock.Anything, "user:u2", "account.approved", mock.Anything).Return()

	got, err := newService(users, notifier).Approve(context.Background(), "u2", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)

	users.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestApproveNotPending(t *testing.T) {
	users := &mockUserStore{}
	active := models.User{ID: "u2", Status: models.StatusActive, Role: models.RoleStageManager}
	users.On("GetByID", mock.Anything, "u2").Return(active, nil)

	_, err := newService(users, &mockNotifier{}).Approve(context.Background(), "u2", "admin-1")
	assert.ErrorIs(t, err, service.ErrNotPending)
}

func TestUpdateStatusNotifiesTarget(t *testing.T) {
	users := &mockUserStore{}
	notifier := &mockNotifier{}

	suspended := models.User{ID: "u3", Status: models.StatusSuspended, Role: models.RoleDJ}
	users.On("UpdateStatus", mock.Anything, "u3", models.StatusSuspended, "admin-1").Return(suspended, nil)
	notifier.On("Publish", mock.Anything, "user:u3", "account.status", mock.Anything).Return()

	got, err := newService(users, notifier).UpdateStatus(context.Background(), "u3", models.StatusSuspended, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuspended, got.Status)
	notifier.AssertExpectations(t)
}
