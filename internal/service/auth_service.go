package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"stagelink/api/internal/audit"
	"stagelink/api/internal/ids"
	"stagelink/api/internal/models"
	"stagelink/api/internal/notify"
	"stagelink/api/internal/security"
	"stagelink/api/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotPending         = errors.New("user is not pending approval")
)

// UserStore is what the auth core needs from persistence; the MinIO-backed
// document store satisfies it in production.
type UserStore interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus, actorID string) (models.User, error)
	AddPendingStageManager(ctx context.Context, user models.User) error
	ListPendingStageManagers(ctx context.Context) ([]models.User, error)
}

// Notifier is the best-effort side-channel; implementations must tolerate
// absence and never fail the primary operation.
type Notifier interface {
	Publish(ctx context.Context, room, event string, payload any)
}

type AuthService struct {
	users    UserStore
	notifier Notifier
	audit    *audit.Recorder
	log      zerolog.Logger
}

func NewAuthService(users UserStore, notifier Notifier, recorder *audit.Recorder, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		notifier: notifier,
		audit:    recorder,
		log:      log,
	}
}

// Login authenticates credentials and returns the user record whatever its
// status; status enforcement is the gatekeeper's and permission engine's
// job, so the state machine lives in one place.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, store.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}

	s.audit.Record(ctx, "auth.login", user.ID, user.ID, map[string]string{
		"role":   string(user.Role),
		"status": string(user.Status),
	})
	return user, nil
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// RegisterStageManager files a pending registration. Super admins are
// notified opportunistically; a dead side-channel does not fail the
// registration.
func (s *AuthService) RegisterStageManager(ctx context.Context, input RegisterInput) (models.User, error) {
	if input.Email == "" || input.Password == "" {
		return models.User{}, fmt.Errorf("email and password required")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        store.NormalizeEmail(input.Email),
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		Role:         models.RoleStageManager,
		Status:       models.StatusPending,
	}

	if err := s.users.AddPendingStageManager(ctx, user); err != nil {
		return models.User{}, err
	}

	s.notifier.Publish(ctx, notify.RoleRoom(models.RoleSuperAdmin), "registration.pending", map[string]string{
		"userId":      user.ID,
		"email":       user.Email,
		"displayName": user.DisplayName,
	})
	s.audit.Record(ctx, "auth.register", user.ID, user.ID, map[string]string{
		"role": string(user.Role),
	})
	return user, nil
}

// Approve activates a pending registration. The approved user's existing
// cookie (if any) keeps its pending snapshot until refreshed.
func (s *AuthService) Approve(ctx context.Context, userID, actorID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Status != models.StatusPending {
		return models.User{}, ErrNotPending
	}

	updated, err := s.users.UpdateStatus(ctx, userID, models.StatusActive, actorID)
	if err != nil {
		return models.User{}, err
	}

	s.notifier.Publish(ctx, notify.UserRoom(userID), "account.approved", map[string]string{
		"status": string(updated.Status),
	})
	s.audit.Record(ctx, "user.approve", actorID, userID, nil)
	return updated, nil
}

func (s *AuthService) UpdateStatus(ctx context.Context, userID string, status models.AccountStatus, actorID string) (models.User, error) {
	updated, err := s.users.UpdateStatus(ctx, userID, status, actorID)
	if err != nil {
		return models.User{}, err
	}

	s.notifier.Publish(ctx, notify.UserRoom(userID), "account.status", map[string]string{
		"status": string(updated.Status),
	})
	s.audit.Record(ctx, "user.status", actorID, userID, map[string]string{
		"status": string(status),
	})
	return updated, nil
}

func (s *AuthService) PendingStageManagers(ctx context.Context) ([]models.User, error) {
	return s.users.ListPendingStageManagers(ctx)
}

// Logout only audits: sessions are self-contained cookies, so there is no
// server-side state to destroy.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.audit.Record(ctx, "auth.logout", userID, userID, nil)
}

// GetUser is the live-record fetch used by me and status checks.
func (s *AuthService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// RefreshSession fetches the live record for a cookie re-mint and leaves an
// audit trail of the role/status snapshot that went into the new session.
func (s *AuthService) RefreshSession(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	s.audit.Record(ctx, "auth.refresh", userID, userID, map[string]string{
		"role":   string(user.Role),
		"status": string(user.Status),
	})
	return user, nil
}
