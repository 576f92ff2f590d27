package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stagelink/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore keeps users as JSON documents: the record at users/{id}.json, an
// email index object pointing back at the id, and a marker object per
// pending stage-manager registration so approvals can be listed without
// scanning every user.
type UserStore struct {
	objects *ObjectStore
}

func NewUserStore(objects *ObjectStore) *UserStore {
	return &UserStore{objects: objects}
}

func userKey(id string) string {
	return "users/" + id + ".json"
}

func emailKey(email string) string {
	return "users/email/" + NormalizeEmail(email) + ".json"
}

func pendingKey(id string) string {
	return "users/pending/" + id + ".json"
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

type emailIndex struct {
	UserID string `json:"userId"`
}

func (r *UserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.objects.GetJSON(ctx, userKey(id), &user); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var index emailIndex
	if err := r.objects.GetJSON(ctx, emailKey(email), &index); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return r.GetByID(ctx, index.UserID)
}

func (r *UserStore) Create(ctx context.Context, user models.User) error {
	taken, err := r.objects.Exists(ctx, emailKey(user.Email))
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	now := time.Now().UTC()
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.objects.PutJSON(ctx, userKey(user.ID), user); err != nil {
		return err
	}
	return r.objects.PutJSON(ctx, emailKey(user.Email), emailIndex{UserID: user.ID})
}

// UpdateStatus writes the new status and returns the updated record. The
// actor is recorded by the audit layer, not on the document. Leaving pending
// (in either direction) clears the pending-approval marker.
func (r *UserStore) UpdateStatus(ctx context.Context, id string, status models.AccountStatus, actorID string) (models.User, error) {
	if !status.Valid() {
		return models.User{}, fmt.Errorf("invalid status %q", status)
	}

	user, err := r.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()

	if err := r.objects.PutJSON(ctx, userKey(id), user); err != nil {
		return models.User{}, err
	}

	if status != models.StatusPending {
		_ = r.objects.Remove(ctx, pendingKey(id))
	}
	return user, nil
}

// AddPendingStageManager stores a stage-manager registration awaiting
// super-admin approval.
func (r *UserStore) AddPendingStageManager(ctx context.Context, user models.User) error {
	user.Role = models.RoleStageManager
	user.Status = models.StatusPending

	if err := r.Create(ctx, user); err != nil {
		return err
	}
	return r.objects.PutJSON(ctx, pendingKey(user.ID), emailIndex{UserID: user.ID})
}

func (r *UserStore) ListPendingStageManagers(ctx context.Context) ([]models.User, error) {
	keys, err := r.objects.ListKeys(ctx, "users/pending/")
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(keys))
	for _, key := range keys {
		var marker emailIndex
		if err := r.objects.GetJSON(ctx, key, &marker); err != nil {
			return nil, err
		}
		user, err := r.GetByID(ctx, marker.UserID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
