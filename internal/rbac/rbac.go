package rbac

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"stagelink/api/internal/models"
	"stagelink/api/internal/session"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrAccountNotActive = errors.New("account not active")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
)

// Permission is a static allow-list entry: which roles may perform an action
// on a resource. This is deliberately separate from the role hierarchy; dj
// outranks artist but has narrower explicit permissions.
type Permission struct {
	Resource string
	Action   string
	Roles    []models.Role
}

var defaultPermissions = []Permission{
	{"events", "view", []models.Role{models.RoleSuperAdmin, models.RoleStageManager, models.RoleDJ, models.RoleArtist}},
	{"events", "create", []models.Role{models.RoleSuperAdmin, models.RoleStageManager}},
	{"events", "update", []models.Role{models.RoleSuperAdmin, models.RoleStageManager}},
	{"events", "delete", []models.Role{models.RoleSuperAdmin}},
	{"lineup", "assign", []models.Role{models.RoleSuperAdmin, models.RoleStageManager}},
	{"lineup", "view", []models.Role{models.RoleSuperAdmin, models.RoleStageManager, models.RoleDJ}},
	{"artists", "manage", []models.Role{models.RoleSuperAdmin, models.RoleStageManager}},
	{"users", "manage", []models.Role{models.RoleSuperAdmin}},
	{"media", "upload", []models.Role{models.RoleSuperAdmin, models.RoleStageManager, models.RoleArtist}},
}

// HasRoleLevel reports whether role sits at or above requiredRole in the
// hierarchy. Route gating uses this; resource actions use HasPermission.
func HasRoleLevel(role, requiredRole models.Role) bool {
	return role.Level() >= requiredRole.Level() && role.Valid() && requiredRole.Valid()
}

type Engine struct {
	log   zerolog.Logger
	perms map[string]map[models.Role]struct{}
	gaps  atomic.Uint64
}

func NewEngine(log zerolog.Logger) *Engine {
	return NewEngineWithPermissions(log, defaultPermissions)
}

func NewEngineWithPermissions(log zerolog.Logger, perms []Permission) *Engine {
	table := make(map[string]map[models.Role]struct{}, len(perms))
	for _, p := range perms {
		roleSet := make(map[models.Role]struct{}, len(p.Roles))
		for _, role := range p.Roles {
			roleSet[role] = struct{}{}
		}
		table[permKey(p.Resource, p.Action)] = roleSet
	}
	return &Engine{log: log, perms: table}
}

func permKey(resource, action string) string {
	return resource + ":" + action
}

// HasPermission is fail-closed: an unconfigured (resource, action) pair is
// denied and counted as a configuration gap, distinct from an intentional
// denial.
func (e *Engine) HasPermission(role models.Role, resource, action string) bool {
	roleSet, ok := e.perms[permKey(resource, action)]
	if !ok {
		e.gaps.Add(1)
		e.log.Warn().
			Str("resource", resource).
			Str("action", action).
			Msg("permission check for unconfigured resource/action pair")
		return false
	}
	_, allowed := roleSet[role]
	return allowed
}

// GapCount returns how many permission checks hit an unconfigured pair.
func (e *Engine) GapCount() uint64 {
	return e.gaps.Load()
}

// RequirePermission is the side-effect-free check handlers call before
// acting on a resource: unauthenticated, then status, then the allow-list.
func (e *Engine) RequirePermission(sess *session.Claims, resource, action string) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if sess.Status != models.StatusActive {
		return ErrAccountNotActive
	}
	if !e.HasPermission(sess.Role, resource, action) {
		return ErrForbidden
	}
	return nil
}

// Route is a page route with an optional explicit role allow-list.
type Route struct {
	Path  string
	Roles []models.Role
}

// Matches reports whether the request path is this route or nested under it.
func (r Route) Matches(path string) bool {
	return path == r.Path || strings.HasPrefix(path, r.Path+"/")
}

// CanAccessRoute requires an active session, then applies the route's role
// allow-list if it has one.
func (e *Engine) CanAccessRoute(sess *session.Claims, route Route) bool {
	if sess == nil || sess.Status != models.StatusActive {
		return false
	}
	if len(route.Roles) == 0 {
		return true
	}
	for _, role := range route.Roles {
		if sess.Role == role {
			return true
		}
	}
	return false
}
