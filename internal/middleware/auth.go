package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stagelink/api/internal/models"
	"stagelink/api/internal/rbac"
	"stagelink/api/internal/response"
	"stagelink/api/internal/session"
)

// AuthedHandler is an API handler that receives the resolved session, so
// handler bodies never re-derive the cookie themselves.
type AuthedHandler func(c *gin.Context, sess session.Claims)

type authOptions struct {
	requiredRole models.Role
}

type AuthOption func(*authOptions)

// RequiredRole gates the handler on a minimum hierarchy level.
func RequiredRole(role models.Role) AuthOption {
	return func(o *authOptions) {
		o.requiredRole = role
	}
}

// WithAuth guards an API handler: without a valid session the handler body
// never runs and the client gets a 401 envelope; with a role requirement an
// insufficient hierarchy level gets 403. This is deliberately redundant with
// the gatekeeper; both layers resolve the session through the same manager.
func WithAuth(sessions *session.Manager, h AuthedHandler, opts ...AuthOption) gin.HandlerFunc {
	var options authOptions
	for _, opt := range opts {
		opt(&options)
	}

	return func(c *gin.Context) {
		sess, err := resolve(sessions, c, options)
		if err != nil {
			abortAuthError(c, err)
			return
		}
		h(c, sess)
	}
}

// RequireAuth is the non-wrapping variant for callers that redirect on
// failure instead of responding with a JSON error.
func RequireAuth(sessions *session.Manager, c *gin.Context, opts ...AuthOption) (session.Claims, error) {
	var options authOptions
	for _, opt := range opts {
		opt(&options)
	}
	return resolve(sessions, c, options)
}

func resolve(sessions *session.Manager, c *gin.Context, options authOptions) (session.Claims, error) {
	sess := sessions.Current(c)
	if sess == nil {
		return session.Claims{}, rbac.ErrUnauthenticated
	}
	if options.requiredRole != "" && !rbac.HasRoleLevel(sess.Role, options.requiredRole) {
		return session.Claims{}, rbac.ErrForbidden
	}
	return *sess, nil
}

func abortAuthError(c *gin.Context, err error) {
	switch err {
	case rbac.ErrForbidden:
		response.AbortFail(c, http.StatusForbidden, "FORBIDDEN", "insufficient role")
	default:
		response.AbortFail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}
}
