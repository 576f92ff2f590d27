package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stagelink/api/internal/models"
	"stagelink/api/internal/rbac"
	"stagelink/api/internal/session"
)

const (
	loginPath        = "/login"
	unauthorizedPath = "/unauthorized"
)

// Matcher is one entry of the gatekeeper's route tables: either an exact
// path or a path prefix. Matching semantics live here, independent of the
// decision logic that consumes them.
type Matcher struct {
	Path   string
	Prefix bool
}

func (m Matcher) Matches(path string) bool {
	if m.Prefix {
		return path == m.Path || strings.HasPrefix(path, m.Path+"/")
	}
	return path == m.Path
}

// bypassMatchers cover API routes and framework/static asset paths; the
// gatekeeper never touches them. Paths carrying a file extension are also
// bypassed (see isBypass).
var bypassMatchers = []Matcher{
	{Path: "/api", Prefix: true},
	{Path: "/static", Prefix: true},
	{Path: "/assets", Prefix: true},
	{Path: "/favicon.ico"},
}

var publicMatchers = []Matcher{
	{Path: "/"},
	{Path: loginPath},
	{Path: "/register"},
	{Path: unauthorizedPath},
}

// roleGated maps page prefixes to the minimum role required; the check is a
// hierarchy comparison, so super_admin passes every gate.
var roleGated = []struct {
	Matcher
	Role models.Role
}{
	{Matcher{Path: "/super-admin", Prefix: true}, models.RoleSuperAdmin},
	{Matcher{Path: "/stage-manager", Prefix: true}, models.RoleStageManager},
	{Matcher{Path: "/dj", Prefix: true}, models.RoleDJ},
}

var authRequiredMatchers = []Matcher{
	{Path: "/profile", Prefix: true},
	{Path: "/settings", Prefix: true},
	{Path: "/events", Prefix: true},
}

// Decision is the gatekeeper's verdict for one request path.
type Decision struct {
	Redirect string // empty means forward
}

func (d Decision) Forward() bool {
	return d.Redirect == ""
}

func isBypass(path string) bool {
	// Framework-internal routes (/_next and friends).
	if strings.HasPrefix(path, "/_") {
		return true
	}
	for _, m := range bypassMatchers {
		if m.Matches(path) {
			return true
		}
	}
	// Anything with a file extension is a static asset, not a page.
	return strings.Contains(path, ".")
}

func isPublic(path string) bool {
	for _, m := range publicMatchers {
		if m.Matches(path) {
			return true
		}
	}
	return false
}

func loginRedirect(path string) string {
	return loginPath + "?redirect=" + url.QueryEscape(path)
}

// Decide classifies a page request, first match wins:
//
//  1. bypass paths forward unmodified
//  2. public paths forward, except /login with a session redirects to the
//     role's dashboard
//  3. no session redirects to login carrying the requested path
//  4. non-active status redirects to its status page, unless the request
//     already targets that exact page
//  5. a role-gated prefix below the session's hierarchy level redirects to
//     /unauthorized
//  6. auth-required paths without a session redirect to login (unreachable
//     after rule 3; listed so the table reads in precedence order)
//  7. everything else forwards
func Decide(path string, sess *session.Claims) Decision {
	if isBypass(path) {
		return Decision{}
	}

	if isPublic(path) {
		if sess != nil && path == loginPath {
			return Decision{Redirect: models.DashboardPath(sess.Role)}
		}
		return Decision{}
	}

	if sess == nil {
		return Decision{Redirect: loginRedirect(path)}
	}

	if sess.Status != models.StatusActive {
		statusPage := models.StatusPagePath(sess.Status)
		if path == statusPage {
			return Decision{}
		}
		return Decision{Redirect: statusPage}
	}

	for _, gate := range roleGated {
		if gate.Matches(path) && !rbac.HasRoleLevel(sess.Role, gate.Role) {
			return Decision{Redirect: unauthorizedPath}
		}
	}

	for _, m := range authRequiredMatchers {
		if m.Matches(path) && sess == nil {
			return Decision{Redirect: loginRedirect(path)}
		}
	}

	return Decision{}
}

// Gatekeeper runs before every page render and turns Decide verdicts into
// redirects. API handlers are protected separately by WithAuth; the two
// layers decode the cookie through the same session manager.
func Gatekeeper(sessions *session.Manager, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		decision := Decide(path, sessions.Current(c))
		if decision.Forward() {
			c.Next()
			return
		}

		log.Debug().
			Str("path", path).
			Str("redirect", decision.Redirect).
			Msg("gatekeeper redirect")
		c.Redirect(http.StatusFound, decision.Redirect)
		c.Abort()
	}
}
