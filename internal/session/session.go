package session

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"stagelink/api/internal/config"
	"stagelink/api/internal/models"
)

// CookieName is fixed; the cookie value is whatever the codec produced.
const CookieName = "stagelink_session"

const contextKey = "session_claims"

// Manager reads the session from inbound requests and mints or clears the
// session cookie on outbound responses. Mint and refresh share the same
// max-age policy.
type Manager struct {
	codec  Codec
	maxAge int
	secure bool
	log    zerolog.Logger
}

func NewManager(cfg config.SessionConfig, environment string, log zerolog.Logger) *Manager {
	return &Manager{
		codec:  NewCodec(cfg),
		maxAge: int(cfg.MaxAge.Seconds()),
		secure: environment == "production",
		log:    log,
	}
}

// FromRequest extracts and validates the session cookie. Absent, malformed
// and semantically invalid cookies all come back as nil; callers cannot
// tell a bad cookie from no cookie.
func (m *Manager) FromRequest(r *http.Request) *Claims {
	if r == nil {
		return nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	claims := m.codec.Decode(cookie.Value)
	if claims == nil && cookie.Value != "" {
		m.log.Debug().Str("cookie", CookieName).Msg("invalid session cookie dropped")
	}
	return claims
}

// Current resolves the session once per request and caches it in the gin
// context, so the gatekeeper and handler-level guards decode through the
// same code path without repeating the work.
func (m *Manager) Current(c *gin.Context) *Claims {
	if v, ok := c.Get(contextKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}

	claims := m.FromRequest(c.Request)
	c.Set(contextKey, claims)
	return claims
}

// Issue attaches a fresh session cookie to the response.
func (m *Manager) Issue(c *gin.Context, claims Claims) error {
	token, err := m.codec.Encode(claims)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	m.setCookie(c, token, m.maxAge)
	c.Set(contextKey, &claims)
	return nil
}

// Clear expires the session cookie immediately. Clearing an absent session
// is not an error.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, "", -1)
	c.Set(contextKey, (*Claims)(nil))
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", m.secure, true)
}

// NewClaims is the pure mapping from a fresh user record (plus optional
// event scope) to session claims, used at login, approval and refresh.
func NewClaims(user models.User, eventID string) Claims {
	return Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Status:  user.Status,
		EventID: eventID,
	}
}
