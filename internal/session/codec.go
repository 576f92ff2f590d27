package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stagelink/api/internal/config"
	"stagelink/api/internal/models"
)

// Claims is the self-contained session record carried in the cookie. Truth
// lives entirely client-side: role and status are a snapshot taken at mint
// time and only change when the session is re-minted.
type Claims struct {
	UserID  string               `json:"userId"`
	Email   string               `json:"email"`
	Role    models.Role          `json:"role"`
	Status  models.AccountStatus `json:"status"`
	EventID string               `json:"eventId,omitempty"`
}

func (c Claims) wellFormed() bool {
	return c.UserID != "" && c.Role.Valid() && c.Status.Valid()
}

// Codec turns claims into a cookie-safe string and back. Two modes:
//
// Compat (default): reversible base64url/JSON with no signature and no
// expiry. Cookies survive restarts and secret rotation but carry no tamper
// resistance.
//
// Signed (RequireSigned): HS256 tokens with a TTL. Unsigned tokens are
// rejected, and compat decoders reject signed tokens, so switching modes
// invalidates every outstanding session.
type Codec struct {
	requireSigned bool
	secret        []byte
	ttl           time.Duration
}

func NewCodec(cfg config.SessionConfig) Codec {
	return Codec{
		requireSigned: cfg.RequireSigned,
		secret:        []byte(cfg.Secret),
		ttl:           cfg.SignedTTL,
	}
}

func (cd Codec) Encode(claims Claims) (string, error) {
	if cd.requireSigned {
		return cd.encodeSigned(claims)
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal session claims: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode never propagates an error: any parse failure, structural mismatch
// or unknown enum value collapses to nil, so callers have exactly one
// failure path ("no session").
func (cd Codec) Decode(token string) *Claims {
	if token == "" {
		return nil
	}
	if cd.requireSigned {
		return cd.decodeSigned(token)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil
	}
	if !claims.wellFormed() {
		return nil
	}
	return &claims
}

type signedClaims struct {
	Claims
	jwt.RegisteredClaims
}

func (cd Codec) encodeSigned(claims Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signedClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cd.ttl)),
			Subject:   claims.UserID,
		},
	})

	signed, err := token.SignedString(cd.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (cd Codec) decodeSigned(token string) *Claims {
	parsed, err := jwt.ParseWithClaims(token, &signedClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return cd.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	sc, ok := parsed.Claims.(*signedClaims)
	if !ok || !sc.wellFormed() {
		return nil
	}

	claims := sc.Claims
	return &claims
}
