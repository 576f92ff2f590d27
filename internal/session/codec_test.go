package session_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagelink/api/internal/config"
	"stagelink/api/internal/models"
	"stagelink/api/internal/session"
)

func compatCodec() session.Codec {
	return session.NewCodec(config.SessionConfig{})
}

func signedCodec(ttl time.Duration) session.Codec {
	return session.NewCodec(config.SessionConfig{
		RequireSigned: true,
		Secret:        "test-secret",
		SignedTTL:     ttl,
	})
}

func TestCodecRoundTrip(t *testing.T) {
	cases := []session.Claims{
		{UserID: "u1", Email: "admin@stagelink.io", Role: models.RoleSuperAdmin, Status: models.StatusActive},
		{UserID: "u2", Email: "sm@stagelink.io", Role: models.RoleStageManager, Status: models.StatusPending},
		{UserID: "u3", Email: "dj@stagelink.io", Role: models.RoleDJ, Status: models.StatusSuspended},
		{UserID: "u4", Email: "artist@stagelink.io", Role: models.RoleArtist, Status: models.StatusActive, EventID: "ev-99"},
		{UserID: "u5", Email: "", Role: models.RoleArtist, Status: models.StatusDeactivated},
	}

	codec := compatCodec()
	for _, claims := range cases {
		token, err := codec.Encode(claims)
		require.NoError(t, err)

		decoded := codec.Decode(token)
		require.NotNil(t, decoded, "claims %+v", claims)
		assert.Equal(t, claims, *decoded)
	}
}

func TestCodecDecodeRejectsMalformed(t *testing.T) {
	b64 := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	cases := map[string]string{
		"empty":          "",
		"not base64":     "%%%not-base64%%%",
		"json null":      b64("null"),
		"json array":     b64(`[1,2,3]`),
		"wrong types":    b64(`{"userId":123,"email":"x","role":"dj","status":"active"}`),
		"empty userId":   b64(`{"userId":"","email":"x","role":"dj","status":"active"}`),
		"unknown role":   b64(`{"userId":"u1","email":"x","role":"root","status":"active"}`),
		"unknown status": b64(`{"userId":"u1","email":"x","role":"dj","status":"frozen"}`),
		"missing role":   b64(`{"userId":"u1","email":"x","status":"active"}`),
	}

	codec := compatCodec()
	for name, token := range cases {
		assert.Nil(t, codec.Decode(token), name)
	}
}

func TestSignedCodecRoundTrip(t *testing.T) {
	codec := signedCodec(time.Hour)
	claims := session.Claims{
		UserID: "u1",
		Email:  "sm@stagelink.io",
		Role:   models.RoleStageManager,
		Status: models.StatusActive,
	}

	token, err := codec.Encode(claims)
	require.NoError(t, err)

	decoded := codec.Decode(token)
	require.NotNil(t, decoded)
	assert.Equal(t, claims, *decoded)
}

func TestSignedCodecRejectsExpired(t *testing.T) {
	codec := signedCodec(-time.Minute)
	token, err := codec.Encode(session.Claims{
		UserID: "u1", Email: "x", Role: models.RoleDJ, Status: models.StatusActive,
	})
	require.NoError(t, err)

	assert.Nil(t, codec.Decode(token))
}

func TestSignedCodecRejectsWrongSecret(t *testing.T) {
	claims := session.Claims{UserID: "u1", Email: "x", Role: models.RoleDJ, Status: models.StatusActive}

	token, err := signedCodec(time.Hour).Encode(claims)
	require.NoError(t, err)

	other := session.NewCodec(config.SessionConfig{
		RequireSigned: true,
		Secret:        "different-secret",
		SignedTTL:     time.Hour,
	})
	assert.Nil(t, other.Decode(token))
}

func TestCodecModesDoNotCrossAccept(t *testing.T) {
	claims := session.Claims{UserID: "u1", Email: "x", Role: models.RoleArtist, Status: models.StatusActive}

	compat := compatCodec()
	signed := signedCodec(time.Hour)

	compatToken, err := compat.Encode(claims)
	require.NoError(t, err)
	signedToken, err := signed.Encode(claims)
	require.NoError(t, err)

	assert.Nil(t, signed.Decode(compatToken), "signed codec must reject unsigned tokens")
	assert.Nil(t, compat.Decode(signedToken), "compat codec must reject signed tokens")
}
