package toolstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{EnvAPIBase, EnvJWT, EnvDevSlug, EnvToolSlug, EnvUserID, EnvUserSlug, EnvOAuthTokenEndpoint} {
		t.Setenv(key, "")
	}

	cfg := ConfigFromEnv()
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, DefaultAPIBase+"/tool-auth/refresh", cfg.OAuthTokenEndpoint)
}

func TestConfigFromEnvTrimsTrailingSlash(t *testing.T) {
	t.Setenv(EnvAPIBase, "https://example.com/api/")
	t.Setenv(EnvOAuthTokenEndpoint, "")

	cfg := ConfigFromEnv()
	assert.Equal(t, "https://example.com/api", cfg.APIBase)
	assert.Equal(t, "https://example.com/api/tool-auth/refresh", cfg.OAuthTokenEndpoint)
}

func TestConfigFromEnvExplicitEndpoint(t *testing.T) {
	t.Setenv(EnvAPIBase, "https://example.com/api")
	t.Setenv(EnvOAuthTokenEndpoint, " https://auth.example.com/refresh ")

	cfg := ConfigFromEnv()
	assert.Equal(t, "https://auth.example.com/refresh", cfg.OAuthTokenEndpoint)
}

func TestConfigFromEnvIdentities(t *testing.T) {
	t.Setenv(EnvJWT, "jwt-1")
	t.Setenv(EnvDevSlug, "acme")
	t.Setenv(EnvToolSlug, "contacts")
	t.Setenv(EnvUserID, "u1")
	t.Setenv(EnvUserSlug, "user-one")

	cfg := ConfigFromEnv()
	assert.Equal(t, "jwt-1", cfg.SessionToken)
	assert.Equal(t, "acme", cfg.DevSlug)
	assert.Equal(t, "contacts", cfg.ToolSlug)
	assert.Equal(t, "u1", cfg.UserID)
	assert.Equal(t, "user-one", cfg.UserSlug)
	assert.Empty(t, cfg.missingIdentities())
}

func TestMissingIdentities(t *testing.T) {
	cfg := Config{DevSlug: "dev", UserID: "u1"}
	assert.Equal(t, []string{EnvToolSlug, EnvUserSlug}, cfg.missingIdentities())

	full := Config{DevSlug: "d", ToolSlug: "t", UserID: "u", UserSlug: "s"}
	assert.Empty(t, full.missingIdentities())
}
