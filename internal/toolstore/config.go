package toolstore

import (
	"os"
	"strings"
)

// DefaultAPIBase is the Tool Store Developer API endpoint used when
// TOOLSTORE_API_BASE is not set.
const DefaultAPIBase = "https://api.toolstore.com/dev_api/v1"

// Environment variable names the Tool Store host injects into the process.
const (
	EnvAPIBase            = "TOOLSTORE_API_BASE"
	EnvJWT                = "TOOLSTORE_JWT"
	EnvDevSlug            = "TOOLSTORE_DEV_SLUG"
	EnvToolSlug           = "TOOLSTORE_TOOL_SLUG"
	EnvUserID             = "TOOLSTORE_USER_ID"
	EnvUserSlug           = "TOOLSTORE_USER_SLUG"
	EnvOAuthTokenEndpoint = "TOOLSTORE_OAUTH_TOKEN_ENDPOINT"
)

// Config identifies the tool namespace and user session against the Tool
// Store Developer API.
type Config struct {
	// APIBase is the Developer API base URL without a trailing slash.
	APIBase string
	// SessionToken is the Firebase JWT of the current user session.
	SessionToken string
	// DevSlug and ToolSlug identify the tool namespace.
	DevSlug  string
	ToolSlug string
	// UserID and UserSlug identify the current user.
	UserID   string
	UserSlug string
	// OAuthTokenEndpoint exchanges refresh tokens for fresh access tokens.
	// Defaults to the Dev API standard refresh endpoint under APIBase.
	OAuthTokenEndpoint string
}

// ConfigFromEnv reads the Tool Store configuration from the environment.
// Missing identity values are not an error here; they are reported by the
// first operation that needs them so the server can still start and expose
// its tools.
func ConfigFromEnv() Config {
	cfg := Config{
		APIBase:            strings.TrimSuffix(os.Getenv(EnvAPIBase), "/"),
		SessionToken:       os.Getenv(EnvJWT),
		DevSlug:            os.Getenv(EnvDevSlug),
		ToolSlug:           os.Getenv(EnvToolSlug),
		UserID:             os.Getenv(EnvUserID),
		UserSlug:           os.Getenv(EnvUserSlug),
		OAuthTokenEndpoint: strings.TrimSpace(os.Getenv(EnvOAuthTokenEndpoint)),
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.OAuthTokenEndpoint == "" {
		cfg.OAuthTokenEndpoint = cfg.APIBase + "/tool-auth/refresh"
	}
	return cfg
}

// missingIdentities returns the names of the identity variables that are
// unset. Every Tool Store operation requires the full set.
func (c Config) missingIdentities() []string {
	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{EnvDevSlug, c.DevSlug},
		{EnvToolSlug, c.ToolSlug},
		{EnvUserID, c.UserID},
		{EnvUserSlug, c.UserSlug},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}
