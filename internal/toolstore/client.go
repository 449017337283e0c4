package toolstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/contactstore/internal/logging"
)

// Request timeouts mirror the latency profiles of the three call classes:
// metadata calls are quick, token refresh goes through the provider, and
// the presigned upload carries the file body.
const (
	dataTimeout    = 20 * time.Second
	refreshTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second
)

// expirySkew is subtracted from a token's expiry before comparing against
// the current time, so a token about to expire is refreshed early.
const expirySkew = 15 * time.Second

// Client talks to the Tool Store Developer API: per-user tool data (stored
// OAuth tokens) and file storage via presigned URLs.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client. Used in tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides the time source. Used in tests for expiry checks.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a Tool Store client for the given configuration.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requireIdentities fails when any of the identity variables is unset.
func (c *Client) requireIdentities() error {
	if missing := c.cfg.missingIdentities(); len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// authHeader returns the bearer header value, or an error when no session
// token was injected.
func (c *Client) authHeader() (string, error) {
	if c.cfg.SessionToken == "" {
		return "", fmt.Errorf("missing %s: run activation and ensure the Tool Store host injects user auth", EnvJWT)
	}
	return "Bearer " + c.cfg.SessionToken, nil
}

// doJSON performs an authenticated JSON request and decodes the response
// body into out. Error responses include a truncated body excerpt.
func (c *Client) doJSON(ctx context.Context, method, url string, body interface{}, timeout time.Duration, out interface{}) (int, error) {
	auth, err := c.authHeader()
	if err != nil {
		return 0, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("tool store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, bodyExcerpt(resp.Body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// bodyExcerpt reads up to 512 bytes of an error response body for messages.
func bodyExcerpt(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return strings.TrimSpace(string(data))
}

func (c *Client) userDataURL() string {
	return fmt.Sprintf("%s/tool-user-data/%s/%s/user/%s", c.cfg.APIBase, c.cfg.DevSlug, c.cfg.ToolSlug, c.cfg.UserID)
}

/// unwrapData unwraps the {"data": {...}} envelope some API versions use.
func unwrapData(doc map[string]interface{}) map[string]interface{} {
	if inner, ok := doc["data"].(map[string]interface{}); ok {
		return inner
	}
	return doc
}

// GetUserData fetches the tool user data document for the current user.
// A 404 means no document exists yet and returns an empty map.
func (c *Client) GetUserData(ctx context.Context) (map[string]interface{}, error) {
	if err := c.requireIdentities(); err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	status, err := c.doJSON(ctx, http.MethodGet, c.userDataURL(), nil, dataTimeout, &doc)
	if status == http.StatusNotFound {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user data: %w", err)
	}
	return unwrapData(doc), nil
}

// UpdateUserData replaces the tool user data document for the current user.
// Callers send the complete desired document.
func (c *Client) UpdateUserData(ctx context.Context, doc map[string]interface{}) (map[string]interface{}, error) {
	if err := c.requireIdentities(); err != nil {
		return nil, err
	}

	var updated map[string]interface{}
	if _, err := c.doJSON(ctx, http.MethodPut, c.userDataURL(), doc, dataTimeout, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user data: %w", err)
	}
	return unwrapData(updated), nil
}

// refreshRequest is the body sent to the OAuth token refresh endpoint.
type refreshRequest struct {
	Provider     string `json:"provider"`
	RefreshToken string `json:"refresh_token"`
	DevSlug      string `json:"dev_slug"`
	ToolSlug     string `json:"tool_slug"`
	UserID       string `json:"user_id"`
	UserSlug     string `json:"user_slug"`
}

// AccessToken returns a valid OAuth access token for the provider, stored
// under oauth.<provider> in the user data document. An expired token is
// refreshed through the configured token endpoint when a refresh token is
// stored; the refreshed token is written back best-effort, so a persist
// failure costs an extra refresh on the next call instead of failing this
// one.
func (c *Client) AccessToken(ctx context.Context, provider string) (string, error) {
	userData, err := c.GetUserData(ctx)
	if err != nil {
		return "", err
	}

	oauth, _ := userData["oauth"].(map[string]interface{})
	prov, _ := oauth[provider].(map[string]interface{})

	accessToken, _ := prov["access_token"].(string)
	expiry := prov["expiry"]
	if expiry == nil {
		expiry = prov["expires_at"]
	}
	refreshToken, _ := prov["refresh_token"].(string)

	if accessToken != "" && c.stillValid(expiry) {
		return accessToken, nil
	}

	if c.cfg.OAuthTokenEndpoint != "" && refreshToken != "" {
		return c.refreshAccessToken(ctx, provider, refreshToken, userData, oauth, prov)
	}

	if accessToken == "" {
		return "", fmt.Errorf("missing access token for provider %s: connect your account in activation", provider)
	}
	return "", fmt.Errorf("access token for provider %s expired and no refresh token is stored: re-connect your account", provider)
}

// stillValid reports whether a stored expiry still leaves the token usable.
// An absent or unparseable expiry counts as valid so a provider that never
// sets one keeps working.
func (c *Client) stillValid(expiry interface{}) bool {
	ts, ok := asEpochSeconds(expiry)
	if !ok {
		return true
	}
	return c.now().Before(time.Unix(0, int64(ts*float64(time.Second))).Add(-expirySkew))
}

// asEpochSeconds coerces a JSON value (string or number) into epoch
// seconds.
func asEpochSeconds(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		ts, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return ts, true
	default:
		return 0, false
	}
}

func (c *Client) refreshAccessToken(ctx context.Context, provider, refreshToken string, userData, oauth, prov map[string]interface{}) (string, error) {
	logger := c.logger.With(logging.Operation("token_refresh"), logging.Provider(provider))

	payload := refreshRequest{
		Provider:     provider,
		RefreshToken: refreshToken,
		DevSlug:      c.cfg.DevSlug,
		ToolSlug:     c.cfg.ToolSlug,
		UserID:       c.cfg.UserID,
		UserSlug:     c.cfg.UserSlug,
	}

	var fresh map[string]interface{}
	if _, err := c.doJSON(ctx, http.MethodPost, c.cfg.OAuthTokenEndpoint, payload, refreshTimeout, &fresh); err != nil {
		return "", fmt.Errorf("token refresh failed: %w; re-connect your account", err)
	}

	newAccess, _ := fresh["access_token"].(string)
	if newAccess == "" {
		newAccess, _ = fresh["id_token"].(string)
	}
	if newAccess == "" {
		return "", fmt.Errorf("token refresh did not return access_token: re-connect your account")
	}

	newExpiry := ""
	if s, ok := fresh["expiry"].(string); ok && s != "" {
		newExpiry = s
	} else if f, ok := fresh["expiry"].(float64); ok {
		newExpiry = strconv.FormatFloat(f, 'f', -1, 64)
	} else if s, ok := fresh["expires_at"].(string); ok && s != "" {
		newExpiry = s
	} else if f, ok := fresh["expires_at"].(float64); ok {
		newExpiry = strconv.FormatFloat(f, 'f', -1, 64)
	} else if f, ok := fresh["expires_in"].(float64); ok {
		newExpiry = strconv.FormatFloat(float64(c.now().Unix())+f, 'f', -1, 64)
	}

	// Write the refreshed token back. Concurrent refreshes race here and
	// the last write wins; both tokens are valid so this is harmless.
	provUpdated := cloneMap(prov)
	provUpdated["access_token"] = newAccess
	if newExpiry != "" {
		provUpdated["expiry"] = newExpiry
	}
	oauthUpdated := cloneMap(oauth)
	oauthUpdated[provider] = provUpdated
	updatedDoc := cloneMap(userData)
	updatedDoc["oauth"] = oauthUpdated

	if _, err := c.UpdateUserData(ctx, updatedDoc); err != nil {
		logger.Warn("failed to persist refreshed token, next call will refresh again",
			logging.Err(err), slog.String("token", logging.SanitizeToken(newAccess)))
	} else {
		logger.Debug("refreshed access token persisted",
			slog.String("token", logging.SanitizeToken(newAccess)))
	}
	return newAccess, nil
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UploadInfo describes a completed storage upload.
type UploadInfo struct {
	StoragePath string `json:"storage_path"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	UploadURL   string `json:"upload_url"`
}

// generateUploadURLRequest is the body of the presigned URL request.
type generateUploadURLRequest struct {
	DevSlug     string `json:"dev_slug"`
	ToolSlug    string `json:"tool_slug"`
	UserSlug    string `json:"user_slug"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// UploadFile uploads a file to Tool Store storage using the presigned URL
// flow: request an upload URL, then PUT the content to it.
func (c *Client) UploadFile(ctx context.Context, fileName string, content []byte, contentType string) (*UploadInfo, error) {
	if err := c.requireIdentities(); err != nil {
		return nil, err
	}

	payload := generateUploadURLRequest{
		DevSlug:     c.cfg.DevSlug,
		ToolSlug:    c.cfg.ToolSlug,
		UserSlug:    c.cfg.UserSlug,
		FileName:    fileName,
		ContentType: contentType,
	}
	var info struct {
		UploadURL   string `json:"upload_url"`
		URL         string `json:"url"`
		StoragePath string `json:"storage_path"`
	}
	genURL := c.cfg.APIBase + "/tool-storage/generate-upload-url"
	if _, err := c.doJSON(ctx, http.MethodPost, genURL, payload, dataTimeout, &info); err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}
	uploadURL := info.UploadURL
	if uploadURL == "" {
		uploadURL = info.URL
	}
	if uploadURL == "" {
		return nil, fmt.Errorf("upload URL not returned by tool store")
	}

	putCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(putCtx, http.MethodPut, uploadURL, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	// The presigned URL carries its own auth; only the content type is set.
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to storage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to upload file to storage: status %d: %s", resp.StatusCode, bodyExcerpt(resp.Body))
	}

	c.logger.Debug("file uploaded to tool store storage",
		logging.FileName(fileName), slog.String("storage_path", info.StoragePath))

	return &UploadInfo{
		StoragePath: info.StoragePath,
		FileName:    fileName,
		ContentType: contentType,
		UploadURL:   uploadURL,
	}, nil
}

// DownloadURL returns a presigned download URL for a stored file. The API
// may legitimately return an empty string.
func (c *Client) DownloadURL(ctx context.Context, fileName string) (string, error) {
	if err := c.requireIdentities(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/tool-storage/download/%s/%s/%s/%s",
		c.cfg.APIBase, c.cfg.DevSlug, c.cfg.ToolSlug, c.cfg.UserSlug, fileName)
	var data struct {
		DownloadURL string `json:"download_url"`
		URL         string `json:"url"`
	}
	if _, err := c.doJSON(ctx, http.MethodGet, url, nil, dataTimeout, &data); err != nil {
		return "", fmt.Errorf("failed to get download URL: %w", err)
	}
	if data.DownloadURL != "" {
		return data.DownloadURL, nil
	}
	return data.URL, nil
}
