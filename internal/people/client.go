package people

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

const defaultBaseURL = "https://people.googleapis.com/v1"

// Field mask values accepted by the People API for the person fields this
// server works with. Update masks are always assembled from this closed set.
const (
	MaskNames          = "names"
	MaskEmailAddresses = "emailAddresses"
	MaskPhoneNumbers   = "phoneNumbers"
	MaskPhotos         = "photos"
	MaskBirthdays      = "birthdays"
	MaskMemberships    = "memberships"
	MaskMetadata       = "metadata"
	MaskOrganizations  = "organizations"
	MaskBiographies    = "biographies"
)

// Each read operation requests its own fixed field set.
var (
	searchReadMask = []string{
		MaskNames,
		MaskEmailAddresses,
		MaskPhoneNumbers,
		MaskPhotos,
		MaskBirthdays,
	}

	// getPersonFields includes metadata because the update path reads its
	// etag fallback from the fetched record.
	getPersonFields = []string{
		MaskNames,
		MaskEmailAddresses,
		MaskPhoneNumbers,
		MaskPhotos,
		MaskBirthdays,
		MaskOrganizations,
		MaskBiographies,
		MaskMemberships,
		MaskMetadata,
	}

	listPersonFields = []string{
		MaskNames,
		MaskEmailAddresses,
		MaskPhoneNumbers,
		MaskPhotos,
		MaskBirthdays,
		MaskOrganizations,
		MaskBiographies,
	}
)

// Client is a Google People API client for the authenticated user's
// contacts. It holds a short-lived bearer token; callers construct a fresh
// client per operation so token refresh stays outside this package.
type Client struct {
	httpClient  *http.Client
	fetchClient *http.Client
	baseURL     string
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the People API endpoint. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the authenticated HTTP client. Used in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithFetchClient overrides the plain HTTP client used for downloading
// photo bytes from external URLs.
func WithFetchClient(hc *http.Client) Option {
	return func(c *Client) {
		c.fetchClient = hc
	}
}

// NewClient creates a People API client authenticated with the given OAuth
// access token.
func NewClient(ctx context.Context, accessToken string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = 30 * time.Second

	c := &Client{
		httpClient:  hc,
		fetchClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:     defaultBaseURL,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// readMask joins field mask values into the comma-separated form the API
// expects, sorted and deduplicated so equal mask sets serialize identically.
func readMask(fields []string) string {
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// doJSON performs an HTTP request against the People API and decodes the
// JSON response into out. A nil out discards the body. Non-2xx responses
// are returned as *googleapi.Error.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("people API request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode people API response: %w", err)
	}
	return nil
}

// SearchContacts searches the user's contacts. The query must be non-empty
// and pageSize must be between 1 and 200; both are checked before any
// network call. An empty pageToken requests the first page.
func (c *Client) SearchContacts(ctx context.Context, query string, pageSize int64, pageToken string) (*SearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if pageSize < 1 || pageSize > 200 {
		return nil, fmt.Errorf("pageSize must be between 1 and 200, got %d", pageSize)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.FormatInt(pageSize, 10))
	params.Set("readMask", readMask(searchReadMask))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var result SearchResponse
	u := c.baseURL + "/people:searchContacts?" + params.Encode()
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return &result, nil
}

// GetContact fetches a single contact by resource name
// (e.g. "people/c123456789").
func (c *Client) GetContact(ctx context.Context, resourceName string) (*Person, error) {
	if resourceName == "" {
		return nil, fmt.Errorf("resourceName must not be empty")
	}

	params := url.Values{}
	params.Set("personFields", readMask(getPersonFields))

	var person Person
	u := c.baseURL + "/" + resourceName + "?" + params.Encode()
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &person); err != nil {
		return nil, fmt.Errorf("failed to get contact %s: %w", resourceName, err)
	}
	return &person, nil
}

// DeleteContact permanently deletes a contact by resource name.
func (c *Client) DeleteContact(ctx context.Context, resourceName string) error {
	if resourceName == "" {
		return fmt.Errorf("resourceName must not be empty")
	}

	u := c.baseURL + "/" + resourceName + ":deleteContact"
	if err := c.doJSON(ctx, http.MethodDelete, u, nil, nil); err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", resourceName, err)
	}
	return nil
}

// CreateResult is the outcome of CreateContact. The contact itself was
// created whenever err is nil; PhotoWarning carries a non-fatal failure of
// the follow-up photo assignment.
type CreateResult struct {
	Person       *Person
	PhotoWarning string
}

// CreateContact creates a new contact from the supplied fields. When a
// photo URL is given the photo is assigned in a second call after creation;
// a failure there does not fail the create and is reported as a warning on
// the result instead.
func (c *Client) CreateContact(ctx context.Context, fields ContactFields) (*CreateResult, error) {
	body, _, err := buildPerson(fields, "")
	if err != nil {
		return nil, err
	}

	var created Person
	u := c.baseURL + "/people:createContact"
	if err := c.doJSON(ctx, http.MethodPost, u, body, &created); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	result := &CreateResult{Person: &created}
	if fields.PhotoURL == nil || *fields.PhotoURL == "" {
		return result, nil
	}

	if err := c.UpdateContactPhoto(ctx, created.ResourceName, *fields.PhotoURL); err != nil {
		c.logger.Warn("contact created but photo assignment failed",
			slog.String("resource_name", created.ResourceName),
			slog.String("error", err.Error()))
		result.PhotoWarning = fmt.Sprintf("contact created but photo assignment failed: %v", err)
		return result, nil
	}

	// Re-fetch so the returned record includes the new photo.
	refreshed, err := c.GetContact(ctx, created.ResourceName)
	if err != nil {
		result.PhotoWarning = fmt.Sprintf("photo assigned but re-fetch failed: %v", err)
		return result, nil
	}
	result.Person = refreshed
	return result, nil
}

// UpdateContact applies the supplied fields to an existing contact. The
// current record is fetched first so the etag can be carried into the
// update and so a partial name change merges with the other half. When no
// updatable field is supplied the pre-fetched record is returned unchanged.
// A photo URL is assigned after the field update and, unlike in
// CreateContact, a photo failure fails the whole update.
func (c *Client) UpdateContact(ctx context.Context, resourceName string, fields ContactFields) (*Person, error) {
	current, err := c.GetContact(ctx, resourceName)
	if err != nil {
		return nil, err
	}

	// Updates must carry the etag observed on the fetch; a record without
	// one cannot be safely patched.
	etag := current.EffectiveEtag()
	if etag == "" {
		return nil, fmt.Errorf("contact etag not found for %s; cannot update", resourceName)
	}
	merged := mergeNames(fields, current)
	body, masks, err := buildPerson(merged, etag)
	if err != nil {
		return nil, err
	}

	updated := current
	if len(masks) > 0 {
		params := url.Values{}
		params.Set("updatePersonFields", readMask(masks))

		var result Person
		u := c.baseURL + "/" + resourceName + ":updateContact?" + params.Encode()
		if err := c.doJSON(ctx, http.MethodPatch, u, body, &result); err != nil {
			return nil, fmt.Errorf("failed to update contact %s: %w", resourceName, err)
		}
		updated = &result
	}

	if fields.PhotoURL != nil && *fields.PhotoURL != "" {
		if err := c.UpdateContactPhoto(ctx, resourceName, *fields.PhotoURL); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// mergeNames fills the missing half of a partial name change from the
// current record so the PATCH does not blank the untouched half.
func mergeNames(fields ContactFields, current *Person) ContactFields {
	if fields.GivenName == nil && fields.FamilyName == nil {
		return fields
	}
	var curGiven, curFamily string
	if len(current.Names) > 0 {
		curGiven = current.Names[0].GivenName
		curFamily = current.Names[0].FamilyName
	}
	if fields.GivenName == nil {
		fields.GivenName = &curGiven
	}
	if fields.FamilyName == nil {
		fields.FamilyName = &curFamily
	}
	return fields
}

// buildPerson assembles the request body and the update masks for the
// supplied fields. The photo URL is deliberately excluded because photos go
// through the separate updateContactPhoto endpoint.
func buildPerson(fields ContactFields, etag string) (*Person, []string, error) {
	p := &Person{Etag: etag}
	var masks []string

	if fields.GivenName != nil || fields.FamilyName != nil {
		var name Name
		if fields.GivenName != nil {
			name.GivenName = *fields.GivenName
		}
		if fields.FamilyName != nil {
			name.FamilyName = *fields.FamilyName
		}
		p.Names = []Name{name}
		masks = append(masks, MaskNames)
	}
	if fields.Email != nil {
		p.EmailAddresses = []Email{{Value: *fields.Email}}
		masks = append(masks, MaskEmailAddresses)
	}
	if fields.Phone != nil {
		p.PhoneNumbers = []Phone{{Value: *fields.Phone}}
		masks = append(masks, MaskPhoneNumbers)
	}
	if fields.Birthday != nil {
		date, err := ParseBirthday(*fields.Birthday)
		if err != nil {
			return nil, nil, err
		}
		p.Birthdays = []Birthday{{Date: date}}
		masks = append(masks, MaskBirthdays)
	}
	if fields.Note != nil {
		p.Biographies = []Biography{{Value: *fields.Note}}
		masks = append(masks, MaskBiographies)
	}
	return p, masks, nil
}

// UpdateContactPhoto downloads the image at photoURL and assigns it as the
// contact's photo.
func (c *Client) UpdateContactPhoto(ctx context.Context, resourceName, photoURL string) error {
	if resourceName == "" {
		return fmt.Errorf("resourceName must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return fmt.Errorf("invalid photo URL %q: %w", photoURL, err)
	}
	resp, err := c.fetchClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch photo from %s: %w", photoURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("failed to fetch photo from %s: status %d", photoURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read photo bytes: %w", err)
	}

	body := updateContactPhotoRequest{PhotoBytes: base64.StdEncoding.EncodeToString(data)}
	u := c.baseURL + "/" + resourceName + ":updateContactPhoto"
	var result updateContactPhotoResponse
	if err := c.doJSON(ctx, http.MethodPost, u, body, &result); err != nil {
		return fmt.Errorf("failed to update contact photo: %w", err)
	}
	return nil
}

// ListAllConnections walks the full people/me connections listing in pages
// of pageSize and calls fn for every person. Iteration stops on the first
// error from fn or the API. Pages are fetched sequentially because each
// page token depends on the previous response.
func (c *Client) ListAllConnections(ctx context.Context, pageSize int64, fn func(*Person) error) error {
	if pageSize < 1 || pageSize > 1000 {
		return fmt.Errorf("pageSize must be between 1 and 1000, got %d", pageSize)
	}

	pageToken := ""
	for {
		params := url.Values{}
		params.Set("personFields", readMask(listPersonFields))
		params.Set("pageSize", strconv.FormatInt(pageSize, 10))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page connectionsPage
		u := c.baseURL + "/people/me/connections?" + params.Encode()
		if err := c.doJSON(ctx, http.MethodGet, u, nil, &page); err != nil {
			return fmt.Errorf("failed to list connections: %w", err)
		}

		for _, person := range page.Connections {
			if err := fn(person); err != nil {
				return err
			}
		}

		if page.NextPageToken == "" {
			return nil
		}
		pageToken = page.NextPageToken
	}
}

// EffectiveEtag returns the etag of a person record, falling back to the
// first metadata source when the top-level etag is absent.
func (p *Person) EffectiveEtag() string {
	if p.Etag != "" {
		return p.Etag
	}
	if p.Metadata != nil && len(p.Metadata.Sources) > 0 {
		return p.Metadata.Sources[0].Etag
	}
	return ""
}
