package vessels

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the root of the WSF Vessels REST API.
	DefaultBaseURL = "https://www.wsdot.wa.gov/Ferries/API/Vessels/rest"
	// AccessCodeEnv is the environment variable NewClientFromEnv reads the access code from.
	AccessCodeEnv = "WSDOT_ACCESS_CODE"

	accessCodeParam = "apiaccesscode"
	maxErrorBody    = 1024
)

// Client issues requests against the Vessels API. Its fields are fixed at
// construction, so a Client is safe for concurrent use.
type Client struct {
	baseURL    string
	accessCode string
	httpClient *http.Client
	timeouts   Timeouts
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeouts overrides the per-call time limits. Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		if t.Default > 0 {
			c.timeouts.Default = t.Default
		}
		if t.History > 0 {
			c.timeouts.History = t.History
		}
	}
}

// NewClient creates a client authenticating with accessCode.
func NewClient(accessCode string, opts ...Option) (*Client, error) {
	accessCode = strings.TrimSpace(accessCode)
	if accessCode == "" {
		return nil, ErrMissingAccessCode
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		accessCode: accessCode,
		httpClient: &http.Client{},
		timeouts:   DefaultTimeouts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromEnv creates a client using the access code in WSDOT_ACCESS_CODE.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	return NewClientFromEnvVar(AccessCodeEnv, opts...)
}

// NewClientFromEnvVar creates a client using the access code in the named variable.
func NewClientFromEnvVar(name string, opts ...Option) (*Client, error) {
	code, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrMissingAccessCode, name)
	}
	return NewClient(code, opts...)
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// URL returns the full request URL for req, access code included.
func (c *Client) URL(req Request) (string, error) {
	p, err := req.path()
	if err != nil {
		return "", err
	}
	q := url.Values{accessCodeParam: {c.accessCode}}
	return c.baseURL + p + "?" + q.Encode(), nil
}

// Timeout reports the time limit Fetch applies to req.
func (c *Client) Timeout(req Request) time.Duration {
	return c.timeouts.timeout(req)
}

// Fetch performs req and decodes the response. Argument errors are reported
// before any network activity.
func (c *Client) Fetch(ctx context.Context, req Request) (*Table, error) {
	u, err := c.URL(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.timeout(req))
	defer cancel()

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	t, err := DecodeTable(body)
	if err != nil {
		return nil, &DecodeError{URL: redact(u), Body: excerpt(body), Err: err}
	}
	return t, nil
}

// CacheFlushDate returns when the API's cached data was last refreshed.
func (c *Client) CacheFlushDate(ctx context.Context) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: CacheFlushDate})
}

// VesselAccommodations returns accommodation details for one vessel, or all with AllVessels.
func (c *Client) VesselAccommodations(ctx context.Context, vesselID int) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselAccommodations, VesselID: vesselID})
}

// VesselBasics returns basic vessel details for one vessel, or all with AllVessels.
func (c *Client) VesselBasics(ctx context.Context, vesselID int) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselBasics, VesselID: vesselID})
}

// VesselHistory returns historical sailings. A nil query returns every record;
// otherwise the query must carry a vessel name and both dates.
func (c *Client) VesselHistory(ctx context.Context, q *HistoryQuery) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselHistory, History: q})
}

// VesselLocations returns live positions for one vessel, or all with AllVessels.
func (c *Client) VesselLocations(ctx context.Context, vesselID int) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselLocations, VesselID: vesselID})
}

// VesselStats returns vessel statistics for one vessel, or all with AllVessels.
func (c *Client) VesselStats(ctx context.Context, vesselID int) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselStats, VesselID: vesselID})
}

// VesselVerbose returns every known attribute for one vessel, or all with AllVessels.
func (c *Client) VesselVerbose(ctx context.Context, vesselID int) (*Table, error) {
	return c.Fetch(ctx, Request{Resource: VesselVerbose, VesselID: vesselID})
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	safeURL := redact(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &RequestError{URL: safeURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = safeURL
		}
		return nil, &RequestError{URL: safeURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{
			URL:        safeURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: safeURL, StatusCode: resp.StatusCode, Err: err}
	}
	return body, nil
}

// redact hides the access code so URLs can be put in errors.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has(accessCodeParam) {
		q.Set(accessCodeParam, "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func excerpt(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}
