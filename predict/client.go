package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	// EndpointEnv and APIKeyEnv are the conventional variables holding the
	// model endpoint and its API key.
	EndpointEnv = "FERRY_MODEL_API_URL"
	APIKeyEnv   = "CONNECT_API_KEY"

	DefaultTimeout = 10 * time.Second

	maxErrorBody = 1024
)

var (
	ErrMissingEndpoint = errors.New("missing model endpoint URL")
	ErrMissingAPIKey   = errors.New("missing model API key")
)

// RequestError is returned when the model endpoint cannot be reached or does
// not answer 200.
type RequestError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("model endpoint %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("model endpoint %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("model endpoint %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Client posts feature records to the delay model endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each Predict call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient returns a client for the model served at endpointURL.
func NewClient(endpointURL, apiKey string, opts ...Option) (*Client, error) {
	if endpointURL == "" {
		return nil, ErrMissingEndpoint
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		endpoint:   endpointURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type response struct {
	Predict []float64 `json:"predict"`
}

// Predict returns the predicted delay in minutes for each input, rounded to
// one decimal place. Inputs are validated before anything is sent.
func (c *Client) Predict(ctx context.Context, inputs []Input) ([]float64, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrInvalidInput)
	}
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	body, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: c.endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{
			URL:        c.endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(excerpt)),
		}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(out.Predict) != len(inputs) {
		return nil, fmt.Errorf("model returned %d predictions for %d records", len(out.Predict), len(inputs))
	}

	preds := make([]float64, len(out.Predict))
	for i, v := range out.Predict {
		preds[i] = math.Round(v*10) / 10
	}
	return preds, nil
}
