package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// source reads a saved API payload from a local file or an http(s) URL.
// This is CLI-specific logic and is not part of the client library.
type source struct {
	httpClient *http.Client
}

func newSource() *source {
	return &source{httpClient: &http.Client{}}
}

// read returns the raw bytes at pathOrURL.
func (s *source) read(ctx context.Context, pathOrURL string) ([]byte, error) {
	if !strings.HasPrefix(pathOrURL, "http://") && !strings.HasPrefix(pathOrURL, "https://") {
		return os.ReadFile(pathOrURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pathOrURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pathOrURL)
	}
	return io.ReadAll(resp.Body)
}
