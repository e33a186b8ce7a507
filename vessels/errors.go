package vessels

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgumentCombination is returned when a history query names
	// some but not all of vessel, start date and end date.
	ErrInvalidArgumentCombination = errors.New("invalid argument combination")
	// ErrInvalidDateRange is returned when a complete history query ends before it starts.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidVesselID is returned for negative vessel IDs.
	ErrInvalidVesselID = errors.New("invalid vessel ID")
	// ErrUnknownResource is returned for a Resource outside the supported set.
	ErrUnknownResource = errors.New("unknown resource")
	// ErrMissingAccessCode is returned when a client is built without an access code.
	ErrMissingAccessCode = errors.New("missing API access code")
	// ErrRequestFailed matches every *RequestError.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse matches every *DecodeError.
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestError is returned when the HTTP round trip fails or the API answers
// with a non-2xx status. StatusCode is zero for transport failures.
type RequestError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil && e.StatusCode != 0 {
		return fmt.Sprintf("reading HTTP %d response from %s: %v", e.StatusCode, e.URL, e.Err)
	}
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
		}
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

// DecodeError is returned when a response body is not JSON a Table can be built from.
type DecodeError struct {
	URL  string
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("malformed response: %v", e.Err)
	}
	return fmt.Sprintf("malformed response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrMalformedResponse }
