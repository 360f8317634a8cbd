package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTimeout indicates no response arrived within the configured timeout.
	ErrTimeout = errors.New("api request timed out")

	// ErrUnavailable indicates the API server could not be reached.
	ErrUnavailable = errors.New("api server unavailable")

	// ErrCanceled indicates the caller abandoned the request, e.g. because
	// the screen that issued it was closed.
	ErrCanceled = errors.New("api request canceled")

	// ErrUnauthorized matches any 401 HTTPError via errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
)

// ErrBodyTooLarge is returned when a response body exceeds the read limit.
var ErrBodyTooLarge = errors.New("api response body too large")

// maxDetailRunes caps the raw body text quoted by HTTPError.Detail.
const maxDetailRunes = 200

// HTTPError is returned for any non-2xx response. Body holds the raw
// response payload, which may be empty.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if detail := e.Detail(); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Detail extracts a human-readable message from the error body: the
// "error" or "message" field of a JSON object, or the trimmed raw text.
func (e *HTTPError) Detail() string {
	if len(e.Body) == 0 {
		return ""
	}
	var obj map[string]any
	if err := decodeJSON(e.Body, &obj); err == nil {
		for _, k := range []string{"error", "message"} {
			if s, ok := obj[k].(string); ok && s != "" {
				return s
			}
		}
	}
	text := strings.TrimSpace(string(e.Body))
	if r := []rune(text); len(r) > maxDetailRunes {
		text = string(r[:maxDetailRunes]) + "…"
	}
	return text
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrCanceled):
		return "CANCELED"
	case errors.Is(err, ErrBodyTooLarge):
		return "BODY_TOO_LARGE"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("HTTP_%d", httpErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
