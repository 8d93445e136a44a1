package httpclient

import "fmt"

// UpstreamError is returned when a provider API answers with a non-2xx
// status. The raw body is preserved for logging.
type UpstreamError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream api error (status %d) from %s: %s", e.StatusCode, e.URL, truncate(e.Body, 256))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
