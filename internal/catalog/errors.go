package catalog

import "fmt"

// HTTPStatusError reports a non-2xx answer from an HTTP collection source.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("get %s: HTTP %d", e.URL, e.StatusCode)
}
