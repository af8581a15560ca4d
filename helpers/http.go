package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// RequestTimeout bounds every outbound call. There is no retry, so a hung
// dependency surfaces as an error instead of pinning the inbound request.
const RequestTimeout = 30 * time.Second

// Universal HTTP request function for JSON APIs
func MakeHTTPRequest[T any](
	app core.App,
	method string,
	fullURL string,
	headers map[string]string,
	queryParams url.Values,
	body interface{},
) (T, error) {
	var result T

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return result, err
		}
		bodyReader = bytes.NewBuffer(b)
	}

	// Add query parameters
	u, err := url.Parse(fullURL)
	if err != nil {
		return result, err
	}
	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q[k] = v
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequest(method, u.String(), bodyReader)
	if err != nil {
		return result, err
	}

	// Set headers
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && headers["Content-Type"] == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: RequestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	app.Logger().Debug("HTTP Request", "url", u.String(), "body", string(respBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBytes),
		}
	}

	if err := json.Unmarshal(respBytes, &result); err != nil {
		return result, fmt.Errorf("failed to decode response from %s: %w", u.Host, err)
	}

	return result, nil
}

// UpstreamError reports a non-2xx reply from a dependency. The raw body is
// kept around for diagnostics.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return e.Status + ": " + e.Body
}
