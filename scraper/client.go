package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"funda-scraper/utils"
)

// browser-like headers sent with every request.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept-Encoding": "gzip, deflate, br",
	"Connection":      "keep-alive",
	"Cache-Control":   "max-age=0",
}

// transient status codes that warrant a retry.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true, // 408
	http.StatusTooManyRequests:     true, // 429
	http.StatusInternalServerError: true, // 500
	http.StatusBadGateway:          true, // 502
	http.StatusServiceUnavailable:  true, // 503
	http.StatusGatewayTimeout:      true, // 504
	520:                            true, // Cloudflare "unknown error"
}

// RequestHandler issues GET requests with browser-like headers and retries
// transient failures with exponential backoff.
type RequestHandler struct {
	client *http.Client
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewRequestHandler creates a RequestHandler with the given timeout and retry
// policy.
func NewRequestHandler(timeout time.Duration, maxRetries int, baseDelay time.Duration, logger *utils.Logger) *RequestHandler {
	return &RequestHandler{
		client: &http.Client{Timeout: timeout},
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   baseDelay,
			Logger:      logger,
		},
		logger: logger,
	}
}

// IsValidURL reports whether s is a well-formed absolute URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Get fetches the URL and returns the response body. Transient status codes
// (408, 429, 5xx gateway errors) are retried; any other non-2xx response
// fails immediately.
func (r *RequestHandler) Get(ctx context.Context, rawURL string) (string, error) {
	var body string

	err := r.retry.Do(fmt.Sprintf("GET %s", rawURL), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return utils.Permanent(err)
		}
		for k, v := range defaultHeaders {
			req.Header.Set(k, v)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if retryableStatus[resp.StatusCode] {
			return fmt.Errorf("transient status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return utils.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return body, nil
}
