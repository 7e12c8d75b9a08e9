// Package upstream talks to the third-party dating API. It never retries and
// never hands raw upstream bodies back to callers on failure.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/logger"
	"github.com/ghaniswara/algolove/internal/observability"
	"github.com/ghaniswara/algolove/pkg/redact"
)

const previewLimit = 300

// Params are upstream query/form parameters. nil values, nil pointers and
// empty strings are dropped before sending.
type Params map[string]interface{}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logger.Logger
	Metrics    *observability.Metrics
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        logger.Logger
	metrics    *observability.Metrics
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		log:        log,
		metrics:    opts.Metrics,
	}, nil
}

func (c *Client) Get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, params)
}

// PostForm sends params both in the query string and as a form body; the
// upstream reads either.
func (c *Client) PostForm(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, params)
}

func (c *Client) do(ctx context.Context, method, path string, params Params) (json.RawMessage, error) {
	values := cleanParams(params)
	fields := map[string]interface{}{
		"method": method,
		"path":   path,
		"params": sanitizeParams(values),
	}

	c.log.Info("upstream request", fields)

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})
	endpoint.RawQuery = values.Encode()

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, apperror.NewInternal("build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).Error("upstream network error", fields)
		appErr := apperror.NewUpstreamUnavailable(err)
		c.record(ctx, method, path, appErr, start)
		return nil, appErr
	}
	defer resp.Body.Close()

	payload, err := c.readJSON(resp, method, path)
	if err != nil {
		c.record(ctx, method, path, err, start)
		return nil, err
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.log.Info("upstream response", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"ok":     ok,
	})

	if !ok {
		message := upstreamErrorMessage(payload)
		c.log.Error("upstream non-ok response", map[string]interface{}{
			"method":  method,
			"path":    path,
			"status":  resp.StatusCode,
			"message": message,
		})
		appErr := apperror.NewUpstreamRequestFailed(message, resp.StatusCode)
		c.record(ctx, method, path, appErr, start)
		return nil, appErr
	}

	c.record(ctx, method, path, nil, start)
	return payload, nil
}

func (c *Client) readJSON(resp *http.Response, method, path string) (json.RawMessage, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logInvalidJSON(method, path, resp.StatusCode, "[unavailable]")
		return nil, apperror.NewUpstreamBadResponse()
	}

	if !json.Valid(data) {
		c.logInvalidJSON(method, path, resp.StatusCode, preview(data))
		return nil, apperror.NewUpstreamBadResponse()
	}

	return json.RawMessage(data), nil
}

func (c *Client) logInvalidJSON(method, path string, status int, preview string) {
	c.log.Error("failed to parse upstream JSON", map[string]interface{}{
		"method":  method,
		"path":    path,
		"status":  status,
		"preview": preview,
	})
}

func (c *Client) record(ctx context.Context, method, path string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperror.ErrCodeInternal)
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			outcome = string(appErr.Code)
		}
	}
	c.metrics.RecordUpstreamCall(ctx, method, path, outcome, time.Since(start))
}

func cleanParams(params Params) url.Values {
	values := url.Values{}
	for key, value := range params {
		if s, ok := formatParam(value); ok {
			values.Set(key, s)
		}
	}
	return values
}

func formatParam(value interface{}) (string, bool) {
	if value == nil {
		return "", false
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}

	s := fmt.Sprint(rv.Interface())
	if s == "" {
		return "", false
	}
	return s, true
}

// sanitizeParams is the only form in which params reach the logs.
func sanitizeParams(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for key := range values {
		out[key] = values.Get(key)
	}

	if v, ok := out["session_id"]; ok {
		out["session_id"] = redact.Mask(v)
	}
	if _, ok := out["api_key"]; ok {
		out["api_key"] = "***"
	}

	return out
}

func upstreamErrorMessage(payload json.RawMessage) string {
	var body struct {
		Error entity.FlexString `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	message, _ := body.Error.Raw()
	return message
}

func preview(data []byte) string {
	runes := []rune(string(data))
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes)
}
