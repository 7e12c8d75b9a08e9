package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/pkg/http_util"
)

const (
	DefaultCookieName = "dating_session_id"
	defaultTimeout    = 15 * time.Second
	maxResponseBytes  = 1 << 20
)

// MatchAPI is the subset of the match endpoints the views depend on.
type MatchAPI interface {
	Discover(ctx context.Context, query entity.DiscoverQuery) (entity.DiscoverMatchesResponse, error)
	List(ctx context.Context) (entity.MatchListResponse, error)
	Act(ctx context.Context, userID int64, action entity.MatchAction) (entity.MatchActionResult, error)
}

// Error is a non-2xx answer from the match API.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  []http_util.ErrorResponse
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("match api: status %d", e.Status)
	}
	return fmt.Sprintf("match api: %s (status %d)", e.Message, e.Status)
}

type API struct {
	baseURL    string
	sessionID  string
	cookieName string
	httpClient *http.Client
}

type Option func(*API)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(a *API) {
		a.httpClient = httpClient
	}
}

func WithCookieName(name string) Option {
	return func(a *API) {
		a.cookieName = name
	}
}

func NewAPI(baseURL, sessionID string, opts ...Option) (*API, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}

	api := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionID:  sessionID,
		cookieName: DefaultCookieName,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(api)
	}

	return api, nil
}

func (a *API) Discover(ctx context.Context, query entity.DiscoverQuery) (entity.DiscoverMatchesResponse, error) {
	target := "/api/match/discover"
	if encoded := query.Values().Encode(); encoded != "" {
		target += "?" + encoded
	}

	var response entity.DiscoverMatchesResponse
	err := a.do(ctx, http.MethodGet, target, nil, &response)
	return response, err
}

func (a *API) List(ctx context.Context) (entity.MatchListResponse, error) {
	var response entity.MatchListResponse
	err := a.do(ctx, http.MethodGet, "/api/match/list", nil, &response)
	return response, err
}

func (a *API) Act(ctx context.Context, userID int64, action entity.MatchAction) (entity.MatchActionResult, error) {
	body, err := json.Marshal(entity.MatchActionRequest{UserID: userID, Action: action})
	if err != nil {
		return entity.MatchActionResult{}, err
	}

	var response entity.MatchActionResult
	err = a.do(ctx, http.MethodPost, "/api/match/action", body, &response)
	return response, err
}

func (a *API) do(ctx context.Context, method, target string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: a.cookieName, Value: a.sessionID})
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		if decoded, err := http_util.DecodeBody[http_util.HTTPErrorResponse](raw); err == nil {
			apiErr.Code = decoded.Code
			apiErr.Message = decoded.Message
			apiErr.Fields = decoded.Errors
		}
		return apiErr
	}

	return json.Unmarshal(raw, out)
}
