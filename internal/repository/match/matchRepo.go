package matchRepo

import (
	"context"
	"encoding/json"

	"github.com/ghaniswara/algolove/internal/datastore/upstream"
	"github.com/ghaniswara/algolove/internal/entity"
)

const (
	searchPath = "/index_api/search"
	matchPath  = "/index_api/match"
)

type DiscoverParams struct {
	SessionID    string
	Page         *int
	PerPage      *int
	AgeFrom      *int
	AgeTo        *int
	Sex          entity.SexCode
	SearchAction string
}

// IMatchRepo returns raw upstream payloads; decoding is left to the caller.
type IMatchRepo interface {
	DiscoverMatches(ctx context.Context, params DiscoverParams) (json.RawMessage, error)
	ListMatches(ctx context.Context, sessionID string) (json.RawMessage, error)
	SetLike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error)
	SetDislike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error)
}

// Gateway is the subset of the upstream client the repository needs.
type Gateway interface {
	Get(ctx context.Context, path string, params upstream.Params) (json.RawMessage, error)
	PostForm(ctx context.Context, path string, params upstream.Params) (json.RawMessage, error)
}

type MatchRepo struct {
	gateway Gateway
	apiKey  string
}

func NewMatchRepo(gateway Gateway, apiKey string) IMatchRepo {
	return &MatchRepo{
		gateway: gateway,
		apiKey:  apiKey,
	}
}

func (m *MatchRepo) DiscoverMatches(ctx context.Context, params DiscoverParams) (json.RawMessage, error) {
	return m.gateway.PostForm(ctx, searchPath, upstream.Params{
		"session_id":      params.SessionID,
		"api_key":         m.apiKey,
		"page":            params.Page,
		"pas":             params.PerPage,
		"age_from":        params.AgeFrom,
		"age_to":          params.AgeTo,
		"sex":             string(params.Sex),
		"get_picture_430": 1,
		"searchAction":    params.SearchAction,
	})
}

func (m *MatchRepo) ListMatches(ctx context.Context, sessionID string) (json.RawMessage, error) {
	return m.gateway.Get(ctx, matchPath, upstream.Params{
		"session_id": sessionID,
		"api_key":    m.apiKey,
		"action":     "get_matches",
	})
}

func (m *MatchRepo) SetLike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error) {
	return m.setAction(ctx, sessionID, userID, "set_like")
}

func (m *MatchRepo) SetDislike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error) {
	return m.setAction(ctx, sessionID, userID, "set_dislike")
}

func (m *MatchRepo) setAction(ctx context.Context, sessionID string, userID int64, action string) (json.RawMessage, error) {
	return m.gateway.Get(ctx, matchPath, upstream.Params{
		"session_id": sessionID,
		"api_key":    m.apiKey,
		"action":     action,
		"id_user":    userID,
	})
}
