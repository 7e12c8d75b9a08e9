package client

import (
	"context"

	"github.com/ghaniswara/algolove/internal/entity"
)

type actCall struct {
	UserID int64
	Action entity.MatchAction
}

// fakeAPI serves discover pages by page number and records every call.
type fakeAPI struct {
	pages       map[int]entity.DiscoverMatchesResponse
	discoverErr error
	actResult   entity.MatchActionResult
	actErr      error

	discoverCalls []entity.DiscoverQuery
	actCalls      []actCall
}

func (f *fakeAPI) Discover(_ context.Context, query entity.DiscoverQuery) (entity.DiscoverMatchesResponse, error) {
	f.discoverCalls = append(f.discoverCalls, query)
	if f.discoverErr != nil {
		return entity.DiscoverMatchesResponse{}, f.discoverErr
	}

	page := 0
	if query.Page != nil {
		page = *query.Page
	}
	return f.pages[page], nil
}

func (f *fakeAPI) List(context.Context) (entity.MatchListResponse, error) {
	return entity.MatchListResponse{}, nil
}

func (f *fakeAPI) Act(_ context.Context, userID int64, action entity.MatchAction) (entity.MatchActionResult, error) {
	f.actCalls = append(f.actCalls, actCall{UserID: userID, Action: action})
	return f.actResult, f.actErr
}

func candidates(ids ...int64) []entity.Candidate {
	items := make([]entity.Candidate, 0, len(ids))
	for _, id := range ids {
		items = append(items, entity.Candidate{ID: id, Username: "Member"})
	}
	return items
}

func ids(items []entity.Candidate) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
