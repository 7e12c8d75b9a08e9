package client

import (
	"context"
	"errors"

	"github.com/ghaniswara/algolove/internal/entity"
)

const (
	MatchStatus          = "It is a match! User was moved out of recommendations."
	actionFallbackStatus = "Could not apply match action."
)

var ErrNoSelection = errors.New("no candidate selected")

// Recommendations is the list view: discover results minus the candidates
// already acted on in this view, with one selected candidate. It is not safe
// for concurrent use.
type Recommendations struct {
	api        MatchAPI
	query      entity.DiscoverQuery
	items      []entity.Candidate
	totalPages int
	err        error
	loaded     bool
	acted      map[int64]entity.MatchAction
	selectedID int64
}

func NewRecommendations(api MatchAPI, query entity.DiscoverQuery) *Recommendations {
	return &Recommendations{
		api:   api,
		query: query,
		acted: map[int64]entity.MatchAction{},
	}
}

// Load fetches the current query. On failure the previous items are dropped
// so the view shows the error rather than stale results.
func (r *Recommendations) Load(ctx context.Context) error {
	response, err := r.api.Discover(ctx, r.query)
	r.loaded = true
	r.err = err
	if err != nil {
		r.items = nil
		r.totalPages = 0
		return err
	}

	r.items = response.Items
	r.totalPages = 1
	if response.TotalPages != nil && *response.TotalPages > 0 {
		r.totalPages = *response.TotalPages
	}
	return nil
}

// SetQuery replaces the filters. The caller reloads.
func (r *Recommendations) SetQuery(query entity.DiscoverQuery) {
	r.query = query
}

func (r *Recommendations) Query() entity.DiscoverQuery {
	return r.query
}

func (r *Recommendations) TotalPages() int {
	return r.totalPages
}

func (r *Recommendations) State() QueryState {
	return StateOf(!r.loaded, r.err, len(r.Visible(r.items)))
}

func (r *Recommendations) Err() error {
	return r.err
}

// Visible keeps the upstream order and drops acted ids.
func (r *Recommendations) Visible(items []entity.Candidate) []entity.Candidate {
	visible := make([]entity.Candidate, 0, len(items))
	for _, item := range items {
		if _, ok := r.acted[item.ID]; ok {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

// Selected returns the selected candidate while it is still visible, else the
// first visible one, else nil.
func (r *Recommendations) Selected(items []entity.Candidate) *entity.Candidate {
	visible := r.Visible(items)
	if len(visible) == 0 {
		return nil
	}

	for i := range visible {
		if visible[i].ID == r.selectedID {
			return &visible[i]
		}
	}
	return &visible[0]
}

func (r *Recommendations) Items() []entity.Candidate {
	return r.Visible(r.items)
}

func (r *Recommendations) Current() *entity.Candidate {
	return r.Selected(r.items)
}

func (r *Recommendations) Select(id int64) {
	r.selectedID = id
}

func (r *Recommendations) Acted(id int64) (entity.MatchAction, bool) {
	action, ok := r.acted[id]
	return action, ok
}

// Act submits action for the selected candidate and returns the status line
// to show. A failed action leaves the candidate visible.
func (r *Recommendations) Act(ctx context.Context, action entity.MatchAction) (string, error) {
	candidate := r.Selected(r.items)
	if candidate == nil {
		return "", ErrNoSelection
	}
	userID := candidate.ID

	result, err := r.api.Act(ctx, userID, action)
	if err != nil {
		return ErrorMessage(err, actionFallbackStatus), err
	}

	r.acted[userID] = action
	return ActionStatus(action, result), nil
}

// ActionStatus is the status line for a successful action.
func ActionStatus(action entity.MatchAction, result entity.MatchActionResult) string {
	if result.IsMatch {
		return MatchStatus
	}
	if result.Result != "" {
		return result.Result
	}
	if action == entity.MatchActionLike {
		return "Liked successfully. User removed from recommendations."
	}
	return "Disliked successfully. User removed from recommendations."
}
