package client

import (
	"context"

	"github.com/ghaniswara/algolove/internal/entity"
)

// Deck is the swipe view: one card at a time over the discover pages. Page is
// 0-based. It is not safe for concurrent use.
type Deck struct {
	api      MatchAPI
	query    entity.DiscoverQuery
	page     int
	cursor   int
	response *entity.DiscoverMatchesResponse
	err      error
	acted    map[int64]entity.MatchAction
}

func NewDeck(api MatchAPI, query entity.DiscoverQuery) *Deck {
	return &Deck{
		api:   api,
		query: query,
		acted: map[int64]entity.MatchAction{},
	}
}

// Load fetches the current page and resets the cursor.
func (d *Deck) Load(ctx context.Context) error {
	query := d.query
	page := d.page
	query.Page = &page

	response, err := d.api.Discover(ctx, query)
	d.err = err
	d.cursor = 0
	if err != nil {
		d.response = nil
		return err
	}

	d.response = &response
	return nil
}

func (d *Deck) Page() int {
	return d.page
}

func (d *Deck) Cursor() int {
	return d.cursor
}

func (d *Deck) Err() error {
	return d.err
}

func (d *Deck) State() QueryState {
	return StateOf(d.response == nil && d.err == nil, d.err, len(d.items()))
}

// Current is the card under the cursor, or nil.
func (d *Deck) Current() *entity.Candidate {
	items := d.items()
	if d.cursor < 0 || d.cursor >= len(items) {
		return nil
	}
	return &items[d.cursor]
}

func (d *Deck) Acted(id int64) (entity.MatchAction, bool) {
	action, ok := d.acted[id]
	return action, ok
}

// Act submits action for the current card and moves on. A failed action
// leaves the deck where it was.
func (d *Deck) Act(ctx context.Context, action entity.MatchAction) (entity.MatchActionResult, error) {
	current := d.Current()
	if current == nil {
		return entity.MatchActionResult{}, ErrNoSelection
	}

	result, err := d.api.Act(ctx, current.ID, action)
	if err != nil {
		return result, err
	}

	d.acted[current.ID] = action
	return result, d.advance(ctx)
}

// advance steps within the page, then to the next page, and once the last
// page is exhausted refetches the same page for fresh candidates.
func (d *Deck) advance(ctx context.Context) error {
	if d.cursor+1 < len(d.items()) {
		d.cursor++
		return nil
	}

	if d.response != nil && d.response.TotalPages != nil && d.page+1 < *d.response.TotalPages {
		d.page++
	}
	return d.Load(ctx)
}

func (d *Deck) items() []entity.Candidate {
	if d.response == nil {
		return nil
	}
	return d.response.Items
}
