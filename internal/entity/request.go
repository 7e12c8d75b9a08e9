package entity

import (
	"net/url"
	"strconv"
)

type MatchActionRequest struct {
	UserID int64       `json:"userId"`
	Action MatchAction `json:"action"`
}

// DiscoverQuery is the browser-facing discover query, before validation.
// Gender is one of "men", "women", "couple".
type DiscoverQuery struct {
	Page    *int
	PerPage *int
	Gender  string
	AgeFrom *int
	AgeTo   *int
}

// Values encodes the set fields only.
func (q DiscoverQuery) Values() url.Values {
	values := url.Values{}

	setInt := func(key string, v *int) {
		if v != nil {
			values.Set(key, strconv.Itoa(*v))
		}
	}

	setInt("page", q.Page)
	setInt("perPage", q.PerPage)
	if q.Gender != "" {
		values.Set("gender", q.Gender)
	}
	setInt("ageFrom", q.AgeFrom)
	setInt("ageTo", q.AgeTo)

	return values
}
