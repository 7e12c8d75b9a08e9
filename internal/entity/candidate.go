package entity

type Gender string

const (
	GenderMan    Gender = "man"
	GenderWoman  Gender = "woman"
	GenderCouple Gender = "couple"
)

// Candidate is the canonical shape of a prospective match. A record without a
// positive integer ID never becomes a Candidate.
type Candidate struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	Gender     Gender   `json:"gender,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Location   string   `json:"location,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	PhotoURL   string   `json:"photoUrl,omitempty"`
	PhotoCount *int     `json:"photoCount,omitempty"`
}

// SexCode is the upstream's single-digit gender encoding.
type SexCode string

const (
	SexMan    SexCode = "1"
	SexWoman  SexCode = "2"
	SexCouple SexCode = "3"
)

const SearchActionLast = "Last"

// DiscoverFilters is a validated discover query. SearchAction is "Last" only
// when none of Sex, AgeFrom and AgeTo is set.
type DiscoverFilters struct {
	Page         *int
	PerPage      *int
	AgeFrom      *int
	AgeTo        *int
	Sex          SexCode
	SearchAction string
}

type MatchAction string

const (
	MatchActionLike    MatchAction = "like"
	MatchActionDislike MatchAction = "dislike"
)

func (a MatchAction) Valid() bool {
	return a == MatchActionLike || a == MatchActionDislike
}

func (a MatchAction) String() string {
	return string(a)
}
