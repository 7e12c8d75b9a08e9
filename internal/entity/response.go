package entity

type DiscoverMatchesResponse struct {
	Items      []Candidate `json:"items"`
	Page       *int        `json:"page,omitempty"`
	TotalPages *int        `json:"totalPages,omitempty"`
	Total      int         `json:"total"`
}

type MatchListResponse struct {
	Items []Candidate `json:"items"`
	Total int         `json:"total"`
}

// MatchActionResult carries the upstream's raw result token. IsMatch is true
// only for the exact token "match".
type MatchActionResult struct {
	Result  string `json:"result,omitempty"`
	IsMatch bool   `json:"isMatch"`
}
