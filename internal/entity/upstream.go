package entity

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Upstream payloads use legacy French field names and send numbers either as
// JSON numbers or as numeric strings. The types below decode leniently: a
// field of the wrong type becomes "absent" instead of failing the record.

// FlexNumber holds a finite number decoded from a JSON number or a numeric
// string. Anything else decodes as absent.
type FlexNumber struct {
	value float64
	valid bool
}

func NewFlexNumber(v float64) FlexNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FlexNumber{}
	}
	return FlexNumber{value: v, valid: true}
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case json.Number:
		n.parse(v.String())
	case string:
		n.parse(strings.TrimSpace(v))
	}
	return nil
}

func (n *FlexNumber) parse(s string) {
	if s == "" {
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return
	}
	*n = NewFlexNumber(f)
}

func (n FlexNumber) Float() (float64, bool) {
	return n.value, n.valid
}

// Int returns the value when it is an integer that fits in int64.
func (n FlexNumber) Int() (int64, bool) {
	if !n.valid || n.value != math.Trunc(n.value) {
		return 0, false
	}
	if n.value < math.MinInt64 || n.value >= math.MaxInt64 {
		return 0, false
	}
	return int64(n.value), true
}

func (n FlexNumber) PositiveInt() (int64, bool) {
	i, ok := n.Int()
	if !ok || i < 1 {
		return 0, false
	}
	return i, true
}

func (n FlexNumber) NonNegativeInt() (int64, bool) {
	i, ok := n.Int()
	if !ok || i < 0 {
		return 0, false
	}
	return i, true
}

// FlexString holds a JSON string; other JSON types decode as absent.
type FlexString struct {
	value string
	valid bool
}

func NewFlexString(s string) FlexString {
	return FlexString{value: s, valid: true}
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString{}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*s = NewFlexString(v)
	return nil
}

// Raw returns the string exactly as sent.
func (s FlexString) Raw() (string, bool) {
	return s.value, s.valid
}

// Text returns the trimmed string when it is not blank.
func (s FlexString) Text() (string, bool) {
	if !s.valid {
		return "", false
	}
	trimmed := strings.TrimSpace(s.value)
	return trimmed, trimmed != ""
}

// PhotoList decodes a JSON array leniently: a non-array is an empty list and
// a malformed element is kept as a zero value so the count stays right.
type PhotoList[T any] []T

func (p *PhotoList[T]) UnmarshalJSON(data []byte) error {
	*p = nil

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil
	}

	out := make(PhotoList[T], 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			var zero T
			item = zero
		}
		out = append(out, item)
	}
	*p = out
	return nil
}

// PhotoBlock is the legacy photo shape.
type PhotoBlock struct {
	URLMiddle FlexString `json:"url_middle"`
	URLSmall  FlexString `json:"url_small"`
	URLBig    FlexString `json:"url_big"`
}

// PhotoBlockV2 is the current photo shape.
type PhotoBlockV2 struct {
	Normal   FlexString `json:"normal"`
	Sq430    FlexString `json:"sq_430"`
	SqMiddle FlexString `json:"sq_middle"`
	SqSmall  FlexString `json:"sq_small"`
}

// MemberBlock is one upstream member record.
type MemberBlock struct {
	ID       FlexNumber              `json:"id"`
	Pseudo   FlexString              `json:"pseudo"`
	Prenom   FlexString              `json:"prenom"`
	Sexe1    FlexNumber              `json:"sexe1"`
	Age      FlexNumber              `json:"age"`
	ZoneName FlexString              `json:"zone_name"`
	Moyenne  FlexNumber              `json:"moyenne"`
	Photo    FlexNumber              `json:"photo"`
	Photos   PhotoList[PhotoBlock]   `json:"photos"`
	PhotosV2 PhotoList[PhotoBlockV2] `json:"photos_v2"`
}

// SearchResponse is the /index_api/search payload.
type SearchResponse struct {
	Connected FlexNumber      `json:"connected"`
	NbPages   FlexNumber      `json:"nb_pages"`
	Total     FlexNumber      `json:"total"`
	Result    json.RawMessage `json:"result"`
}

// MatchActionPayload is the set_like / set_dislike payload.
type MatchActionPayload struct {
	Connected FlexNumber `json:"connected"`
	Result    FlexString `json:"result"`
}
