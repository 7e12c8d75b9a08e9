package match

import (
	"bytes"
	"encoding/json"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/logger"
)

const defaultUsername = "Member"

// ToCandidate maps an upstream member record. It returns nil when the record
// has no positive integer id.
func ToCandidate(member entity.MemberBlock) *entity.Candidate {
	id, ok := member.ID.PositiveInt()
	if !ok {
		return nil
	}

	candidate := &entity.Candidate{
		ID:       id,
		Username: username(member),
		Gender:   gender(member.Sexe1),
		PhotoURL: PhotoURL(member),
	}

	if count, ok := photoCount(member); ok {
		candidate.PhotoCount = &count
	}

	if age, ok := member.Age.PositiveInt(); ok {
		v := int(age)
		candidate.Age = &v
	}

	if location, ok := member.ZoneName.Text(); ok {
		candidate.Location = location
	}

	if rating, ok := member.Moyenne.Float(); ok {
		candidate.Rating = &rating
	}

	return candidate
}

func username(member entity.MemberBlock) string {
	if pseudo, ok := member.Pseudo.Text(); ok {
		return pseudo
	}
	if prenom, ok := member.Prenom.Text(); ok {
		return prenom
	}
	return defaultUsername
}

func gender(code entity.FlexNumber) entity.Gender {
	v, ok := code.Int()
	if !ok {
		return ""
	}

	switch v {
	case 1:
		return entity.GenderMan
	case 2:
		return entity.GenderWoman
	case 3:
		return entity.GenderCouple
	}
	return ""
}

// PhotoURL prefers the first v2 photo, then the first legacy photo. It
// returns "" when neither yields a usable URL.
func PhotoURL(member entity.MemberBlock) string {
	if len(member.PhotosV2) > 0 {
		p := member.PhotosV2[0]
		if url := firstText(p.Sq430, p.SqMiddle, p.SqSmall, p.Normal); url != "" {
			return url
		}
	}

	if len(member.Photos) > 0 {
		p := member.Photos[0]
		return firstText(p.URLMiddle, p.URLSmall, p.URLBig)
	}

	return ""
}

func firstText(values ...entity.FlexString) string {
	for _, v := range values {
		if text, ok := v.Text(); ok {
			return text
		}
	}
	return ""
}

func photoCount(member entity.MemberBlock) (int, bool) {
	if n := len(member.PhotosV2); n > 0 {
		return n, true
	}
	if n := len(member.Photos); n > 0 {
		return n, true
	}
	if n, ok := member.Photo.PositiveInt(); ok {
		return int(n), true
	}
	return 0, false
}

// shapeMatcher pulls the member list out of one known payload shape.
type shapeMatcher func(payload json.RawMessage) ([]json.RawMessage, bool)

// listShapes are tried in order; the first match wins.
var listShapes = []shapeMatcher{
	// [ {...}, ... ]
	func(payload json.RawMessage) ([]json.RawMessage, bool) {
		return asArray(payload)
	},
	// { "tab_profils": [...] }
	func(payload json.RawMessage) ([]json.RawMessage, bool) {
		obj, ok := asObject(payload)
		if !ok {
			return nil, false
		}
		return asArray(obj["tab_profils"])
	},
	// { "result": [...] }
	func(payload json.RawMessage) ([]json.RawMessage, bool) {
		obj, ok := asObject(payload)
		if !ok {
			return nil, false
		}
		return asArray(obj["result"])
	},
	// { "result": { "tab_profils": [...] } }
	func(payload json.RawMessage) ([]json.RawMessage, bool) {
		obj, ok := asObject(payload)
		if !ok {
			return nil, false
		}
		result, ok := asObject(obj["result"])
		if !ok {
			return nil, false
		}
		return asArray(result["tab_profils"])
	},
}

// ExtractItems returns the raw member records of a match list payload, or an
// empty slice when the shape is not recognised.
func ExtractItems(payload json.RawMessage) []json.RawMessage {
	for _, shape := range listShapes {
		if items, ok := shape(payload); ok {
			return items
		}
	}
	return []json.RawMessage{}
}

// ExtractTotal reads nb_total at the top level, then under result, and falls
// back to the given count.
func ExtractTotal(payload json.RawMessage, fallback int) int {
	obj, ok := asObject(payload)
	if !ok {
		return fallback
	}

	if total, ok := positiveField(obj, "nb_total"); ok {
		return total
	}

	if result, ok := asObject(obj["result"]); ok {
		if total, ok := positiveField(result, "nb_total"); ok {
			return total
		}
	}

	return fallback
}

// EnsureConnected fails with AuthenticationExpired when the payload's
// connected flag, top level or under result, is 0.
func EnsureConnected(payload json.RawMessage) error {
	obj, ok := asObject(payload)
	if !ok {
		return nil
	}

	if disconnected(obj) {
		return apperror.NewAuthenticationExpired("Session expired")
	}

	if result, ok := asObject(obj["result"]); ok && disconnected(result) {
		return apperror.NewAuthenticationExpired("Session expired")
	}

	return nil
}

func disconnected(obj map[string]json.RawMessage) bool {
	raw, ok := obj["connected"]
	if !ok {
		return false
	}

	var connected entity.FlexNumber
	_ = json.Unmarshal(raw, &connected)

	v, ok := connected.Int()
	return ok && v == 0
}

// NormalizeMembers decodes and maps raw member records in order. Records that
// are not objects or have no usable id are dropped.
func NormalizeMembers(items []json.RawMessage, log logger.Logger) []entity.Candidate {
	candidates := make([]entity.Candidate, 0, len(items))

	for i, raw := range items {
		var member entity.MemberBlock
		if err := json.Unmarshal(raw, &member); err != nil {
			log.Debug("dropping malformed member record", map[string]interface{}{"index": i})
			continue
		}

		candidate := ToCandidate(member)
		if candidate == nil {
			log.Debug("dropping member record without id", map[string]interface{}{"index": i})
			continue
		}

		candidates = append(candidates, *candidate)
	}

	return candidates
}

func positiveField(obj map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}

	var n entity.FlexNumber
	_ = json.Unmarshal(raw, &n)

	v, ok := n.PositiveInt()
	return int(v), ok
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if !startsWith(raw, '[') {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if !startsWith(raw, '{') {
		return nil, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func startsWith(raw json.RawMessage, c byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == c
}
