package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/logger"
	"github.com/ghaniswara/algolove/internal/logger/loggertest"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMember(t *testing.T, raw string) entity.MemberBlock {
	t.Helper()
	var member entity.MemberBlock
	require.NoError(t, json.Unmarshal([]byte(raw), &member))
	return member
}

func TestToCandidate_FullRecord(t *testing.T) {
	member := decodeMember(t, `{
		"id": "1204",
		"pseudo": "  skyler ",
		"prenom": "Sky",
		"sexe1": 2,
		"age": "31",
		"zone_name": " Lyon ",
		"moyenne": "4.5",
		"photos_v2": [{"sq_430": "https://img/430.jpg"}, {"sq_430": "https://img/2.jpg"}]
	}`)

	candidate := ToCandidate(member)

	require.NotNil(t, candidate)
	assert.Equal(t, int64(1204), candidate.ID)
	assert.Equal(t, "skyler", candidate.Username)
	assert.Equal(t, entity.GenderWoman, candidate.Gender)
	assert.Equal(t, 31, *candidate.Age)
	assert.Equal(t, "Lyon", candidate.Location)
	assert.Equal(t, 4.5, *candidate.Rating)
	assert.Equal(t, "https://img/430.jpg", candidate.PhotoURL)
	assert.Equal(t, 2, *candidate.PhotoCount)
}

func TestToCandidate_DiscardsRecordsWithoutUsableID(t *testing.T) {
	ids := []string{
		``,
		`"id": null,`,
		`"id": 0,`,
		`"id": -4,`,
		`"id": 2.5,`,
		`"id": "abc",`,
		`"id": "",`,
		`"id": true,`,
		`"id": {"value": 1},`,
		`"id": [7],`,
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			raw := fmt.Sprintf(`{%s "pseudo": %q, "age": 30}`, id, faker.Username())
			assert.Nil(t, ToCandidate(decodeMember(t, raw)))
		})
	}
}

func TestToCandidate_UsernameFallback(t *testing.T) {
	firstName := faker.FirstName()

	assert.Equal(t, firstName, ToCandidate(decodeMember(t, fmt.Sprintf(`{"id": 1, "pseudo": "  ", "prenom": %q}`, firstName))).Username)
	assert.Equal(t, "Member", ToCandidate(decodeMember(t, `{"id": 1}`)).Username)
	assert.Equal(t, "Member", ToCandidate(decodeMember(t, `{"id": 1, "pseudo": 5}`)).Username)
}

func TestToCandidate_Gender(t *testing.T) {
	tests := map[string]entity.Gender{
		`1`:   entity.GenderMan,
		`"2"`: entity.GenderWoman,
		`3`:   entity.GenderCouple,
		`4`:   "",
		`"x"`: "",
		`1.5`: "",
	}

	for raw, want := range tests {
		candidate := ToCandidate(decodeMember(t, fmt.Sprintf(`{"id": 1, "sexe1": %s}`, raw)))
		assert.Equal(t, want, candidate.Gender, raw)
	}
}

func TestToCandidate_OptionalFieldsAbsent(t *testing.T) {
	candidate := ToCandidate(decodeMember(t, `{"id": 9, "age": 0, "zone_name": "  ", "moyenne": "n/a", "photo": "0"}`))

	require.NotNil(t, candidate)
	assert.Nil(t, candidate.Age)
	assert.Empty(t, candidate.Location)
	assert.Nil(t, candidate.Rating)
	assert.Empty(t, candidate.PhotoURL)
	assert.Nil(t, candidate.PhotoCount)
}

func TestPhotoURL_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"sq_430 wins", `{"photos_v2": [{"sq_430": "a", "sq_middle": "b"}]}`, "a"},
		{"sq_middle next", `{"photos_v2": [{"sq_middle": "b", "normal": "n"}]}`, "b"},
		{"sq_small next", `{"photos_v2": [{"sq_small": "s", "normal": "n"}]}`, "s"},
		{"normal last", `{"photos_v2": [{"sq_430": " ", "normal": "n"}]}`, "n"},
		{"legacy url_small", `{"photos": [{"url_small": "c"}]}`, "c"},
		{"legacy url_middle first", `{"photos": [{"url_small": "c", "url_middle": "m"}]}`, "m"},
		{"legacy url_big last", `{"photos": [{"url_big": "big"}]}`, "big"},
		{"empty v2 falls back to legacy", `{"photos_v2": [{}], "photos": [{"url_big": "big"}]}`, "big"},
		{"only first v2 entry counts", `{"photos_v2": [{}, {"sq_430": "second"}]}`, ""},
		{"nothing usable", `{"photos": "none"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhotoURL(decodeMember(t, tt.raw)))
		})
	}
}

func TestPhotoCount_Fallbacks(t *testing.T) {
	tests := []struct {
		raw  string
		want *int
	}{
		{`{"id": 1, "photos_v2": [{}, {}, {}], "photos": [{}]}`, intPtr(3)},
		{`{"id": 1, "photos_v2": [], "photos": [{}, {}]}`, intPtr(2)},
		{`{"id": 1, "photo": "5"}`, intPtr(5)},
		{`{"id": 1, "photo": -1}`, nil},
		{`{"id": 1}`, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCandidate(decodeMember(t, tt.raw)).PhotoCount, tt.raw)
	}
}

func TestExtractItems_ShapesAgree(t *testing.T) {
	members := fmt.Sprintf(`[{"id": 1, "pseudo": %q}, {"id": "2", "prenom": %q}, {"pseudo": "no id"}, "junk"]`,
		faker.Username(), faker.FirstName())

	shapes := map[string]string{
		"bare array":         members,
		"tab_profils":        `{"tab_profils": ` + members + `}`,
		"result array":       `{"connected": 1, "result": ` + members + `}`,
		"result.tab_profils": `{"result": {"nb_total": 2, "tab_profils": ` + members + `}}`,
	}

	log := logger.NewNoOpLogger()
	want := NormalizeMembers(ExtractItems(json.RawMessage(members)), log)
	require.Len(t, want, 2)

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			got := NormalizeMembers(ExtractItems(json.RawMessage(payload)), log)
			assert.Equal(t, want, got)
		})
	}
}

func TestExtractItems_Precedence(t *testing.T) {
	payload := json.RawMessage(`{"tab_profils": [{"id": 1}], "result": [{"id": 2}]}`)

	items := ExtractItems(payload)

	require.Len(t, items, 1)
	assert.JSONEq(t, `{"id": 1}`, string(items[0]))
}

func TestExtractItems_UnknownShapes(t *testing.T) {
	for _, payload := range []string{`{}`, `null`, `"text"`, `42`, `{"result": "x"}`, `{"result": {"tab_profils": {}}}`} {
		items := ExtractItems(json.RawMessage(payload))
		assert.NotNil(t, items, payload)
		assert.Empty(t, items, payload)
	}
}

func TestExtractTotal(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{`{"nb_total": 12, "result": {"nb_total": 4}}`, 12},
		{`{"nb_total": "0", "result": {"nb_total": "4"}}`, 4},
		{`{"result": {"nb_total": "x"}}`, 3},
		{`[{"id": 1}]`, 3},
		{`{"nb_total": 2.5}`, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTotal(json.RawMessage(tt.payload), 3), tt.payload)
	}
}

func TestEnsureConnected(t *testing.T) {
	expired := []string{
		`{"connected": 0, "result": [{"id": 1}]}`,
		`{"connected": "0"}`,
		`{"connected": 1, "result": {"connected": 0, "tab_profils": [{"id": 1}]}}`,
	}
	for _, payload := range expired {
		err := EnsureConnected(json.RawMessage(payload))
		assert.True(t, errors.Is(err, apperror.ErrAuthenticationExpired), payload)
	}

	alive := []string{
		`{"connected": 1}`,
		`{"connected": null}`,
		`{"connected": "no"}`,
		`{}`,
		`[{"id": 1}]`,
	}
	for _, payload := range alive {
		assert.NoError(t, EnsureConnected(json.RawMessage(payload)), payload)
	}
}

func TestNormalizeMembers_PreservesOrder(t *testing.T) {
	items := ExtractItems(json.RawMessage(`[{"id": 3}, {"id": 1}, {"id": 2}]`))

	candidates := NormalizeMembers(items, loggertest.New(t))

	require.Len(t, candidates, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{candidates[0].ID, candidates[1].ID, candidates[2].ID})
}
