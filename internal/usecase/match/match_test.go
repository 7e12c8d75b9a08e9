package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/logger/loggertest"
	matchRepo "github.com/ghaniswara/algolove/internal/repository/match"
	"github.com/ghaniswara/algolove/pkg/redact"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMatchRepo struct {
	mock.Mock
}

func (m *mockMatchRepo) DiscoverMatches(ctx context.Context, params matchRepo.DiscoverParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockMatchRepo) ListMatches(ctx context.Context, sessionID string) (json.RawMessage, error) {
	args := m.Called(ctx, sessionID)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockMatchRepo) SetLike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error) {
	args := m.Called(ctx, sessionID, userID)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockMatchRepo) SetDislike(ctx context.Context, sessionID string, userID int64) (json.RawMessage, error) {
	args := m.Called(ctx, sessionID, userID)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

type mockSessionRegistry struct {
	mock.Mock
}

func (m *mockSessionRegistry) MarkExpired(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockActionRecorder struct {
	mock.Mock
}

func (m *mockActionRecorder) Record(ctx context.Context, log *entity.MatchActionLog) error {
	return m.Called(ctx, log).Error(0)
}

const testSession = "session-abcdef"

func memberJSON(id int) string {
	return fmt.Sprintf(`{"id": %d, "pseudo": %q, "sexe1": "1", "photos_v2": [{"sq_430": "https://img/%d.jpg"}]}`,
		id, faker.Username(), id)
}

func TestDiscoverMatches_GenderFilterReachesUpstream(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, loggertest.New(t))

	repo.On("DiscoverMatches", mock.Anything, matchRepo.DiscoverParams{
		SessionID: testSession,
		AgeFrom:   intPtr(25),
		AgeTo:     intPtr(35),
		Sex:       entity.SexWoman,
	}).Return(json.RawMessage(`{"connected": 1, "nb_pages": 4, "total": "37", "result": [`+memberJSON(1)+`]}`), nil)

	query, _ := url.ParseQuery("gender=women&ageFrom=25&ageTo=35")
	response, err := uc.DiscoverMatches(context.Background(), testSession, query)

	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, int64(1), response.Items[0].ID)
	assert.Nil(t, response.Page)
	assert.Equal(t, intPtr(4), response.TotalPages)
	assert.Equal(t, 37, response.Total)
	repo.AssertExpectations(t)
}

func TestDiscoverMatches_DefaultBrowseSendsLast(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	repo.On("DiscoverMatches", mock.Anything, matchRepo.DiscoverParams{
		SessionID:    testSession,
		Page:         intPtr(2),
		SearchAction: entity.SearchActionLast,
	}).Return(json.RawMessage(`{"result": [`+memberJSON(1)+`, {"id": "bad"}, `+memberJSON(2)+`]}`), nil)

	response, err := uc.DiscoverMatches(context.Background(), testSession, url.Values{"page": {"2"}})

	require.NoError(t, err)
	assert.Len(t, response.Items, 2)
	assert.Equal(t, intPtr(2), response.Page)
	assert.Nil(t, response.TotalPages)
	assert.Equal(t, 2, response.Total)
	repo.AssertExpectations(t)
}

func TestDiscoverMatches_ValidationNeverCallsUpstream(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	_, err := uc.DiscoverMatches(context.Background(), testSession, url.Values{"ageFrom": {"50"}, "ageTo": {"20"}})

	assert.True(t, errors.Is(err, apperror.ErrValidation))
	repo.AssertNotCalled(t, "DiscoverMatches", mock.Anything, mock.Anything)
}

func TestDiscoverMatches_NonArrayResultIsEmpty(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	repo.On("DiscoverMatches", mock.Anything, mock.Anything).
		Return(json.RawMessage(`{"connected": 1, "result": "none"}`), nil)

	response, err := uc.DiscoverMatches(context.Background(), testSession, url.Values{})

	require.NoError(t, err)
	assert.NotNil(t, response.Items)
	assert.Empty(t, response.Items)
	assert.Equal(t, 0, response.Total)
}

func TestExpiredSession_FailsAndIsRemembered(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(repo *mockMatchRepo)
		operate func(uc IMatchUseCase) error
	}{
		{
			name: "discover",
			setup: func(repo *mockMatchRepo) {
				repo.On("DiscoverMatches", mock.Anything, mock.Anything).
					Return(json.RawMessage(`{"connected": 0, "result": [`+memberJSON(1)+`]}`), nil)
			},
			operate: func(uc IMatchUseCase) error {
				_, err := uc.DiscoverMatches(context.Background(), testSession, url.Values{})
				return err
			},
		},
		{
			name: "list nested",
			setup: func(repo *mockMatchRepo) {
				repo.On("ListMatches", mock.Anything, testSession).
					Return(json.RawMessage(`{"result": {"connected": "0", "tab_profils": [`+memberJSON(1)+`]}}`), nil)
			},
			operate: func(uc IMatchUseCase) error {
				_, err := uc.ListMatches(context.Background(), testSession)
				return err
			},
		},
		{
			name: "action",
			setup: func(repo *mockMatchRepo) {
				repo.On("SetLike", mock.Anything, testSession, int64(7)).
					Return(json.RawMessage(`{"connected": 0, "result": "match"}`), nil)
			},
			operate: func(uc IMatchUseCase) error {
				_, err := uc.SubmitAction(context.Background(), testSession, 7, entity.MatchActionLike)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMatchRepo)
			sessions := new(mockSessionRegistry)
			actions := new(mockActionRecorder)
			uc := NewMatchUseCase(repo, sessions, actions, nil)

			tt.setup(repo)
			sessions.On("MarkExpired", mock.Anything, testSession).Return(nil)

			err := tt.operate(uc)

			assert.True(t, errors.Is(err, apperror.ErrAuthenticationExpired))
			assert.Equal(t, 401, apperror.StatusOf(err))
			sessions.AssertExpectations(t)
			actions.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
		})
	}
}

func TestExpiredSession_RegistryFailureStillReturnsExpired(t *testing.T) {
	repo := new(mockMatchRepo)
	sessions := new(mockSessionRegistry)
	uc := NewMatchUseCase(repo, sessions, nil, nil)

	repo.On("ListMatches", mock.Anything, testSession).Return(json.RawMessage(`{"connected": 0}`), nil)
	sessions.On("MarkExpired", mock.Anything, testSession).Return(errors.New("redis down"))

	_, err := uc.ListMatches(context.Background(), testSession)

	assert.True(t, errors.Is(err, apperror.ErrAuthenticationExpired))
}

func TestListMatches_TotalFallbacks(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	repo.On("ListMatches", mock.Anything, testSession).
		Return(json.RawMessage(`{"connected": 1, "result": {"nb_total": "15", "tab_profils": [`+memberJSON(5)+`, `+memberJSON(6)+`]}}`), nil).
		Once()

	response, err := uc.ListMatches(context.Background(), testSession)

	require.NoError(t, err)
	assert.Len(t, response.Items, 2)
	assert.Equal(t, 15, response.Total)

	repo.On("ListMatches", mock.Anything, testSession).
		Return(json.RawMessage(`[`+memberJSON(5)+`]`), nil).
		Once()

	response, err = uc.ListMatches(context.Background(), testSession)

	require.NoError(t, err)
	assert.Equal(t, 1, response.Total)
}

func TestListMatches_UpstreamErrorPropagates(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	upstreamErr := apperror.NewUpstreamRequestFailed("", 503)
	repo.On("ListMatches", mock.Anything, testSession).Return(nil, upstreamErr)

	_, err := uc.ListMatches(context.Background(), testSession)

	assert.Same(t, upstreamErr, err)
}

func TestSubmitAction_Results(t *testing.T) {
	tests := []struct {
		name    string
		action  entity.MatchAction
		method  string
		payload string
		want    entity.MatchActionResult
	}{
		{"like match", entity.MatchActionLike, "SetLike", `{"result": "match"}`, entity.MatchActionResult{Result: "match", IsMatch: true}},
		{"like ok", entity.MatchActionLike, "SetLike", `{"result": "ok"}`, entity.MatchActionResult{Result: "ok"}},
		{"dislike", entity.MatchActionDislike, "SetDislike", `{"result": "ok"}`, entity.MatchActionResult{Result: "ok"}},
		{"case matters", entity.MatchActionLike, "SetLike", `{"result": "Match"}`, entity.MatchActionResult{Result: "Match"}},
		{"no result", entity.MatchActionLike, "SetLike", `{}`, entity.MatchActionResult{}},
		{"non-string result", entity.MatchActionLike, "SetLike", `{"result": 1}`, entity.MatchActionResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMatchRepo)
			actions := new(mockActionRecorder)
			uc := NewMatchUseCase(repo, nil, actions, nil)

			repo.On(tt.method, mock.Anything, testSession, int64(42)).Return(json.RawMessage(tt.payload), nil)
			actions.On("Record", mock.Anything, mock.MatchedBy(func(l *entity.MatchActionLog) bool {
				return l.SessionFingerprint == redact.Fingerprint(testSession) &&
					l.TargetUserID == 42 &&
					l.Action == tt.action &&
					l.Result == tt.want.Result &&
					l.IsMatch == tt.want.IsMatch
			})).Return(nil)

			result, err := uc.SubmitAction(context.Background(), testSession, 42, tt.action)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
			repo.AssertExpectations(t)
			actions.AssertExpectations(t)
		})
	}
}

func TestSubmitAction_AuditFailureDoesNotFail(t *testing.T) {
	repo := new(mockMatchRepo)
	actions := new(mockActionRecorder)
	uc := NewMatchUseCase(repo, nil, actions, nil)

	repo.On("SetDislike", mock.Anything, testSession, int64(3)).Return(json.RawMessage(`{"result": "ok"}`), nil)
	actions.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down"))

	result, err := uc.SubmitAction(context.Background(), testSession, 3, entity.MatchActionDislike)

	require.NoError(t, err)
	assert.Equal(t, "ok", result.Result)
}

func TestSubmitAction_RejectsBadInput(t *testing.T) {
	repo := new(mockMatchRepo)
	uc := NewMatchUseCase(repo, nil, nil, nil)

	_, err := uc.SubmitAction(context.Background(), testSession, 1, entity.MatchAction("superlike"))
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = uc.SubmitAction(context.Background(), testSession, 0, entity.MatchActionLike)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	repo.AssertNotCalled(t, "SetLike", mock.Anything, mock.Anything, mock.Anything)
}
