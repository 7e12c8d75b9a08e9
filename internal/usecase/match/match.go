package match

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/logger"
	matchRepo "github.com/ghaniswara/algolove/internal/repository/match"
	"github.com/ghaniswara/algolove/pkg/redact"
)

type IMatchUseCase interface {
	DiscoverMatches(ctx context.Context, sessionID string, query url.Values) (entity.DiscoverMatchesResponse, error)
	ListMatches(ctx context.Context, sessionID string) (entity.MatchListResponse, error)
	SubmitAction(ctx context.Context, sessionID string, userID int64, action entity.MatchAction) (entity.MatchActionResult, error)
}

// SessionRegistry remembers sessions the upstream reported as expired.
type SessionRegistry interface {
	MarkExpired(ctx context.Context, sessionID string) error
}

// ActionRecorder stores an audit row for an accepted action.
type ActionRecorder interface {
	Record(ctx context.Context, log *entity.MatchActionLog) error
}

type matchUseCase struct {
	matchRepo matchRepo.IMatchRepo
	sessions  SessionRegistry
	actions   ActionRecorder
	log       logger.Logger
}

// NewMatchUseCase wires the service. sessions and actions may be nil.
func NewMatchUseCase(matchRepo matchRepo.IMatchRepo, sessions SessionRegistry, actions ActionRecorder, log logger.Logger) IMatchUseCase {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &matchUseCase{
		matchRepo: matchRepo,
		sessions:  sessions,
		actions:   actions,
		log:       log,
	}
}

func (m *matchUseCase) DiscoverMatches(ctx context.Context, sessionID string, query url.Values) (entity.DiscoverMatchesResponse, error) {
	filters, err := ParseDiscoverFilters(query)
	if err != nil {
		return entity.DiscoverMatchesResponse{}, err
	}

	payload, err := m.matchRepo.DiscoverMatches(ctx, matchRepo.DiscoverParams{
		SessionID:    sessionID,
		Page:         filters.Page,
		PerPage:      filters.PerPage,
		AgeFrom:      filters.AgeFrom,
		AgeTo:        filters.AgeTo,
		Sex:          filters.Sex,
		SearchAction: filters.SearchAction,
	})
	if err != nil {
		return entity.DiscoverMatchesResponse{}, err
	}

	if err := m.ensureConnected(ctx, sessionID, payload); err != nil {
		return entity.DiscoverMatchesResponse{}, err
	}

	// A search payload that is not an object has no results.
	var search entity.SearchResponse
	_ = json.Unmarshal(payload, &search)

	rawItems, ok := asArray(search.Result)
	if !ok {
		rawItems = nil
	}
	items := NormalizeMembers(rawItems, m.log)

	response := entity.DiscoverMatchesResponse{
		Items: items,
		Page:  filters.Page,
		Total: len(items),
	}

	if totalPages, ok := search.NbPages.PositiveInt(); ok {
		v := int(totalPages)
		response.TotalPages = &v
	}

	if total, ok := search.Total.NonNegativeInt(); ok {
		response.Total = int(total)
	}

	return response, nil
}

func (m *matchUseCase) ListMatches(ctx context.Context, sessionID string) (entity.MatchListResponse, error) {
	payload, err := m.matchRepo.ListMatches(ctx, sessionID)
	if err != nil {
		return entity.MatchListResponse{}, err
	}

	if err := m.ensureConnected(ctx, sessionID, payload); err != nil {
		return entity.MatchListResponse{}, err
	}

	items := NormalizeMembers(ExtractItems(payload), m.log)

	return entity.MatchListResponse{
		Items: items,
		Total: ExtractTotal(payload, len(items)),
	}, nil
}

func (m *matchUseCase) SubmitAction(
	ctx context.Context,
	sessionID string,
	userID int64,
	action entity.MatchAction,
) (entity.MatchActionResult, error) {
	if userID < 1 {
		return entity.MatchActionResult{}, apperror.NewValidationError("Invalid match action payload", apperror.FieldIssue{
			Field:   "userId",
			Message: "userId must be a positive integer",
		})
	}

	var (
		payload json.RawMessage
		err     error
	)

	switch action {
	case entity.MatchActionLike:
		payload, err = m.matchRepo.SetLike(ctx, sessionID, userID)
	case entity.MatchActionDislike:
		payload, err = m.matchRepo.SetDislike(ctx, sessionID, userID)
	default:
		return entity.MatchActionResult{}, apperror.NewValidationError("Invalid match action payload", apperror.FieldIssue{
			Field:   "action",
			Message: "action must be one of: like, dislike",
		})
	}

	if err != nil {
		return entity.MatchActionResult{}, err
	}

	if err := m.ensureConnected(ctx, sessionID, payload); err != nil {
		return entity.MatchActionResult{}, err
	}

	var response entity.MatchActionPayload
	_ = json.Unmarshal(payload, &response)

	token, _ := response.Result.Raw()
	result := entity.MatchActionResult{
		Result:  token,
		IsMatch: token == "match",
	}

	m.audit(ctx, sessionID, userID, action, result)

	return result, nil
}

func (m *matchUseCase) ensureConnected(ctx context.Context, sessionID string, payload json.RawMessage) error {
	err := EnsureConnected(payload)
	if err == nil {
		return nil
	}

	if m.sessions != nil {
		if markErr := m.sessions.MarkExpired(ctx, sessionID); markErr != nil {
			m.log.WithError(markErr).Warn("failed to mark session expired", map[string]interface{}{
				"session_id": redact.Mask(sessionID),
			})
		}
	}

	return err
}

// audit never fails the action it records.
func (m *matchUseCase) audit(ctx context.Context, sessionID string, userID int64, action entity.MatchAction, result entity.MatchActionResult) {
	if m.actions == nil {
		return
	}

	err := m.actions.Record(ctx, &entity.MatchActionLog{
		SessionFingerprint: redact.Fingerprint(sessionID),
		TargetUserID:       userID,
		Action:             action,
		Result:             result.Result,
		IsMatch:            result.IsMatch,
	})
	if err != nil {
		m.log.WithError(err).Warn("failed to record match action", map[string]interface{}{
			"user_id": userID,
			"action":  action.String(),
		})
	}
}
