package routesV1Match

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
	"github.com/ghaniswara/algolove/internal/middleware"
	"github.com/ghaniswara/algolove/internal/usecase/match"
	"github.com/ghaniswara/algolove/pkg/http_util"
	"github.com/ghaniswara/algolove/pkg/validator"
	"github.com/labstack/echo"
)

var actionSchema = validator.MustSchema(`{
	"type": "object",
	"properties": {
		"userId": {"type": "integer", "minimum": 1},
		"action": {"type": "string", "enum": ["like", "dislike"]}
	},
	"required": ["userId", "action"]
}`, map[string]string{
	"userId": "userId must be a positive integer",
	"action": "action must be one of: like, dislike",
})

func DiscoverHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	response, err := matchCase.DiscoverMatches(c.Request().Context(), middleware.SessionID(c), c.QueryParams())
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, response)
}

func ListHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	response, err := matchCase.ListMatches(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, response)
}

func ActionHandler(c echo.Context, matchCase match.IMatchUseCase) error {
	request, err := decodeActionRequest(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	response, err := matchCase.SubmitAction(c.Request().Context(), middleware.SessionID(c), request.UserID, request.Action)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, response)
}

func decodeActionRequest(c echo.Context) (entity.MatchActionRequest, error) {
	var request entity.MatchActionRequest

	body, err := http_util.ReadBody(c)
	if err != nil || !json.Valid(body) {
		return request, apperror.NewValidationError("Invalid JSON payload")
	}

	problems, err := actionSchema.Validate(body)
	if err != nil {
		return request, apperror.NewInternal("validate match action", err)
	}

	if len(problems) > 0 {
		fields := make([]apperror.FieldIssue, 0, len(problems))
		for _, p := range problems {
			fields = append(fields, apperror.FieldIssue{Field: p.Field, Message: p.Message})
		}
		return request, apperror.NewValidationError("Invalid match action payload", fields...)
	}

	decoded, err := http_util.DecodeBody[actionBody](body)
	if err != nil {
		return request, apperror.NewValidationError("Invalid match action payload")
	}

	// The schema accepts integral floats such as 5.0.
	userID, err := decoded.UserID.Float64()
	if err != nil || userID != math.Trunc(userID) || userID < 1 || userID >= math.MaxInt64 {
		return request, apperror.NewValidationError("Invalid match action payload", apperror.FieldIssue{
			Field:   "userId",
			Message: "userId must be a positive integer",
		})
	}

	return entity.MatchActionRequest{UserID: int64(userID), Action: decoded.Action}, nil
}

type actionBody struct {
	UserID json.Number        `json:"userId"`
	Action entity.MatchAction `json:"action"`
}
