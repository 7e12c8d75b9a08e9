package http_util

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/labstack/echo"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Property string `json:"property"`
	Detail   string `json:"detail"`
}

type HTTPErrorResponse struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Errors  []ErrorResponse `json:"errors,omitempty"`
}

func Encode[T any](c echo.Context, status int, v T) error {
	return c.JSON(status, v)
}

// EncodeError renders err with the status of its error class. Errors outside
// the taxonomy are reported as a generic 500.
func EncodeError(c echo.Context, err error) error {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.NewInternal("Internal server error", err)
	}

	response := HTTPErrorResponse{
		Message: appErr.Message,
		Code:    string(appErr.Code),
	}
	for _, field := range appErr.Fields {
		response.Errors = append(response.Errors, ErrorResponse{
			Property: field.Field,
			Detail:   field.Message,
		})
	}

	return c.JSON(apperror.StatusOf(appErr), response)
}

// ReadBody returns the request body, capped at 1 MiB.
func ReadBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func DecodeBody[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}
