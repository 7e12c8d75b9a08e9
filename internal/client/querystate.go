package client

import (
	"errors"
	"strings"
)

type QueryState int

const (
	StateLoading QueryState = iota
	StateError
	StateEmpty
	StateReady
)

func (s QueryState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	default:
		return "ready"
	}
}

// StateOf picks what a view renders. A failed request is never shown as an
// empty list.
func StateOf(loading bool, err error, count int) QueryState {
	switch {
	case loading:
		return StateLoading
	case err != nil:
		return StateError
	case count == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// ErrorMessage prefers the server's message, then the error text, then
// fallback.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if strings.TrimSpace(apiErr.Message) != "" {
			return apiErr.Message
		}
		return fallback
	}

	if msg := err.Error(); strings.TrimSpace(msg) != "" {
		return msg
	}
	return fallback
}
