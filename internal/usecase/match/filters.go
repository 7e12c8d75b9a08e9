package match

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ghaniswara/algolove/internal/apperror"
	"github.com/ghaniswara/algolove/internal/entity"
)

var genderToSex = map[string]entity.SexCode{
	"men":    entity.SexMan,
	"women":  entity.SexWoman,
	"couple": entity.SexCouple,
}

// ParseDiscoverFilters validates the discover query. The first invalid field
// is reported. Empty numeric params are treated as absent.
func ParseDiscoverFilters(query url.Values) (entity.DiscoverFilters, error) {
	var filters entity.DiscoverFilters

	page, err := parseQueryInt(query.Get("page"), "page", 0, "page must be a non-negative integer")
	if err != nil {
		return filters, err
	}

	perPage, err := parsePositiveQueryInt(query.Get("perPage"), "perPage")
	if err != nil {
		return filters, err
	}

	ageFrom, err := parsePositiveQueryInt(query.Get("ageFrom"), "ageFrom")
	if err != nil {
		return filters, err
	}

	ageTo, err := parsePositiveQueryInt(query.Get("ageTo"), "ageTo")
	if err != nil {
		return filters, err
	}

	if ageFrom != nil && ageTo != nil && *ageFrom > *ageTo {
		return filters, apperror.NewValidationError("Invalid age range", apperror.FieldIssue{
			Field:   "ageFrom",
			Message: "ageFrom must be less than or equal to ageTo",
		})
	}

	var sex entity.SexCode
	if query.Has("gender") {
		code, ok := genderToSex[query.Get("gender")]
		if !ok {
			return filters, apperror.NewValidationError("Invalid gender query parameter", apperror.FieldIssue{
				Field:   "gender",
				Message: "gender must be one of: men, women, couple",
			})
		}
		sex = code
	}

	filters = entity.DiscoverFilters{
		Page:    page,
		PerPage: perPage,
		AgeFrom: ageFrom,
		AgeTo:   ageTo,
		Sex:     sex,
	}

	if sex == "" && ageFrom == nil && ageTo == nil {
		filters.SearchAction = entity.SearchActionLast
	}

	return filters, nil
}

func parsePositiveQueryInt(value, field string) (*int, error) {
	return parseQueryInt(value, field, 1, field+" must be a positive integer")
}

func parseQueryInt(value, field string, lowest int, message string) (*int, error) {
	if value == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < lowest {
		return nil, apperror.NewValidationError(fmt.Sprintf("Invalid %s query parameter", field), apperror.FieldIssue{
			Field:   field,
			Message: message,
		})
	}

	return &n, nil
}
