package handlers

import (
	"errors"
	"strconv"
)

var errInvalidPagination = errors.New("invalid pagination params")

// parsePaginationParams reads page and limit. Pagination applies only when
// both are given; otherwise it returns zeros and the full list is served.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	if pageStr == "" || limitStr == "" {
		return 0, 0, nil
	}

	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		return 0, 0, errInvalidPagination
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 {
		return 0, 0, errInvalidPagination
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit, nil
}
