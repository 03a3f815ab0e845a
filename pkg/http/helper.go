package http

import (
	"net/http"
	"strconv"
	"time"

	"procal/pkg/config"
	apperrors "procal/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDate parses a required YYYY-MM-DD query parameter.
func ExtractDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput("missing required parameter: " + name)
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + " parameter, want YYYY-MM-DD: " + raw)
	}
	return d, nil
}

// ExtractRFC3339 parses a required RFC3339 datetime field value.
func ExtractRFC3339(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput("missing required field: " + name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid " + name + ", want RFC3339 datetime: " + raw)
	}
	return t, nil
}
