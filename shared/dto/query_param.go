package dto

import (
	"net/http"
	"strconv"
	"strings"

	"hostel/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and sort from the query string. Malformed or
// non-positive numbers are ignored, and limit is capped at MaxValueLimit. With
// withDefaults, missing paging falls back to the first page of DefaultValueLimit rows.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	q.Page = positive(query.Get(constant.RequestParamPage), q.Page)
	q.Limit = min(positive(query.Get(constant.RequestParamLimit), q.Limit), constant.MaxValueLimit)

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

func positive(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}

	return fallback
}

// RestrictSort maps the requested sort key onto a column through allowed, which is keyed
// by the public field name. Unknown keys fall back to the newest-first default so
// SortBy never reaches the query unchecked.
func (q *QueryParams) RestrictSort(allowed map[string]string) {
	column, ok := allowed[q.SortBy]
	if !ok {
		q.SortBy = constant.DefaultValueSortBy
		q.SortDir = constant.DefaultValueSortDir

		return
	}

	q.SortBy = column
	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}
}
