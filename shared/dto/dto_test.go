package dto_test

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"hostel/shared/constant"
	"hostel/shared/dto"
	"hostel/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.NotEmpty(t, metadata.CreatedAt)
	assert.NotEmpty(t, metadata.UpdatedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.UpdatedBy)

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedCreated.Equal(createdAt))

	parsedUpdated, err := time.Parse(constant.DateFormat, metadata.UpdatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedUpdated.Equal(modifiedAt))
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:        "with all valid parameters",
			queryParams: map[string]string{"page": "2", "limit": "20", "sort_by": "roomNumber", "sort_dir": "asc"},
			expected:    dto.QueryParams{Page: 2, Limit: 20, SortBy: "roomNumber", SortDir: "ASC"},
		},
		{
			name:           "with default request enabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "with default request disabled and no parameters",
			queryParams: map[string]string{},
			expected:    dto.QueryParams{},
		},
		{
			name:           "with invalid page parameter",
			queryParams:    map[string]string{"page": "invalid"},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "with negative limit parameter",
			queryParams:    map[string]string{"limit": "-10"},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "with limit above the cap",
			queryParams: map[string]string{"limit": "5000"},
			expected:    dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:        "with unknown sort direction",
			queryParams: map[string]string{"sort_dir": "sideways"},
			expected:    dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{}
			for key, value := range tt.queryParams {
				query.Set(key, value)
			}

			req := httptest.NewRequest("GET", "/roomdetails?"+query.Encode(), nil)

			queryParams := dto.QueryParams{}
			queryParams.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, queryParams)
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	allowed := map[string]string{"roomNumber": "room_number", "monthlyPrice": "monthly_price"}

	tests := []struct {
		name     string
		params   dto.QueryParams
		expected dto.QueryParams
	}{
		{
			name:     "known key is mapped to its column",
			params:   dto.QueryParams{SortBy: "roomNumber", SortDir: "DESC"},
			expected: dto.QueryParams{SortBy: "room_number", SortDir: "DESC"},
		},
		{
			name:     "missing direction defaults to ascending",
			params:   dto.QueryParams{SortBy: "monthlyPrice"},
			expected: dto.QueryParams{SortBy: "monthly_price", SortDir: "ASC"},
		},
		{
			name:     "unknown key falls back to newest first",
			params:   dto.QueryParams{SortBy: "1; DROP TABLE room_details", SortDir: "ASC"},
			expected: dto.QueryParams{SortBy: constant.DefaultValueSortBy, SortDir: constant.DefaultValueSortDir},
		},
		{
			name:     "empty key falls back to newest first",
			params:   dto.QueryParams{},
			expected: dto.QueryParams{SortBy: constant.DefaultValueSortBy, SortDir: constant.DefaultValueSortDir},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			params.RestrictSort(allowed)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name          string
		group         dto.FilterGroup
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name:          "empty group",
			group:         dto.FilterGroup{},
			expectedWhere: "",
			expectedArgs:  map[string]any{},
		},
		{
			name: "equality and like joined with AND",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Value: "available", Operator: dto.FilterOperatorEq, Table: "room_details"},
					dto.Filter{Field: "room_number", Value: "A1", Operator: dto.FilterOperatorLike, Table: "room_details"},
				},
			},
			expectedWhere: "(room_details.status = :status AND LOWER(room_details.room_number) LIKE LOWER(:room_number))",
			expectedArgs:  map[string]any{"status": "available", "room_number": "%A1%"},
		},
		{
			name: "in operator expands named arguments",
			group: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "priority", Value: []string{"normal", "urgent"}, Operator: dto.FilterOperatorIn},
				},
			},
			expectedWhere: "(priority IN (:priority_0, :priority_1))",
			expectedArgs:  map[string]any{"priority_0": "normal", "priority_1": "urgent"},
		},
		{
			name: "empty in list matches nothing",
			group: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "priority", Value: []string{}, Operator: dto.FilterOperatorIn},
				},
			},
			expectedWhere: "(FALSE)",
			expectedArgs:  map[string]any{},
		},
		{
			name: "unknown operator is dropped",
			group: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "status", Value: "available", Operator: "between"},
					dto.Filter{Field: "floor_number", Value: 1, Operator: dto.FilterOperatorNotEq},
				},
			},
			expectedWhere: "(floor_number != :floor_number)",
			expectedArgs:  map[string]any{"floor_number": 1},
		},
		{
			name: "nested group",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "floor_number", Value: 2, Operator: dto.FilterOperatorEq},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "status", ArgName: "status_a", Value: "available", Operator: dto.FilterOperatorEq},
							dto.Filter{Field: "status", ArgName: "status_b", Value: "maintenance", Operator: dto.FilterOperatorEq},
						},
					},
				},
			},
			expectedWhere: "(floor_number = :floor_number AND (status = :status_a OR status = :status_b))",
			expectedArgs:  map[string]any{"floor_number": 2, "status_a": "available", "status_b": "maintenance"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.expectedWhere, where)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
