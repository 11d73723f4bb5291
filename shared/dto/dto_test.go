package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"campusbook/shared/constant"
	"campusbook/shared/dto"
	"campusbook/shared/model"
	"campusbook/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	modifiedAt := createdAt.Add(90 * time.Minute)

	var metadata dto.Metadata
	metadata.FromModel(model.Metadata{CreatedAt: createdAt, ModifiedAt: modifiedAt, CreatedBy: "u-1", ModifiedBy: "scheduler"})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  timezone.Format(createdAt, constant.DateFormat),
		ModifiedAt: timezone.Format(modifiedAt, constant.DateFormat),
		CreatedBy:  "u-1",
		ModifiedBy: "scheduler",
	}, metadata)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "?page=2&limit=20&sort_by=start_date_time&sort_dir=desc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_date_time", SortDir: dto.SortDirDesc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{name: "no defaults", want: dto.QueryParams{}},
		{
			name:         "invalid numbers fall back",
			query:        "?page=-1&limit=abc&sort_dir=sideways",
			withDefaults: true,
			want:         dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{name: "zero page ignored", query: "?page=0&limit=5", want: dto.QueryParams{Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params dto.QueryParams
			params.FromRequest(httptest.NewRequest("GET", "/v1/bookings"+tt.query, nil), tt.withDefaults)

			assert.Equal(t, tt.want, params)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "empty group",
			group:     dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name: "empty nested group is skipped",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.FilterGroup{Operator: dto.FilterGroupOperatorOr},
					dto.Filter{Field: "status", Value: "Confirmed", Operator: dto.FilterOperatorNotEq},
				},
			},
			wantWhere: "(status != :status)",
			wantArgs:  map[string]any{"status": "Confirmed"},
		},
		{
			name: "overlap window",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "resource_id", Value: int64(1), Operator: dto.FilterOperatorEq, Table: "bookings"},
					dto.Filter{ArgName: "window_end", Field: "start_date_time", Value: "e", Operator: dto.FilterOperatorLess, Table: "bookings"},
					dto.Filter{ArgName: "window_start", Field: "end_date_time", Value: "s", Operator: dto.FilterOperatorGreater, Table: "bookings"},
				},
			},
			wantWhere: "(bookings.resource_id = :resource_id AND bookings.start_date_time < :window_end AND bookings.end_date_time > :window_start)",
			wantArgs: map[string]any{
				"resource_id":  int64(1),
				"window_end":   "e",
				"window_start": "s",
			},
		},
		{
			name: "case-insensitive equality",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "incharge_email", Value: "Ravi@Campus.edu", Operator: dto.FilterOperatorEqFold, Table: "bookings"},
				},
			},
			wantWhere: "(LOWER(bookings.incharge_email) = LOWER(:incharge_email))",
			wantArgs:  map[string]any{"incharge_email": "Ravi@Campus.edu"},
		},
		{
			name: "in operator with slice",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Value: []string{"Confirmed", "Pending Approval"}, Operator: dto.FilterOperatorIn},
				},
			},
			wantWhere: "(status IN (:status_0, :status_1) )",
			wantArgs: map[string]any{
				"status_0": "Confirmed",
				"status_1": "Pending Approval",
			},
		},
		{
			name: "nested or group",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "active", Value: true, Operator: dto.FilterOperatorEq},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{ArgName: "q_name", Field: "name", Value: "lab", Operator: dto.FilterOperatorLike},
							dto.Filter{ArgName: "q_location", Field: "location", Value: "lab", Operator: dto.FilterOperatorLike},
						},
					},
				},
			},
			wantWhere: "(active = :active AND (LOWER(name) LIKE LOWER(:q_name)  OR LOWER(location) LIKE LOWER(:q_location) ))",
			wantArgs: map[string]any{
				"active":     true,
				"q_name":     "%lab%",
				"q_location": "%lab%",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	allowed := []string{"name", "capacity"}

	tests := []struct {
		name    string
		params  dto.QueryParams
		wantBy  string
		wantDir string
	}{
		{name: "allowed column kept", params: dto.QueryParams{SortBy: "capacity", SortDir: dto.SortDirDesc}, wantBy: "capacity", wantDir: dto.SortDirDesc},
		{name: "unknown column replaced", params: dto.QueryParams{SortBy: "name; DROP TABLE bookings"}, wantBy: "name", wantDir: dto.SortDirAsc},
		{name: "empty uses fallback", params: dto.QueryParams{}, wantBy: "name", wantDir: dto.SortDirAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.RestrictSort(allowed, "name", dto.SortDirAsc)

			assert.Equal(t, tt.wantBy, tt.params.SortBy)
			assert.Equal(t, tt.wantDir, tt.params.SortDir)
		})
	}
}
