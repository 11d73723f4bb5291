package repository_test

import (
	"context"
	"testing"
	"time"

	otelMocks "campusbook/infras/otel/mocks"
	"campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/repository"
	gRepo "campusbook/shared/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2025, time.March, 10, hour, 0, 0, 0, time.UTC)
}

func TestOverlapFilter(t *testing.T) {
	tests := []struct {
		name       string
		query      model.ConflictQuery
		wantClause []string
		notClause  []string
		wantArgs   map[string]any
	}{
		{
			name: "half-open window with standard blocking",
			query: model.ConflictQuery{
				ResourceID: 4,
				Window:     model.Interval{Start: at(10), End: at(11)},
				Blocking:   model.StandardBlocking,
			},
			wantClause: []string{
				"bookings.resource_id = :resource_id",
				"bookings.status IN (:blocking_0)",
				"bookings.start_date_time < :window_end",
				"bookings.end_date_time > :window_start",
			},
			notClause: []string{"<=", ">=", "bookings.id !="},
			wantArgs: map[string]any{
				"resource_id":  int64(4),
				"blocking_0":   "Confirmed",
				"window_start": at(10),
				"window_end":   at(11),
			},
		},
		{
			name: "override blocking excludes the booking itself",
			query: model.ConflictQuery{
				ResourceID: 4,
				Window:     model.Interval{Start: at(9), End: at(13)},
				ExcludeID:  7,
				Blocking:   model.OverrideBlocking,
			},
			wantClause: []string{
				"bookings.status IN (:blocking_0, :blocking_1)",
				"bookings.id != :exclude_id",
			},
			wantArgs: map[string]any{
				"resource_id":  int64(4),
				"blocking_0":   "Confirmed",
				"blocking_1":   "Pending Approval",
				"window_start": at(9),
				"window_end":   at(13),
				"exclude_id":   int64(7),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := repository.OverlapFilter(tt.query)
			where, args := filter.GetWhereClause()

			for _, clause := range tt.wantClause {
				assert.Contains(t, where, clause)
			}

			for _, clause := range tt.notClause {
				assert.NotContains(t, where, clause)
			}

			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

// A booking ending exactly when the window starts binds window_start against a strict end_date_time >.
func TestOverlapFilter_TouchingWindowsAreStrict(t *testing.T) {
	filter := repository.OverlapFilter(model.ConflictQuery{
		ResourceID: 1,
		Window:     model.Interval{Start: at(11), End: at(12)},
		Blocking:   model.StandardBlocking,
	})
	where, args := filter.GetWhereClause()

	assert.Contains(t, where, "bookings.end_date_time > :window_start")
	assert.Contains(t, where, "bookings.start_date_time < :window_end")
	assert.Equal(t, at(11), args["window_start"])
	assert.Equal(t, at(12), args["window_end"])
}

func TestFindOverlapping_EmptyBlockingSetSkipsQuery(t *testing.T) {
	repo := repository.New(nil, otelMocks.NewOtel())

	conflicts, err := repo.FindOverlapping(context.Background(), nil, model.ConflictQuery{
		ResourceID: 1,
		Window:     model.Interval{Start: at(10), End: at(11)},
	})

	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestOverrideUpdate(t *testing.T) {
	changes, filter := repository.OverrideUpdate([]int64{4, 9}, "pe-2", at(8))

	repo := gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, nil, otelMocks.NewOtel())

	query, args, err := repo.UpdateQuery(context.Background(), changes, filter)
	require.NoError(t, err)

	assert.Contains(t, query, "UPDATE bookings SET")
	assert.Contains(t, query, "status = :set_status")
	assert.Contains(t, query, "WHERE (bookings.id IN (:id_0, :id_1)")
	assert.Equal(t, "Cancelled - Overridden", args["set_status"])
	assert.Equal(t, "pe-2", args["set_admin_id"])
	assert.Equal(t, at(8), args["set_modified_at"])
	assert.Equal(t, int64(4), args["id_0"])
	assert.Equal(t, int64(9), args["id_1"])
}

func TestCompleteElapsedQuery(t *testing.T) {
	assert.Equal(t,
		"UPDATE bookings SET status = $1, modified_at = $2, modified_by = $3 WHERE status = $4 AND end_date_time <= $5 RETURNING id",
		repository.CompleteElapsedQuery(),
	)
}
