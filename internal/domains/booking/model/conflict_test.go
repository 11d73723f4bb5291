package model_test

import (
	"testing"

	"campusbook/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func TestConflictQuery_Blocks(t *testing.T) {
	query := model.ConflictQuery{
		ResourceID: 1,
		Window:     model.Interval{Start: at(10, 0), End: at(12, 0)},
		ExcludeID:  9,
		Blocking:   model.StandardBlocking,
	}

	booking := func(id, resource int64, status model.Status, start, end int) model.Booking {
		return model.Booking{ID: id, ResourceID: resource, Status: status, StartDateTime: at(start, 0), EndDateTime: at(end, 0)}
	}

	tests := []struct {
		name     string
		existing model.Booking
		want     bool
	}{
		{name: "confirmed overlap", existing: booking(1, 1, model.StatusConfirmed, 11, 13), want: true},
		{name: "pending overlap is not blocking", existing: booking(2, 1, model.StatusPendingApproval, 11, 13)},
		{name: "other resource", existing: booking(3, 2, model.StatusConfirmed, 11, 13)},
		{name: "excluded self", existing: booking(9, 1, model.StatusConfirmed, 11, 13)},
		{name: "adjacent", existing: booking(4, 1, model.StatusConfirmed, 12, 13)},
		{name: "cancelled", existing: booking(5, 1, model.StatusCancelled, 10, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.Blocks(tt.existing))
		})
	}

	query.Blocking = model.OverrideBlocking
	assert.True(t, query.Blocks(booking(2, 1, model.StatusPendingApproval, 11, 13)))
}

func TestSortByStart(t *testing.T) {
	bookings := []model.Booking{
		{ID: 3, StartDateTime: at(11, 0)},
		{ID: 2, StartDateTime: at(10, 0)},
		{ID: 1, StartDateTime: at(11, 0)},
	}

	model.SortByStart(bookings)

	assert.Equal(t, []int64{2, 1, 3}, []int64{bookings[0].ID, bookings[1].ID, bookings[2].ID})
}

func TestConflictMessage(t *testing.T) {
	window := model.Interval{Start: at(10, 0), End: at(12, 0)}

	assert.Equal(t,
		"Seminar Hall A is already booked between 2025-03-10T10:00:00 and 2025-03-10T12:00:00",
		model.ConflictMessage("Seminar Hall A", window, nil),
	)

	conflicts := []model.Booking{{ID: 7, StartDateTime: at(11, 0), EndDateTime: at(13, 0)}}
	assert.Equal(t,
		"Seminar Hall A is already booked between 2025-03-10T10:00:00 and 2025-03-10T12:00:00 (conflicts with booking #7, 2025-03-10 11:00:00 to 2025-03-10 13:00:00)",
		model.ConflictMessage("Seminar Hall A", window, conflicts),
	)
}
