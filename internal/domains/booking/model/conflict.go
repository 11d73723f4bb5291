package model

import (
	"fmt"
	"sort"
	"time"

	"campusbook/shared/constant"
)

// ConflictQuery describes a candidate window on a resource.
type ConflictQuery struct {
	ResourceID int64
	Window     Interval
	ExcludeID  int64
	Blocking   StatusSet
}

// Blocks reports whether existing conflicts with the query.
func (q ConflictQuery) Blocks(existing Booking) bool {
	if existing.ResourceID != q.ResourceID {
		return false
	}

	if q.ExcludeID != 0 && existing.ID == q.ExcludeID {
		return false
	}

	return q.Blocking.Contains(existing.Status) && q.Window.Overlaps(existing.Interval())
}

// SortByStart orders bookings by start, then id.
func SortByStart(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].StartDateTime.Equal(bookings[j].StartDateTime) {
			return bookings[i].StartDateTime.Before(bookings[j].StartDateTime)
		}

		return bookings[i].ID < bookings[j].ID
	})
}

// ConflictMessage names the resource and window that could not be booked.
func ConflictMessage(resourceName string, window Interval, conflicts []Booking) string {
	message := fmt.Sprintf("%s is already booked between %s and %s",
		resourceName,
		window.Start.Format(constant.WallClockFormat),
		window.End.Format(constant.WallClockFormat),
	)

	if len(conflicts) > 0 {
		first := conflicts[0]
		message += fmt.Sprintf(" (conflicts with booking #%d, %s to %s)",
			first.ID,
			first.StartDateTime.Format(time.DateTime),
			first.EndDateTime.Format(time.DateTime),
		)
	}

	return message
}
