package model

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("start date time must be before end date time")

// Interval is a half-open wall clock window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Validate() error {
	if !i.Start.Before(i.End) {
		return ErrInvalidInterval
	}

	return nil
}

// Overlaps is true when the windows share any instant. Touching windows do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}
