package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStatus = errors.New("unknown booking status")

// Status is the lifecycle state of a booking. The string value is what the status column stores.
type Status string

const (
	StatusPendingApproval     Status = "Pending Approval"
	StatusConfirmed           Status = "Confirmed"
	StatusDenied              Status = "Denied"
	StatusCancelled           Status = "Cancelled"
	StatusCancelledOverridden Status = "Cancelled - Overridden"
	StatusCompleted           Status = "Completed"
)

// statusPendingAlias is the historical label for StatusPendingApproval.
const statusPendingAlias = "Pending"

var validTransitions = map[Status][]Status{
	StatusPendingApproval: {StatusConfirmed, StatusDenied, StatusCancelled},
	StatusConfirmed:       {StatusCancelled, StatusCompleted, StatusCancelledOverridden},
}

var allStatuses = []Status{
	StatusPendingApproval,
	StatusConfirmed,
	StatusDenied,
	StatusCancelled,
	StatusCancelledOverridden,
	StatusCompleted,
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus accepts any status label case-insensitively, plus the "Pending" alias.
func ParseStatus(value string) (Status, error) {
	value = strings.TrimSpace(value)

	if strings.EqualFold(value, statusPendingAlias) {
		return StatusPendingApproval, nil
	}

	for _, status := range allStatuses {
		if strings.EqualFold(string(status), value) {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]

	return ok || s.IsTerminal()
}

// CanTransitionTo reports whether the lifecycle allows moving from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDenied, StatusCancelled, StatusCancelledOverridden, StatusCompleted:
		return true
	default:
		return false
	}
}

// Settable reports whether the status can be requested through a status update.
// Cancelled - Overridden is only produced by the priority override cascade.
func (s Status) Settable() bool {
	return s != StatusCancelledOverridden && s.IsValid()
}

// Value stores the canonical label.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan normalizes the stored label, mapping the legacy "Pending" value.
func (s *Status) Scan(src any) error {
	var raw string

	switch value := src.(type) {
	case string:
		raw = value
	case []byte:
		raw = string(value)
	case nil:
		*s = ""

		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnknownStatus, src)
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	*s = status

	return nil
}

// StatusSet is the set of statuses that make an overlapping booking a conflict.
type StatusSet []Status

var (
	// StandardBlocking is used by direct and request creation, approval and reschedule.
	StandardBlocking = StatusSet{StatusConfirmed}
	// OverrideBlocking is the set displaced by a priority booking.
	OverrideBlocking = StatusSet{StatusConfirmed, StatusPendingApproval}
)

func (set StatusSet) Contains(status Status) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}

	return false
}

// Values returns the labels for an IN filter.
func (set StatusSet) Values() []string {
	values := make([]string, len(set))
	for i, s := range set {
		values[i] = string(s)
	}

	return values
}
