package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableName  = "booking_audit_logs"
	EntityName = "audit"

	FieldID        = "id"
	FieldBookingID = "booking_id"
	FieldActorID   = "actor_id"
	FieldAction    = "action"
	FieldDetails   = "details"
	FieldCreatedAt = "created_at"
)

// Entry is an append-only record of something that happened to a booking.
type Entry struct {
	ID        uuid.UUID `db:"id"`
	BookingID int64     `db:"booking_id"`
	ActorID   string    `db:"actor_id"`
	Action    string    `db:"action"`
	Details   *string   `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}
