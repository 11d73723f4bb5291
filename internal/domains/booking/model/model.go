package model

import (
	"time"

	"campusbook/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldReference        = "reference"
	FieldResourceID       = "resource_id"
	FieldEventName        = "event_name"
	FieldActivityType     = "activity_type"
	FieldParticipantCount = "participant_count"
	FieldInchargeName     = "incharge_name"
	FieldInchargeEmail    = "incharge_email"
	FieldContactPhone     = "contact_phone"
	FieldDescription      = "description"
	FieldStartDateTime    = "start_date_time"
	FieldEndDateTime      = "end_date_time"
	FieldStatus           = "status"
	FieldIsUrgent         = "is_urgent"
	FieldDenialReason     = "denial_reason"
	FieldAdminID          = "admin_id"
	FieldCreatedBy        = "created_by"
)

const (
	ActivityGeneral   = "General"
	ActivityPlacement = "Placement Activity"

	DefaultDenialReason = "No reason specified"
)

type Booking struct {
	ID               int64     `db:"id"`
	Reference        string    `db:"reference"`
	ResourceID       int64     `db:"resource_id"`
	EventName        string    `db:"event_name"`
	ActivityType     string    `db:"activity_type"`
	ParticipantCount *int      `db:"participant_count"`
	InchargeName     string    `db:"incharge_name"`
	InchargeEmail    string    `db:"incharge_email"`
	ContactPhone     *string   `db:"contact_phone"`
	Description      *string   `db:"description"`
	StartDateTime    time.Time `db:"start_date_time"`
	EndDateTime      time.Time `db:"end_date_time"`
	Status           Status    `db:"status"`
	IsUrgent         bool      `db:"is_urgent"`
	DenialReason     *string   `db:"denial_reason"`
	AdminID          *string   `db:"admin_id"`
	model.Metadata
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartDateTime, End: b.EndDateTime}
}
