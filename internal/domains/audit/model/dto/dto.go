package dto

import (
	"campusbook/internal/domains/audit/model"
	"campusbook/shared"
	"campusbook/shared/constant"
	"campusbook/shared/timezone"
)

type AuditLogResponse struct {
	ID        string  `json:"id"`
	BookingID int64   `json:"booking_id"`
	ActorID   string  `json:"actor_id"`
	Action    string  `json:"action"`
	Details   *string `json:"details,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func (r *AuditLogResponse) FromModel(model model.Entry) {
	r.ID = model.ID.String()
	r.BookingID = model.BookingID
	r.ActorID = model.ActorID
	r.Action = model.Action
	r.Details = model.Details
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetAuditLogsResponse struct {
	AuditLogs []AuditLogResponse `json:"audit_logs"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetAuditLogsResponse) FromModels(models []model.Entry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.AuditLogs = make([]AuditLogResponse, len(models))
	for i, mod := range models {
		r.AuditLogs[i].FromModel(mod)
	}
}

// AuditEvent is the payload published on the audit topic.
type AuditEvent struct {
	ID        string  `json:"id"`
	BookingID int64   `json:"booking_id"`
	ActorID   string  `json:"actor_id"`
	Action    string  `json:"action"`
	Details   *string `json:"details,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func (e *AuditEvent) FromModel(model model.Entry) {
	e.ID = model.ID.String()
	e.BookingID = model.BookingID
	e.ActorID = model.ActorID
	e.Action = model.Action
	e.Details = model.Details
	e.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}
