package dto

import (
	"net/http"
	"time"

	"campusbook/internal/domains/booking/model"
	"campusbook/permissions"
	"campusbook/shared"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
	gModel "campusbook/shared/model"
	"campusbook/shared/timezone"
)

// CreateDirectBookingRequest is the administrator form with full datetimes.
type CreateDirectBookingRequest struct {
	ResourceID       int64  `json:"resource_id"       validate:"required,gt=0"`
	EventName        string `json:"event_name"        validate:"required,min=3,max=200"`
	ActivityType     string `json:"activity_type"     validate:"omitempty,max=100"`
	ParticipantCount *int   `json:"participant_count" validate:"omitempty,min=0"`
	InchargeName     string `json:"incharge_name"     validate:"required,max=100"`
	InchargeEmail    string `json:"incharge_email"    validate:"required,email,max=100"`
	ContactPhone     string `json:"contact_phone"     validate:"omitempty,max=20"`
	Description      string `json:"description"       validate:"omitempty,max=1000"`
	StartDateTime    string `json:"start_date_time"   validate:"required,naive_datetime"`
	EndDateTime      string `json:"end_date_time"     validate:"required,naive_datetime"`
}

func (c *CreateDirectBookingRequest) ToModel(user string) (model.Booking, error) {
	start, err := timezone.ParseWallClock(c.StartDateTime)
	if err != nil {
		return model.Booking{}, err
	}

	end, err := timezone.ParseWallClock(c.EndDateTime)
	if err != nil {
		return model.Booking{}, err
	}

	activity := c.ActivityType
	if activity == constant.Empty {
		activity = model.ActivityGeneral
	}

	return model.Booking{
		ResourceID:       c.ResourceID,
		EventName:        c.EventName,
		ActivityType:     activity,
		ParticipantCount: c.ParticipantCount,
		InchargeName:     c.InchargeName,
		InchargeEmail:    c.InchargeEmail,
		ContactPhone:     optional(c.ContactPhone),
		Description:      optional(c.Description),
		StartDateTime:    start,
		EndDateTime:      end,
		Status:           model.StatusConfirmed,
		Metadata:         newMetadata(user),
	}, nil
}

// CreateBookingRequest is the requester form used by the request and priority paths.
// The person in charge is always the caller.
type CreateBookingRequest struct {
	ResourceID    int64  `json:"resource_id"    validate:"required,gt=0"`
	EventName     string `json:"event_name"     validate:"required,min=3,max=200"`
	ActivityType  string `json:"activity_type"  validate:"omitempty,max=100"`
	AttendeeCount *int   `json:"attendee_count" validate:"omitempty,min=0"`
	ContactPhone  string `json:"contact_phone"  validate:"required,max=20"`
	Description   string `json:"description"    validate:"omitempty,max=1000"`
	StartDate     string `json:"start_date"     validate:"required,date_only"`
	StartTime     string `json:"start_time"     validate:"required,clock_time"`
	EndDate       string `json:"end_date"       validate:"omitempty,date_only"`
	EndTime       string `json:"end_time"       validate:"required,clock_time"`
}

// ToModel builds a booking with status; defaultActivity applies when no activity type was given.
func (c *CreateBookingRequest) ToModel(actor permissions.Actor, status model.Status, defaultActivity string) (model.Booking, error) {
	start, err := timezone.CombineWallClock(c.StartDate, c.StartTime)
	if err != nil {
		return model.Booking{}, err
	}

	endDate := c.EndDate
	if endDate == constant.Empty {
		endDate = c.StartDate
	}

	end, err := timezone.CombineWallClock(endDate, c.EndTime)
	if err != nil {
		return model.Booking{}, err
	}

	activity := c.ActivityType
	if activity == constant.Empty {
		activity = defaultActivity
	}

	name := actor.Name
	if name == constant.Empty {
		name = actor.Email
	}

	return model.Booking{
		ResourceID:       c.ResourceID,
		EventName:        c.EventName,
		ActivityType:     activity,
		ParticipantCount: c.AttendeeCount,
		InchargeName:     name,
		InchargeEmail:    actor.Email,
		ContactPhone:     optional(c.ContactPhone),
		Description:      optional(c.Description),
		StartDateTime:    start,
		EndDateTime:      end,
		Status:           status,
		Metadata:         newMetadata(actor.ID),
	}, nil
}

type UpdateStatusRequest struct {
	Status       string `json:"status"        validate:"required,max=50"`
	DenialReason string `json:"denial_reason" validate:"omitempty,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// UpdateBookingRequest edits booking details. Nil fields are left untouched.
type UpdateBookingRequest struct {
	ResourceID       *int64  `json:"resource_id"       validate:"omitempty,gt=0"`
	EventName        *string `json:"event_name"        validate:"omitempty,min=3,max=200"`
	ActivityType     *string `json:"activity_type"     validate:"omitempty,max=100"`
	ParticipantCount *int    `json:"participant_count" validate:"omitempty,min=0"`
	InchargeName     *string `json:"incharge_name"     validate:"omitempty,max=100"`
	InchargeEmail    *string `json:"incharge_email"    validate:"omitempty,email,max=100"`
	ContactPhone     *string `json:"contact_phone"     validate:"omitempty,max=20"`
	Description      *string `json:"description"       validate:"omitempty,max=1000"`
	StartDateTime    *string `json:"start_date_time"   validate:"omitempty,naive_datetime"`
	EndDateTime      *string `json:"end_date_time"     validate:"omitempty,naive_datetime"`
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return *u == (UpdateBookingRequest{})
}

// Reschedules is true when resource, start and end are all supplied.
func (u *UpdateBookingRequest) Reschedules() bool {
	return u.ResourceID != nil && u.StartDateTime != nil && u.EndDateTime != nil
}

// Apply returns current with the supplied fields replaced, and the changed columns.
func (u *UpdateBookingRequest) Apply(current model.Booking) (model.Booking, map[string]any, error) {
	updated := current
	changes := map[string]any{}

	if u.ResourceID != nil {
		updated.ResourceID = *u.ResourceID
		changes[model.FieldResourceID] = *u.ResourceID
	}

	if u.EventName != nil {
		updated.EventName = *u.EventName
		changes[model.FieldEventName] = *u.EventName
	}

	if u.ActivityType != nil {
		updated.ActivityType = *u.ActivityType
		changes[model.FieldActivityType] = *u.ActivityType
	}

	if u.ParticipantCount != nil {
		updated.ParticipantCount = u.ParticipantCount
		changes[model.FieldParticipantCount] = *u.ParticipantCount
	}

	if u.InchargeName != nil {
		updated.InchargeName = *u.InchargeName
		changes[model.FieldInchargeName] = *u.InchargeName
	}

	if u.InchargeEmail != nil {
		updated.InchargeEmail = *u.InchargeEmail
		changes[model.FieldInchargeEmail] = *u.InchargeEmail
	}

	if u.ContactPhone != nil {
		updated.ContactPhone = optional(*u.ContactPhone)
		changes[model.FieldContactPhone] = updated.ContactPhone
	}

	if u.Description != nil {
		updated.Description = optional(*u.Description)
		changes[model.FieldDescription] = updated.Description
	}

	if u.StartDateTime != nil {
		start, err := timezone.ParseWallClock(*u.StartDateTime)
		if err != nil {
			return current, nil, err
		}

		updated.StartDateTime = start
		changes[model.FieldStartDateTime] = start
	}

	if u.EndDateTime != nil {
		end, err := timezone.ParseWallClock(*u.EndDateTime)
		if err != nil {
			return current, nil, err
		}

		updated.EndDateTime = end
		changes[model.FieldEndDateTime] = end
	}

	return updated, changes, nil
}

type BookingResponse struct {
	ID               int64   `json:"id"`
	Reference        string  `json:"reference"`
	ResourceID       int64   `json:"resource_id"`
	EventName        string  `json:"event_name"`
	ActivityType     string  `json:"activity_type"`
	ParticipantCount *int    `json:"participant_count,omitempty"`
	InchargeName     string  `json:"incharge_name"`
	InchargeEmail    string  `json:"incharge_email"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
	Description      *string `json:"description,omitempty"`
	StartDateTime    string  `json:"start_date_time"`
	EndDateTime      string  `json:"end_date_time"`
	Status           string  `json:"status"`
	IsUrgent         bool    `json:"is_urgent"`
	DenialReason     *string `json:"denial_reason,omitempty"`
	AdminID          *string `json:"admin_id,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Reference = model.Reference
	r.ResourceID = model.ResourceID
	r.EventName = model.EventName
	r.ActivityType = model.ActivityType
	r.ParticipantCount = model.ParticipantCount
	r.InchargeName = model.InchargeName
	r.InchargeEmail = model.InchargeEmail
	r.ContactPhone = model.ContactPhone
	r.Description = model.Description
	r.StartDateTime = model.StartDateTime.Format(constant.WallClockFormat)
	r.EndDateTime = model.EndDateTime.Format(constant.WallClockFormat)
	r.Status = model.Status.String()
	r.IsUrgent = model.IsUrgent
	r.DenialReason = model.DenialReason
	r.AdminID = model.AdminID
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type PriorityBookingResponse struct {
	Booking              BookingResponse `json:"booking"`
	OverriddenBookings   int             `json:"overridden_bookings"`
	OverriddenBookingIDs []int64         `json:"overridden_booking_ids"`
}

func optional(value string) *string {
	if value == constant.Empty {
		return nil
	}

	return &value
}

func newMetadata(user string) gModel.Metadata {
	now := timezone.Now()

	return gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  user,
		ModifiedBy: user,
	}
}

// wallClockOrDate accepts a date (midnight) or a naive datetime.
func wallClockOrDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(constant.DateOnlyFormat, value); err == nil {
		return parsed, nil
	}

	return timezone.ParseWallClock(value)
}

// ListFilterRequest narrows a booking listing. From and To select bookings overlapping [From, To).
type ListFilterRequest struct {
	ResourceID    int64
	Status        string
	InchargeEmail string
	From          string
	To            string
}

func (l *ListFilterRequest) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	if value := query.Get(constant.RequestParamResourceID); value != constant.Empty {
		id, err := shared.ParseID(value)
		if err != nil {
			return err
		}

		l.ResourceID = id
	}

	l.Status = query.Get(constant.RequestParamStatus)
	l.InchargeEmail = query.Get(constant.RequestParamInchargeEmail)
	l.From = query.Get(constant.RequestParamFrom)
	l.To = query.Get(constant.RequestParamTo)

	return nil
}

// ToFilterGroup builds the where clause. Unknown statuses and malformed bounds are rejected.
func (l *ListFilterRequest) ToFilterGroup() (gDto.FilterGroup, error) {
	filters := []any{}

	if l.ResourceID != 0 {
		filters = append(filters, gDto.Filter{Field: model.FieldResourceID, Operator: gDto.FilterOperatorEq, Value: l.ResourceID, Table: model.TableName})
	}

	if l.Status != constant.Empty {
		status, err := model.ParseStatus(l.Status)
		if err != nil {
			return gDto.FilterGroup{}, err
		}

		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: status.String(), Table: model.TableName})
	}

	if l.InchargeEmail != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldInchargeEmail, Operator: gDto.FilterOperatorEqFold, Value: l.InchargeEmail, Table: model.TableName})
	}

	if l.From != constant.Empty {
		from, err := wallClockOrDate(l.From)
		if err != nil {
			return gDto.FilterGroup{}, err
		}

		filters = append(filters, gDto.Filter{ArgName: "list_from", Field: model.FieldEndDateTime, Operator: gDto.FilterOperatorGreater, Value: from, Table: model.TableName})
	}

	if l.To != constant.Empty {
		to, err := wallClockOrDate(l.To)
		if err != nil {
			return gDto.FilterGroup{}, err
		}

		filters = append(filters, gDto.Filter{ArgName: "list_to", Field: model.FieldStartDateTime, Operator: gDto.FilterOperatorLess, Value: to, Table: model.TableName})
	}

	return gDto.FilterGroup{
		Filters:  filters,
		Operator: gDto.FilterGroupOperatorAnd,
	}, nil
}
