package dto

import (
	"net/http"
	"time"

	bookingModel "campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/resource/model"
	"campusbook/shared"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
)

// maxAvailabilityDays bounds one availability lookup.
const maxAvailabilityDays = 31

type ResourceResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	Description *string `json:"description,omitempty"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *ResourceResponse) FromModel(model model.Resource) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.Description = model.Description
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetResourcesResponse struct {
	Resources []ResourceResponse `json:"resources"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetResourcesResponse) FromModels(models []model.Resource, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Resources = make([]ResourceResponse, len(models))
	for i, mod := range models {
		r.Resources[i].FromModel(mod)
	}
}

// AvailabilityRequest covers whole days. EndDate defaults to StartDate.
type AvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required,date_only"`
	EndDate   string `json:"end_date"   validate:"omitempty,date_only"`
}

func (a *AvailabilityRequest) FromRequest(r *http.Request) {
	query := r.URL.Query()

	a.StartDate = query.Get(constant.RequestParamStartDate)
	a.EndDate = query.Get(constant.RequestParamEndDate)
}

// Window returns [StartDate 00:00, EndDate+1 00:00).
func (a *AvailabilityRequest) Window() (bookingModel.Interval, error) {
	start, err := time.Parse(constant.DateOnlyFormat, a.StartDate)
	if err != nil {
		return bookingModel.Interval{}, errInvalidDate
	}

	end := start

	if a.EndDate != constant.Empty {
		end, err = time.Parse(constant.DateOnlyFormat, a.EndDate)
		if err != nil {
			return bookingModel.Interval{}, errInvalidDate
		}
	}

	if end.Before(start) {
		return bookingModel.Interval{}, errEndBeforeStart
	}

	if end.Sub(start) >= maxAvailabilityDays*24*time.Hour {
		return bookingModel.Interval{}, errRangeTooLong
	}

	return bookingModel.Interval{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

type BookedSlot struct {
	ID            int64  `json:"id"`
	EventName     string `json:"event_name"`
	StartDateTime string `json:"start_date_time"`
	EndDateTime   string `json:"end_date_time"`
	Status        string `json:"status"`
}

type AvailabilityResponse struct {
	Resource  ResourceResponse `json:"resource"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Available bool             `json:"available"`
	Bookings  []BookedSlot     `json:"bookings"`
}

func (a *AvailabilityResponse) FromModels(resource model.Resource, window bookingModel.Interval, bookings []bookingModel.Booking) {
	a.Resource.FromModel(resource)
	a.From = window.Start.Format(constant.WallClockFormat)
	a.To = window.End.Format(constant.WallClockFormat)
	a.Available = len(bookings) == 0

	a.Bookings = make([]BookedSlot, len(bookings))
	for i, booking := range bookings {
		a.Bookings[i] = BookedSlot{
			ID:            booking.ID,
			EventName:     booking.EventName,
			StartDateTime: booking.StartDateTime.Format(constant.WallClockFormat),
			EndDateTime:   booking.EndDateTime.Format(constant.WallClockFormat),
			Status:        booking.Status.String(),
		}
	}
}
