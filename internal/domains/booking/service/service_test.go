package service_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"campusbook/config"
	otelMocks "campusbook/infras/otel/mocks"
	auditMocks "campusbook/internal/domains/audit/mocks"
	auditModel "campusbook/internal/domains/audit/model"
	bookingMocks "campusbook/internal/domains/booking/mocks"
	"campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/model/dto"
	"campusbook/internal/domains/booking/resolver"
	"campusbook/internal/domains/booking/service"
	resourceMocks "campusbook/internal/domains/resource/mocks"
	resourceModel "campusbook/internal/domains/resource/model"
	"campusbook/permissions"
	"campusbook/shared/cache"
	cacheMocks "campusbook/shared/cache/mocks"
	gDto "campusbook/shared/dto"
	"campusbook/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errCacheMiss = errors.New("cache miss")

var (
	admin     = permissions.Actor{ID: "admin-1", Email: "admin@campus.edu", Name: "Asha Admin", Role: permissions.RolePortalAdmin}
	faculty   = permissions.Actor{ID: "fac-7", Email: "ravi@campus.edu", Name: "Ravi Kumar", Role: permissions.RoleFaculty}
	student   = permissions.Actor{ID: "stu-3", Email: "meera@campus.edu", Name: "Meera S", Role: permissions.RoleStudentCoordinator}
	placement = permissions.Actor{ID: "pe-2", Email: "placements@campus.edu", Name: "Placement Cell", Role: permissions.RolePlacementExecutive}
)

var resources = map[int64]resourceModel.Resource{
	1: {ID: 1, Name: "Seminar Hall A", Type: "Hall", Location: "Block C", Capacity: 120, Active: true},
	2: {ID: 2, Name: "Computer Lab 2", Type: "Lab", Location: "Block A", Capacity: 40, Active: true},
	3: {ID: 3, Name: "Old Auditorium", Type: "Hall", Location: "Block D", Capacity: 300, Active: false},
}

type fixture struct {
	store *bookingMocks.MemoryBooking
	cfg   *config.Config
	svc   service.Booking

	mu      sync.Mutex
	entries []auditModel.Entry
}

func newFixture(t *testing.T, seed ...model.Booking) *fixture {
	t.Helper()

	redis := cacheMocks.NewMockRedisCache(gomock.NewController(t))
	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errCacheMiss).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return newFixtureWithCache(t, redis, seed...)
}

func newFixtureWithCache(t *testing.T, redis cache.RedisCache, seed ...model.Booking) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Booking.RevalidateOnApprove = true

	f := &fixture{
		store: bookingMocks.NewMemoryBooking(seed...),
		cfg:   cfg,
	}

	directory := resourceMocks.NewMockResourceService(ctrl)
	directory.EXPECT().
		Lookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id int64) (resourceModel.Resource, error) {
			resource, ok := resources[id]
			if !ok {
				return resource, failure.NotFound("resource not found")
			}

			return resource, nil
		}).
		AnyTimes()

	audit := auditMocks.NewMockAuditService(ctrl)
	audit.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, entry auditModel.Entry) {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.entries = append(f.entries, entry)
		}).
		AnyTimes()

	ot := otelMocks.NewOtel()
	f.svc = service.New(f.store, resolver.New(f.store, ot), directory, audit, cfg, redis, ot)

	return f
}

func (f *fixture) actions(bookingID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var actions []string

	for _, entry := range f.entries {
		if entry.BookingID == bookingID {
			actions = append(actions, entry.Action)
		}
	}

	return actions
}

func as(actor permissions.Actor) context.Context {
	return permissions.WithActor(context.Background(), actor)
}

func jan(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

func booking(id, resourceID int64, status model.Status, start, end time.Time) model.Booking {
	return model.Booking{
		ID:            id,
		Reference:     fmt.Sprintf("BK-SEED%04d", id),
		ResourceID:    resourceID,
		EventName:     fmt.Sprintf("Event %d", id),
		ActivityType:  model.ActivityGeneral,
		InchargeName:  faculty.Name,
		InchargeEmail: faculty.Email,
		StartDateTime: start,
		EndDateTime:   end,
		Status:        status,
	}
}

func direct(resourceID int64, start, end string) dto.CreateDirectBookingRequest {
	return dto.CreateDirectBookingRequest{
		ResourceID:    resourceID,
		EventName:     "Department Seminar",
		InchargeName:  "Dr. Iyer",
		InchargeEmail: "iyer@campus.edu",
		StartDateTime: start,
		EndDateTime:   end,
	}
}

func request(resourceID int64, date, start, end string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		ResourceID:   resourceID,
		EventName:    "Club Meetup",
		ContactPhone: "+91 98765 43210",
		StartDate:    date,
		StartTime:    start,
		EndTime:      end,
	}
}

func assertCode(t *testing.T, want int, err error) {
	t.Helper()

	require.Error(t, err)
	assert.Equal(t, want, failure.GetCode(err), err.Error())
}

func TestCreateDirect_ConflictWithConfirmed(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)))

	_, err := f.svc.CreateDirect(as(admin), direct(1, "2024-01-10T11:00:00", "2024-01-10T13:00:00"))
	assertCode(t, http.StatusConflict, err)
	assert.Contains(t, err.Error(), "Seminar Hall A is already booked between 2024-01-10T11:00:00 and 2024-01-10T13:00:00")
	assert.Contains(t, err.Error(), "booking #1")
	assert.Len(t, f.store.Snapshot(), 1)
}

func TestCreateRequest_ConflictWithConfirmed(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)))

	_, err := f.svc.CreateRequest(as(faculty), request(1, "2024-01-10", "11:00", "13:00"))
	assertCode(t, http.StatusConflict, err)
	assert.Len(t, f.store.Snapshot(), 1)
}

func TestCreateRequest_Success(t *testing.T) {
	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 1, model.StatusPendingApproval, jan(10, 12, 0), jan(10, 14, 0)),
	)

	res, err := f.svc.CreateRequest(as(student), request(1, "2024-01-10", "12:00", "13:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), res.ID)
	assert.Equal(t, model.StatusPendingApproval.String(), res.Status)
	assert.Equal(t, student.Email, res.InchargeEmail)
	assert.Equal(t, student.Name, res.InchargeName)
	assert.Equal(t, model.ActivityGeneral, res.ActivityType)
	assert.Equal(t, "2024-01-10T12:00:00", res.StartDateTime)
	assert.True(t, strings.HasPrefix(res.Reference, "BK-"))
	assert.False(t, res.IsUrgent)
	assert.Equal(t, []string{"Booking created with status Pending Approval"}, f.actions(3))
}

func TestPriority_OverridesPending(t *testing.T) {
	pending := booking(1, 1, model.StatusPendingApproval, jan(10, 9, 0), jan(10, 10, 0))
	f := newFixture(t, pending)

	res, err := f.svc.CreatePriority(as(placement), request(1, "2024-01-10", "09:30", "10:30"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.OverriddenBookings)
	assert.Equal(t, []int64{1}, res.OverriddenBookingIDs)
	assert.Equal(t, model.StatusConfirmed.String(), res.Booking.Status)
	assert.True(t, res.Booking.IsUrgent)
	assert.Equal(t, model.ActivityPlacement, res.Booking.ActivityType)

	displaced, ok := f.store.Row(1)
	require.True(t, ok)
	assert.Equal(t, model.StatusCancelledOverridden, displaced.Status)
	require.NotNil(t, displaced.AdminID)
	assert.Equal(t, placement.ID, *displaced.AdminID)
	assert.False(t, displaced.ModifiedAt.IsZero())

	created, ok := f.store.Row(res.Booking.ID)
	require.True(t, ok)
	assert.Equal(t, jan(10, 9, 30), created.StartDateTime)
	assert.Equal(t, jan(10, 10, 30), created.EndDateTime)

	assert.Equal(t, []string{fmt.Sprintf("Overridden by priority booking #%d", res.Booking.ID)}, f.actions(1))
}

func TestPriority_OverridesConfirmedAndPendingOnly(t *testing.T) {
	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 9, 0), jan(10, 10, 0)),
		booking(2, 1, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 11, 0)),
		booking(3, 1, model.StatusDenied, jan(10, 9, 0), jan(10, 11, 0)),
		booking(4, 2, model.StatusConfirmed, jan(10, 9, 0), jan(10, 11, 0)),
		booking(5, 1, model.StatusConfirmed, jan(10, 11, 0), jan(10, 12, 0)),
	)

	res, err := f.svc.CreatePriority(as(placement), request(1, "2024-01-10", "09:30", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, res.OverriddenBookingIDs)

	for id, want := range map[int64]model.Status{
		3: model.StatusDenied,
		4: model.StatusConfirmed,
		5: model.StatusConfirmed,
	} {
		row, _ := f.store.Row(id)
		assert.Equal(t, want, row.Status, "booking %d", id)
	}
}

func TestPriority_InsertFailureRollsBack(t *testing.T) {
	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 9, 0), jan(10, 10, 0)),
		booking(2, 1, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 11, 0)),
	)
	before := f.store.Snapshot()

	f.store.FailInsert = errors.New("connection reset")

	_, err := f.svc.CreatePriority(as(placement), request(1, "2024-01-10", "09:00", "11:00"))
	assertCode(t, http.StatusInternalServerError, err)

	assert.Equal(t, before, f.store.Snapshot())
	assert.Empty(t, f.actions(1))
}

func TestCreate_Permissions(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateDirect(as(faculty), direct(1, "2024-01-10T09:00", "2024-01-10T10:00"))
	assertCode(t, http.StatusForbidden, err)

	_, err = f.svc.CreatePriority(as(admin), request(1, "2024-01-10", "09:00", "10:00"))
	assertCode(t, http.StatusForbidden, err)

	_, err = f.svc.CreateRequest(context.Background(), request(1, "2024-01-10", "09:00", "10:00"))
	assertCode(t, http.StatusUnauthorized, err)

	assert.Empty(t, f.store.Snapshot())
}

func TestCreateDirect_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateDirectBookingRequest
		want int
	}{
		{name: "start equals end", req: direct(1, "2024-01-10T10:00:00", "2024-01-10T10:00:00"), want: http.StatusBadRequest},
		{name: "end before start", req: direct(1, "2024-01-10T12:00:00", "2024-01-10T10:00:00"), want: http.StatusBadRequest},
		{name: "inactive resource", req: direct(3, "2024-01-10T10:00:00", "2024-01-10T11:00:00"), want: http.StatusBadRequest},
		{name: "unknown resource", req: direct(9, "2024-01-10T10:00:00", "2024-01-10T11:00:00"), want: http.StatusNotFound},
		{name: "bad datetime", req: direct(1, "10/01/2024", "2024-01-10T11:00:00"), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.CreateDirect(as(admin), tt.req)
			assertCode(t, tt.want, err)
			assert.Empty(t, f.store.Snapshot())
		})
	}
}

func TestCreateDirect_Capacity(t *testing.T) {
	f := newFixture(t)

	req := direct(2, "2024-01-10T10:00:00", "2024-01-10T11:00:00")
	count := 41
	req.ParticipantCount = &count

	_, err := f.svc.CreateDirect(as(admin), req)
	assertCode(t, http.StatusBadRequest, err)
	assert.Contains(t, err.Error(), "at most 40")

	count = 40

	res, err := f.svc.CreateDirect(as(admin), req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed.String(), res.Status)
}

func TestCreateDirect_AdjacentWindowsDoNotConflict(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)))

	_, err := f.svc.CreateDirect(as(admin), direct(1, "2024-01-10T12:00:00", "2024-01-10T13:00:00"))
	require.NoError(t, err)

	_, err = f.svc.CreateDirect(as(admin), direct(1, "2024-01-10T08:00:00", "2024-01-10T10:00:00"))
	require.NoError(t, err)
}

func TestUpdateStatus_DenyDefaultsReason(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusPendingApproval, jan(10, 9, 0), jan(10, 10, 0)))

	res, err := f.svc.UpdateStatus(as(admin), 1, dto.UpdateStatusRequest{Status: "Denied"})
	require.NoError(t, err)
	require.NotNil(t, res.DenialReason)
	assert.Equal(t, model.DefaultDenialReason, *res.DenialReason)

	row, _ := f.store.Row(1)
	assert.Equal(t, model.StatusDenied, row.Status)
	require.NotNil(t, row.DenialReason)
	assert.Equal(t, model.DefaultDenialReason, *row.DenialReason)

	f.mu.Lock()
	defer f.mu.Unlock()

	require.Len(t, f.entries, 1)
	assert.Equal(t, "Status changed to Denied", f.entries[0].Action)
	assert.Equal(t, "Reason: No reason specified", *f.entries[0].Details)
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name  string
		actor permissions.Actor
		id    int64
		req   dto.UpdateStatusRequest
		want  int
	}{
		{name: "not an admin", actor: faculty, id: 1, req: dto.UpdateStatusRequest{Status: "Confirmed"}, want: http.StatusForbidden},
		{name: "unknown status", actor: admin, id: 1, req: dto.UpdateStatusRequest{Status: "Maybe"}, want: http.StatusBadRequest},
		{name: "override is not settable", actor: admin, id: 1, req: dto.UpdateStatusRequest{Status: "Cancelled - Overridden"}, want: http.StatusUnprocessableEntity},
		{name: "pending cannot complete", actor: admin, id: 1, req: dto.UpdateStatusRequest{Status: "Completed"}, want: http.StatusUnprocessableEntity},
		{name: "missing booking", actor: admin, id: 99, req: dto.UpdateStatusRequest{Status: "Confirmed"}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, booking(1, 1, model.StatusPendingApproval, jan(10, 9, 0), jan(10, 10, 0)))

			_, err := f.svc.UpdateStatus(as(tt.actor), tt.id, tt.req)
			assertCode(t, tt.want, err)

			row, _ := f.store.Row(1)
			assert.Equal(t, model.StatusPendingApproval, row.Status)
		})
	}
}

func TestUpdateStatus_TerminalStatesNeverLeave(t *testing.T) {
	for _, from := range model.Statuses() {
		if !from.IsTerminal() {
			continue
		}

		for _, to := range model.Statuses() {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				future := time.Date(2099, time.March, 1, 9, 0, 0, 0, time.UTC)
				f := newFixture(t, booking(1, 1, from, future, future.Add(time.Hour)))

				_, err := f.svc.UpdateStatus(as(admin), 1, dto.UpdateStatusRequest{Status: to.String()})
				assertCode(t, http.StatusUnprocessableEntity, err)

				row, _ := f.store.Row(1)
				assert.Equal(t, from, row.Status)
			})
		}
	}
}

func TestUpdateStatus_ApproveRevalidates(t *testing.T) {
	seed := []model.Booking{
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 1, model.StatusPendingApproval, jan(10, 11, 0), jan(10, 13, 0)),
		booking(3, 1, model.StatusPendingApproval, jan(10, 12, 0), jan(10, 13, 0)),
	}

	t.Run("resolver rejects", func(t *testing.T) {
		f := newFixture(t, seed...)

		_, err := f.svc.UpdateStatus(as(admin), 2, dto.UpdateStatusRequest{Status: "Confirmed"})
		assertCode(t, http.StatusConflict, err)
		assert.Contains(t, err.Error(), "Seminar Hall A is already booked")
	})

	t.Run("constraint rejects without revalidation", func(t *testing.T) {
		f := newFixture(t, seed...)
		f.cfg.Booking.RevalidateOnApprove = false

		_, err := f.svc.UpdateStatus(as(admin), 2, dto.UpdateStatusRequest{Status: "Confirmed"})
		assertCode(t, http.StatusConflict, err)

		row, _ := f.store.Row(2)
		assert.Equal(t, model.StatusPendingApproval, row.Status)
	})

	t.Run("free window approves", func(t *testing.T) {
		f := newFixture(t, seed...)

		res, err := f.svc.UpdateStatus(as(admin), 3, dto.UpdateStatusRequest{Status: "pending approval"})
		assertCode(t, http.StatusUnprocessableEntity, err)

		res, err = f.svc.UpdateStatus(as(admin), 3, dto.UpdateStatusRequest{Status: "Confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "Confirmed", res.Status)
		require.NotNil(t, res.AdminID)
		assert.Equal(t, admin.ID, *res.AdminID)
	})
}

func TestCancel(t *testing.T) {
	future := time.Date(2099, time.March, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		actor permissions.Actor
		seed  model.Booking
		want  int
	}{
		{name: "owner cancels pending", actor: faculty, seed: booking(1, 1, model.StatusPendingApproval, future, future.Add(time.Hour))},
		{name: "owner cancels confirmed", actor: faculty, seed: booking(1, 1, model.StatusConfirmed, future, future.Add(time.Hour))},
		{name: "admin cancels", actor: admin, seed: booking(1, 1, model.StatusConfirmed, future, future.Add(time.Hour))},
		{name: "someone else", actor: student, seed: booking(1, 1, model.StatusConfirmed, future, future.Add(time.Hour)), want: http.StatusForbidden},
		{name: "already started", actor: faculty, seed: booking(1, 1, model.StatusConfirmed, jan(10, 9, 0), jan(10, 10, 0)), want: http.StatusUnprocessableEntity},
		{name: "already denied", actor: faculty, seed: booking(1, 1, model.StatusDenied, future, future.Add(time.Hour)), want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.seed)

			res, err := f.svc.Cancel(as(tt.actor), 1, dto.CancelBookingRequest{Reason: "event postponed"})
			if tt.want != 0 {
				assertCode(t, tt.want, err)

				row, _ := f.store.Row(1)
				assert.Equal(t, tt.seed.Status, row.Status)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusCancelled.String(), res.Status)
			assert.Equal(t, []string{"Status changed to Cancelled"}, f.actions(1))
		})
	}
}

func TestUpdate(t *testing.T) {
	str := func(value string) *string { return &value }
	id := func(value int64) *int64 { return &value }

	seed := []model.Booking{
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 1, model.StatusConfirmed, jan(10, 13, 0), jan(10, 14, 0)),
		booking(3, 2, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 12, 0)),
		booking(4, 1, model.StatusCompleted, jan(9, 10, 0), jan(9, 12, 0)),
	}

	tests := []struct {
		name  string
		actor permissions.Actor
		id    int64
		req   dto.UpdateBookingRequest
		want  int
	}{
		{name: "rename", actor: admin, id: 2, req: dto.UpdateBookingRequest{EventName: str("Guest Lecture")}},
		{name: "reschedule into conflict", actor: admin, id: 2, req: dto.UpdateBookingRequest{ResourceID: id(1), StartDateTime: str("2024-01-10T11:00"), EndDateTime: str("2024-01-10T13:00")}, want: http.StatusConflict},
		{name: "reschedule free", actor: admin, id: 2, req: dto.UpdateBookingRequest{ResourceID: id(1), StartDateTime: str("2024-01-10T12:00"), EndDateTime: str("2024-01-10T13:30")}},
		{name: "partial move still hits the constraint", actor: admin, id: 2, req: dto.UpdateBookingRequest{StartDateTime: str("2024-01-10T11:30")}, want: http.StatusConflict},
		{name: "start after end", actor: admin, id: 2, req: dto.UpdateBookingRequest{EndDateTime: str("2024-01-10T12:00")}, want: http.StatusBadRequest},
		{name: "terminal", actor: admin, id: 4, req: dto.UpdateBookingRequest{EventName: str("Renamed")}, want: http.StatusUnprocessableEntity},
		{name: "empty", actor: admin, id: 2, req: dto.UpdateBookingRequest{}, want: http.StatusBadRequest},
		{name: "not an admin", actor: faculty, id: 2, req: dto.UpdateBookingRequest{EventName: str("Mine now")}, want: http.StatusForbidden},
		{name: "missing", actor: admin, id: 42, req: dto.UpdateBookingRequest{EventName: str("Ghost")}, want: http.StatusNotFound},
		{name: "inactive target resource", actor: admin, id: 3, req: dto.UpdateBookingRequest{ResourceID: id(3)}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, seed...)
			before, _ := f.store.Row(tt.id)

			res, err := f.svc.Update(as(tt.actor), tt.id, tt.req)
			if tt.want != 0 {
				assertCode(t, tt.want, err)

				after, _ := f.store.Row(tt.id)
				assert.Equal(t, before, after)

				return
			}

			require.NoError(t, err)

			row, _ := f.store.Row(tt.id)
			assert.Equal(t, row.EventName, res.EventName)
			assert.Equal(t, admin.ID, row.ModifiedBy)
			assert.Equal(t, []string{"Booking updated"}, f.actions(tt.id))
		})
	}
}

func TestUpdate_LocksBothResourcesInOrder(t *testing.T) {
	f := newFixture(t, booking(1, 2, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 12, 0)))

	target := int64(1)

	_, err := f.svc.Update(as(admin), 1, dto.UpdateBookingRequest{ResourceID: &target})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, f.store.Locks)

	row, _ := f.store.Row(1)
	assert.Equal(t, int64(1), row.ResourceID)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)))

	assertCode(t, http.StatusNotFound, f.svc.Delete(as(admin), 99))
	assertCode(t, http.StatusForbidden, f.svc.Delete(as(faculty), 1))

	require.NoError(t, f.svc.Delete(as(admin), 1))
	assert.Empty(t, f.store.Snapshot())
	assert.Equal(t, []string{"Booking deleted"}, f.actions(1))
}

func TestGet_Idempotent(t *testing.T) {
	f := newFixture(t, booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)))

	first, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)

	second, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.store.Snapshot(), 1)

	_, err = f.svc.Get(context.Background(), 2)
	assertCode(t, http.StatusNotFound, err)
}

func TestGetAll(t *testing.T) {
	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 2, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 12, 0)),
		booking(3, 1, model.StatusPendingApproval, jan(11, 10, 0), jan(11, 12, 0)),
	)

	filter := dto.ListFilterRequest{ResourceID: 1, Status: "Pending"}

	group, err := filter.ToFilterGroup()
	require.NoError(t, err)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, group)
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, int64(3), res.Bookings[0].ID)
}

func TestCompleteElapsed(t *testing.T) {
	future := time.Date(2099, time.March, 1, 9, 0, 0, 0, time.UTC)

	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 1, model.StatusConfirmed, future, future.Add(time.Hour)),
		booking(3, 2, model.StatusPendingApproval, jan(10, 10, 0), jan(10, 12, 0)),
	)

	completed, err := f.svc.CompleteElapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	row, _ := f.store.Row(1)
	assert.Equal(t, model.StatusCompleted, row.Status)

	row, _ = f.store.Row(2)
	assert.Equal(t, model.StatusConfirmed, row.Status)

	row, _ = f.store.Row(3)
	assert.Equal(t, model.StatusPendingApproval, row.Status)

	f.mu.Lock()
	defer f.mu.Unlock()

	require.Len(t, f.entries, 1)
	assert.Equal(t, "system", f.entries[0].ActorID)
	assert.Equal(t, "Status changed to Completed", f.entries[0].Action)
}

func TestNoDoubleConfirm_RandomConcurrentOperations(t *testing.T) {
	f := newFixture(t)
	f.cfg.Booking.RevalidateOnApprove = false

	const workers, operations = 8, 40

	var wg sync.WaitGroup

	for worker := range workers {
		wg.Add(1)

		go func(seed int64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed)) //nolint:gosec

			for range operations {
				resourceID := int64(rng.Intn(2) + 1)
				day := rng.Intn(3) + 10
				startHour := rng.Intn(10) + 8
				length := rng.Intn(3) + 1
				date := fmt.Sprintf("2024-01-%02d", day)
				start := fmt.Sprintf("%02d:00", startHour)
				end := fmt.Sprintf("%02d:30", startHour+length)

				switch rng.Intn(4) {
				case 0:
					_, _ = f.svc.CreateDirect(as(admin), direct(resourceID, date+"T"+start, date+"T"+end))
				case 1:
					_, _ = f.svc.CreateRequest(as(faculty), request(resourceID, date, start, end))
				case 2:
					_, _ = f.svc.CreatePriority(as(placement), request(resourceID, date, start, end))
				default:
					_, _ = f.svc.UpdateStatus(as(admin), int64(rng.Intn(workers*operations)+1), dto.UpdateStatusRequest{Status: "Confirmed"})
				}
			}
		}(int64(worker + 1))
	}

	wg.Wait()

	rows := f.store.Snapshot()
	require.NotEmpty(t, rows)

	for i, a := range rows {
		for _, b := range rows[i+1:] {
			if a.ResourceID != b.ResourceID || a.Status != model.StatusConfirmed || b.Status != model.StatusConfirmed {
				continue
			}

			assert.False(t, a.Interval().Overlaps(b.Interval()), "bookings %d and %d are both confirmed and overlap", a.ID, b.ID)
		}
	}
}

func TestGetAll_InchargeEmailIgnoresCase(t *testing.T) {
	other := booking(3, 1, model.StatusConfirmed, jan(12, 10, 0), jan(12, 12, 0))
	other.InchargeEmail = "meera@campus.edu"

	f := newFixture(t,
		booking(1, 1, model.StatusConfirmed, jan(10, 10, 0), jan(10, 12, 0)),
		booking(2, 2, model.StatusPendingApproval, jan(11, 10, 0), jan(11, 12, 0)),
		other,
	)

	filter := dto.ListFilterRequest{InchargeEmail: "Ravi@Campus.EDU"}

	group, err := filter.ToFilterGroup()
	require.NoError(t, err)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, group)
	require.NoError(t, err)

	require.Len(t, res.Bookings, 2)
	assert.Equal(t, int64(1), res.Bookings[0].ID)
	assert.Equal(t, int64(2), res.Bookings[1].ID)
}
