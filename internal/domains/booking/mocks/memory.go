package mocks

import (
	"cmp"
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"campusbook/internal/domains/booking/model"
	"campusbook/shared/constant"
	"campusbook/shared/dto"
	"campusbook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// MemoryBooking is an in-memory booking store. Transactions are serialized and roll back
// on error, and the Confirmed-overlap exclusion constraint is enforced with SQLSTATE 23P01.
type MemoryBooking struct {
	tx   sync.Mutex
	mu   sync.Mutex
	rows map[int64]model.Booking
	next int64

	// FailInsert, when set, is returned by the next InsertReturningTx.
	FailInsert error
	// Locks records every LockResource call in order.
	Locks []int64
}

func NewMemoryBooking(seed ...model.Booking) *MemoryBooking {
	m := &MemoryBooking{rows: map[int64]model.Booking{}}

	for _, booking := range seed {
		if booking.ID > m.next {
			m.next = booking.ID
		}

		m.rows[booking.ID] = booking
	}

	return m
}

// Snapshot returns every stored booking ordered by id.
func (m *MemoryBooking) Snapshot() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sorted()
}

// Row returns booking id and whether it exists.
func (m *MemoryBooking) Row(id int64) (model.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.rows[id]

	return booking, ok
}

func (m *MemoryBooking) WithTransaction(_ context.Context, fn repository.TxFunc) error {
	m.tx.Lock()
	defer m.tx.Unlock()

	m.mu.Lock()
	saved := make(map[int64]model.Booking, len(m.rows))
	for id, booking := range m.rows {
		saved[id] = booking
	}
	savedNext := m.next
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.rows = saved
		m.next = savedNext
		m.mu.Unlock()

		return err
	}

	return nil
}

func (m *MemoryBooking) LockResource(_ context.Context, _ *sqlx.Tx, resourceID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Locks = append(m.Locks, resourceID)

	return nil
}

func (m *MemoryBooking) FindOverlapping(_ context.Context, _ *sqlx.Tx, query model.ConflictQuery) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []model.Booking

	for _, booking := range m.sorted() {
		if query.Blocks(booking) {
			found = append(found, booking)
		}
	}

	model.SortByStart(found)

	return found, nil
}

func (m *MemoryBooking) InsertReturningTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailInsert != nil {
		err := m.FailInsert
		m.FailInsert = nil

		return 0, err
	}

	m.next++
	booking.ID = m.next

	if err := m.exclusion(booking); err != nil {
		m.next--

		return 0, err
	}

	m.rows[booking.ID] = booking

	return booking.ID, nil
}

func (m *MemoryBooking) Get(_ context.Context, filter dto.FilterGroup, _ ...string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.sorted() {
		if matches(booking, filter) {
			return booking, nil
		}
	}

	return model.Booking{}, nil
}

func (m *MemoryBooking) GetTx(ctx context.Context, _ *sqlx.Tx, filter dto.FilterGroup, _ bool, columns ...string) (model.Booking, error) {
	return m.Get(ctx, filter, columns...)
}

func (m *MemoryBooking) GetAll(_ context.Context, _ dto.QueryParams, filter dto.FilterGroup, _ ...string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []model.Booking

	for _, booking := range m.sorted() {
		if matches(booking, filter) {
			found = append(found, booking)
		}
	}

	return found, nil
}

func (m *MemoryBooking) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	found, err := m.GetAll(ctx, dto.QueryParams{}, filter)

	return len(found) > 0, err
}

func (m *MemoryBooking) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	found, err := m.GetAll(ctx, dto.QueryParams{}, filter)

	return len(found), err
}

func (m *MemoryBooking) UpdateTx(_ context.Context, _ *sqlx.Tx, req map[string]any, filter dto.FilterGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated := map[int64]model.Booking{}

	for _, booking := range m.sorted() {
		if !matches(booking, filter) {
			continue
		}

		for column, value := range req {
			assign(reflect.ValueOf(&booking).Elem(), column, value)
		}

		updated[booking.ID] = booking
	}

	for _, booking := range updated {
		if err := m.exclusion(booking); err != nil {
			return err
		}
	}

	for id, booking := range updated {
		m.rows[id] = booking
	}

	return nil
}

func (m *MemoryBooking) OverrideTx(ctx context.Context, sqltx *sqlx.Tx, ids []int64, actor string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	return m.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldStatus:        model.StatusCancelledOverridden.String(),
		model.FieldAdminID:       actor,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: actor,
	}, dto.FilterGroup{
		Filters:  []any{dto.Filter{Field: model.FieldID, Operator: dto.FilterOperatorIn, Value: ids}},
		Operator: dto.FilterGroupOperatorAnd,
	})
}

func (m *MemoryBooking) Delete(_ context.Context, filter dto.FilterGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, booking := range m.sorted() {
		if matches(booking, filter) {
			delete(m.rows, booking.ID)
		}
	}

	return nil
}

func (m *MemoryBooking) CompleteElapsed(_ context.Context, cutoff, at time.Time, actor string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64

	for _, booking := range m.sorted() {
		if booking.Status != model.StatusConfirmed || booking.EndDateTime.After(cutoff) {
			continue
		}

		booking.Status = model.StatusCompleted
		booking.ModifiedAt = at
		booking.ModifiedBy = actor
		m.rows[booking.ID] = booking

		ids = append(ids, booking.ID)
	}

	return ids, nil
}

func (m *MemoryBooking) sorted() []model.Booking {
	rows := make([]model.Booking, 0, len(m.rows))
	for _, booking := range m.rows {
		rows = append(rows, booking)
	}

	slices.SortFunc(rows, func(a, b model.Booking) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return rows
}

// exclusion mirrors the bookings_no_double_confirm constraint.
func (m *MemoryBooking) exclusion(candidate model.Booking) error {
	if candidate.Status != model.StatusConfirmed {
		return nil
	}

	for _, existing := range m.rows {
		if existing.ID == candidate.ID || existing.ResourceID != candidate.ResourceID {
			continue
		}

		if existing.Status == model.StatusConfirmed && existing.Interval().Overlaps(candidate.Interval()) {
			return &pq.Error{Code: constant.PqErrorCodeExclusion, Message: "conflicting key value violates exclusion constraint"}
		}
	}

	return nil
}

// matches evaluates the eq, eq_fold and in filters of an AND group against booking.
func matches(booking model.Booking, filter dto.FilterGroup) bool {
	row := reflect.ValueOf(booking)

	for _, raw := range filter.Filters {
		f, ok := raw.(dto.Filter)
		if !ok {
			continue
		}

		field, ok := column(row, f.Field)
		if !ok {
			continue
		}

		var got any
		if field.Kind() != reflect.Pointer || !field.IsNil() {
			got = reflect.Indirect(field).Interface()
		}

		if status, isStatus := got.(model.Status); isStatus {
			got = status.String()
		}

		switch f.Operator {
		case dto.FilterOperatorEq:
			if !reflect.DeepEqual(got, f.Value) {
				return false
			}
		case dto.FilterOperatorEqFold:
			text, _ := got.(string)
			want, _ := f.Value.(string)

			if !strings.EqualFold(text, want) {
				return false
			}
		case dto.FilterOperatorIn:
			values := reflect.ValueOf(f.Value)
			found := false

			for i := range values.Len() {
				if reflect.DeepEqual(got, values.Index(i).Interface()) {
					found = true

					break
				}
			}

			if !found {
				return false
			}
		}
	}

	return true
}

func column(row reflect.Value, name string) (reflect.Value, bool) {
	for i := range row.NumField() {
		field := row.Type().Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if nested, ok := column(row.Field(i), name); ok {
				return nested, true
			}

			continue
		}

		if field.Tag.Get("db") == name {
			return row.Field(i), true
		}
	}

	return reflect.Value{}, false
}

func assign(row reflect.Value, name string, value any) {
	field, ok := column(row, name)
	if !ok {
		return
	}

	v := reflect.ValueOf(value)
	if !v.IsValid() {
		field.Set(reflect.Zero(field.Type()))

		return
	}

	if field.Kind() == reflect.Pointer && v.Kind() != reflect.Pointer {
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(v.Convert(field.Type().Elem()))
		field.Set(ptr)

		return
	}

	field.Set(v.Convert(field.Type()))
}
