package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	auditModel "campusbook/internal/domains/audit/model"
	auditService "campusbook/internal/domains/audit/service"
	"campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/model/dto"
	"campusbook/permissions"
	"campusbook/shared"
	"campusbook/shared/constant"
	"campusbook/shared/failure"
	"campusbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// guard inspects the locked booking before a transition is applied.
type guard func(current model.Booking) error

func (s *serviceImpl) UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if !actor.Role.CanManageStatus() {
		return res, failure.Forbidden("only administrators can change booking status") // nolint:wrapcheck
	}

	target, err := model.ParseStatus(req.Status)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !target.Settable() {
		return res, failure.Unprocessable(fmt.Sprintf("status %s cannot be set directly", target)) // nolint:wrapcheck
	}

	reason := strings.TrimSpace(req.DenialReason)
	if target == model.StatusDenied && reason == constant.Empty {
		reason = model.DefaultDenialReason
	}

	updated, err := s.transition(ctx, actor, id, target, reason, nil)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

// Cancel lets the person in charge, or an administrator, withdraw a booking that has not started.
func (s *serviceImpl) Cancel(ctx context.Context, id int64, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)

	owner := func(current model.Booking) error {
		if actor.Role.CanManageStatus() || strings.EqualFold(current.InchargeEmail, actor.Email) {
			return nil
		}

		return failure.Forbidden("only the person in charge can cancel this booking") // nolint:wrapcheck
	}

	updated, err := s.transition(ctx, actor, id, model.StatusCancelled, strings.TrimSpace(req.Reason), owner)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

// transition moves booking id to target under its resource lock.
func (s *serviceImpl) transition(
	ctx context.Context,
	actor permissions.Actor,
	id int64,
	target model.Status,
	reason string,
	check guard,
) (model.Booking, error) {
	var updated model.Booking

	err := s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if check != nil {
			if err := check(current); err != nil {
				return err
			}
		}

		if !current.Status.CanTransitionTo(target) {
			return failure.Unprocessable( // nolint:wrapcheck
				fmt.Sprintf("cannot change status from %s to %s", current.Status, target),
			)
		}

		if target == model.StatusCancelled && !current.StartDateTime.After(timezone.WallClockNow()) {
			return failure.Unprocessable("only bookings that have not started can be cancelled") // nolint:wrapcheck
		}

		if target == model.StatusConfirmed && s.cfg.Booking.RevalidateOnApprove {
			if err := s.ensureFree(ctx, sqltx, current); err != nil {
				return err
			}
		}

		now := timezone.Now()
		changes := map[string]any{
			model.FieldStatus:        target.String(),
			model.FieldAdminID:       actor.ID,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor.ID,
		}

		updated = current
		updated.Status = target
		updated.AdminID = &actor.ID
		updated.ModifiedAt = now
		updated.ModifiedBy = actor.ID

		if target == model.StatusDenied {
			changes[model.FieldDenialReason] = reason
			updated.DenialReason = &reason
		}

		return s.repo.UpdateTx(ctx, sqltx, changes, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if err != nil {
		return updated, s.classify(err, "update booking status")
	}

	log.Info().
		Int64("booking_id", id).
		Str("status", target.String()).
		Str("actor", actor.ID).
		Msg("booking status changed")

	details := constant.Empty
	if reason != constant.Empty {
		details = "Reason: " + reason
	}

	s.audit.Record(ctx, auditModel.Entry{
		BookingID: id,
		ActorID:   actor.ID,
		Action:    "Status changed to " + target.String(),
		Details:   auditService.Details(details),
	})

	s.invalidate(ctx, id)

	return updated, nil
}

// lockBooking takes the resource lock of booking id, then reads the row for update.
func (s *serviceImpl) lockBooking(ctx context.Context, sqltx *sqlx.Tx, id int64, extraResources ...int64) (model.Booking, error) {
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.GetTx(ctx, sqltx, filter, false)
	if err != nil {
		return current, err //nolint:wrapcheck
	}

	if current.ID == 0 {
		return current, failure.NotFound(msgBookingMissing) // nolint:wrapcheck
	}

	for _, resourceID := range lockOrder(append([]int64{current.ResourceID}, extraResources...)...) {
		if err := s.repo.LockResource(ctx, sqltx, resourceID); err != nil {
			return current, err //nolint:wrapcheck
		}
	}

	current, err = s.repo.GetTx(ctx, sqltx, filter, true)
	if err != nil {
		return current, err //nolint:wrapcheck
	}

	if current.ID == 0 {
		return current, failure.NotFound(msgBookingMissing) // nolint:wrapcheck
	}

	return current, nil
}

// lockOrder returns the distinct resource ids ascending so concurrent writers lock in the same order.
func lockOrder(ids ...int64) []int64 {
	ordered := slices.Clone(ids)
	slices.Sort(ordered)

	return slices.Compact(ordered)
}

// ensureFree rejects booking when a Confirmed booking other than itself overlaps its window.
func (s *serviceImpl) ensureFree(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error {
	conflicts, err := s.resolver.Resolve(ctx, sqltx, model.ConflictQuery{
		ResourceID: booking.ResourceID,
		Window:     booking.Interval(),
		ExcludeID:  booking.ID,
		Blocking:   model.StandardBlocking,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(conflicts) == 0 {
		return nil
	}

	name := fmt.Sprintf("Resource #%d", booking.ResourceID)
	if resource, err := s.resources.Lookup(ctx, booking.ResourceID); err == nil {
		name = resource.Name
	}

	return failure.Conflict(model.ConflictMessage(name, booking.Interval(), conflicts)) // nolint:wrapcheck
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if !actor.Role.CanManageStatus() {
		return res, failure.Forbidden("only administrators can edit bookings") // nolint:wrapcheck
	}

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("no fields to update") // nolint:wrapcheck
	}

	var extra []int64
	if req.ResourceID != nil {
		extra = append(extra, *req.ResourceID)
	}

	var updated model.Booking

	err = s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.lockBooking(ctx, sqltx, id, extra...)
		if err != nil {
			return err
		}

		if current.Status.IsTerminal() {
			return failure.Unprocessable(fmt.Sprintf("a %s booking can no longer be edited", current.Status)) // nolint:wrapcheck
		}

		next, changes, err := req.Apply(current)
		if err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}

		if err := next.Interval().Validate(); err != nil {
			return failure.BadRequest(err) // nolint:wrapcheck
		}

		if req.ResourceID != nil || req.ParticipantCount != nil {
			if _, err := s.bookableResource(ctx, next.ResourceID, next.ParticipantCount); err != nil {
				return err
			}
		}

		if req.Reschedules() {
			if err := s.ensureFree(ctx, sqltx, next); err != nil {
				return err
			}
		}

		now := timezone.Now()
		changes[constant.FieldModifiedAt] = now
		changes[constant.FieldModifiedBy] = actor.ID

		next.ModifiedAt = now
		next.ModifiedBy = actor.ID
		updated = next

		return s.repo.UpdateTx(ctx, sqltx, changes, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
	})
	if err != nil {
		return res, s.classify(err, "update booking")
	}

	s.audit.Record(ctx, auditModel.Entry{
		BookingID: id,
		ActorID:   actor.ID,
		Action:    "Booking updated",
	})

	s.invalidate(ctx, id)

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if !actor.Role.CanManageStatus() {
		return failure.Forbidden("only administrators can delete bookings") // nolint:wrapcheck
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		return failure.NotFound(msgBookingMissing) // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.audit.Record(ctx, auditModel.Entry{
		BookingID: id,
		ActorID:   actor.ID,
		Action:    "Booking deleted",
	})

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) CompleteElapsed(ctx context.Context) (completed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CompleteElapsed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	grace := time.Duration(s.cfg.Booking.CompletionGraceMinutes) * time.Minute
	cutoff := timezone.WallClockNow().Add(-grace)

	ids, err := s.repo.CompleteElapsed(ctx, cutoff, timezone.Now(), constant.ActorSystem)
	if err != nil {
		log.Error().Err(err).Msg("failed to complete elapsed bookings")

		return 0, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}

	for _, id := range ids {
		s.audit.Record(ctx, auditModel.Entry{
			BookingID: id,
			ActorID:   constant.ActorSystem,
			Action:    "Status changed to " + model.StatusCompleted.String(),
		})
	}

	if len(ids) > 0 {
		s.invalidate(ctx, ids...)
	}

	log.Info().Int("completed", len(ids)).Time("cutoff", cutoff).Msg("completion sweep finished")

	return len(ids), nil
}
