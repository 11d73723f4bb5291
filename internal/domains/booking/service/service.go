package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"campusbook/config"
	"campusbook/infras/otel"
	auditModel "campusbook/internal/domains/audit/model"
	auditService "campusbook/internal/domains/audit/service"
	"campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/model/dto"
	"campusbook/internal/domains/booking/repository"
	"campusbook/internal/domains/booking/resolver"
	resourceModel "campusbook/internal/domains/resource/model"
	resourceService "campusbook/internal/domains/resource/service"
	"campusbook/permissions"
	"campusbook/shared"
	"campusbook/shared/cache"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
	"campusbook/shared/failure"
	"campusbook/shared/reference"
	gRepo "campusbook/shared/repository"
	"campusbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	msgOverlapsConfirmed = "booking overlaps a confirmed booking on the same resource"
	msgResourceMissing   = "resource not found"
	msgBookingMissing    = "booking not found"
)

// SortableFields are the columns a booking listing may order by.
var SortableFields = []string{
	model.FieldStartDateTime,
	model.FieldEndDateTime,
	model.FieldEventName,
	model.FieldStatus,
	constant.FieldCreatedAt,
}

type Booking interface {
	CreateDirect(ctx context.Context, req dto.CreateDirectBookingRequest) (dto.BookingResponse, error)
	CreateRequest(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreatePriority(ctx context.Context, req dto.CreateBookingRequest) (dto.PriorityBookingResponse, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id int64, req dto.CancelBookingRequest) (dto.BookingResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, id int64) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	// CompleteElapsed moves finished Confirmed bookings to Completed and returns how many moved.
	CompleteElapsed(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo      repository.Booking
	resolver  resolver.Resolver
	resources resourceService.Resource
	audit     auditService.Audit
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel

	// generation advances on every invalidation so Get can tell its read went stale.
	generation atomic.Uint64
}

func New(
	repo repository.Booking,
	resolver resolver.Resolver,
	resources resourceService.Resource,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		resolver:  resolver,
		resources: resources,
		audit:     audit,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) CreateDirect(ctx context.Context, req dto.CreateDirectBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateDirect")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if !actor.Role.CanCreateDirect() {
		return res, failure.Forbidden("only administrators can create confirmed bookings") // nolint:wrapcheck
	}

	booking, err := req.ToModel(actor.ID)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	created, _, err := s.create(ctx, actor, booking, model.StandardBlocking, false)
	if err != nil {
		return res, err
	}

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) CreateRequest(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreateRequest")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if actor.Email == constant.Empty {
		return res, failure.Unauthorized("missing requester identity") // nolint:wrapcheck
	}

	booking, err := req.ToModel(actor, model.StatusPendingApproval, model.ActivityGeneral)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	created, _, err := s.create(ctx, actor, booking, model.StandardBlocking, false)
	if err != nil {
		return res, err
	}

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) CreatePriority(ctx context.Context, req dto.CreateBookingRequest) (res dto.PriorityBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CreatePriority")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := permissions.ActorFromContext(ctx)
	if !actor.Role.CanOverride() {
		return res, failure.Forbidden("only placement executives can create priority bookings") // nolint:wrapcheck
	}

	booking, err := req.ToModel(actor, model.StatusConfirmed, model.ActivityPlacement)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	booking.IsUrgent = true

	created, overridden, err := s.create(ctx, actor, booking, model.OverrideBlocking, true)
	if err != nil {
		return res, err
	}

	res.Booking.FromModel(created)
	res.OverriddenBookings = len(overridden)
	res.OverriddenBookingIDs = overridden

	scope.SetAttribute("booking.overridden_ids", overridden)

	return res, nil
}

// create checks the resource and window, then resolves conflicts and inserts under the resource lock.
// With override the blocking bookings are displaced instead of rejecting the new one.
func (s *serviceImpl) create(
	ctx context.Context,
	actor permissions.Actor,
	booking model.Booking,
	blocking model.StatusSet,
	override bool,
) (model.Booking, []int64, error) {
	window := booking.Interval()
	if err := window.Validate(); err != nil {
		return booking, nil, failure.BadRequest(err) // nolint:wrapcheck
	}

	resource, err := s.bookableResource(ctx, booking.ResourceID, booking.ParticipantCount)
	if err != nil {
		return booking, nil, err
	}

	booking.Reference, err = reference.New()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate booking reference")

		return booking, nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	var overridden []int64

	err = s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.repo.LockResource(ctx, sqltx, resource.ID); err != nil {
			return err //nolint:wrapcheck
		}

		conflicts, err := s.resolver.Resolve(ctx, sqltx, model.ConflictQuery{
			ResourceID: resource.ID,
			Window:     window,
			Blocking:   blocking,
		})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if len(conflicts) > 0 && !override {
			return failure.Conflict(model.ConflictMessage(resource.Name, window, conflicts)) // nolint:wrapcheck
		}

		overridden = make([]int64, len(conflicts))
		for i, conflict := range conflicts {
			overridden[i] = conflict.ID
		}

		if err := s.repo.OverrideTx(ctx, sqltx, overridden, actor.ID, timezone.Now()); err != nil {
			return err //nolint:wrapcheck
		}

		booking.ID, err = s.repo.InsertReturningTx(ctx, sqltx, booking)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return booking, nil, s.classify(err, "create booking")
	}

	log.Info().
		Int64("booking_id", booking.ID).
		Int64("resource_id", resource.ID).
		Str("status", booking.Status.String()).
		Int("overridden", len(overridden)).
		Msg("booking created")

	s.audit.Record(ctx, auditModel.Entry{
		BookingID: booking.ID,
		ActorID:   actor.ID,
		Action:    "Booking created with status " + booking.Status.String(),
	})

	for _, id := range overridden {
		s.audit.Record(ctx, auditModel.Entry{
			BookingID: id,
			ActorID:   actor.ID,
			Action:    fmt.Sprintf("Overridden by priority booking #%d", booking.ID),
		})
	}

	s.invalidate(ctx, overridden...)

	return booking, overridden, nil
}

// bookableResource returns the resource when it exists, is active and fits participants.
func (s *serviceImpl) bookableResource(ctx context.Context, id int64, participants *int) (resourceModel.Resource, error) {
	resource, err := s.resources.Lookup(ctx, id)
	if err != nil {
		return resource, err //nolint:wrapcheck
	}

	if !resource.Active {
		return resource, failure.BadRequestFromString(resource.Name + " is not available for booking") // nolint:wrapcheck
	}

	if !resource.Admits(participants) {
		return resource, failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("%s holds at most %d participants", resource.Name, resource.Capacity),
		)
	}

	return resource, nil
}

// classify maps a failed write to its client-facing error.
func (s *serviceImpl) classify(err error, action string) error {
	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	if gRepo.IsPqError(err, constant.PqErrorCodeExclusion) {
		return failure.Conflict(msgOverlapsConfirmed) // nolint:wrapcheck
	}

	if gRepo.IsPqError(err, constant.PqErrorCodeFkViolation) {
		return failure.NotFound(msgResourceMissing) // nolint:wrapcheck
	}

	if gRepo.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
		return failure.Conflict("booking reference already taken, retry the request") // nolint:wrapcheck
	}

	log.Error().Err(err).Msg("failed to " + action)

	return fmt.Errorf("failed to %s: %w", action, err)
}

// invalidate drops the per-booking entries before returning. List and count pages are cleared in the background.
func (s *serviceImpl) invalidate(ctx context.Context, ids ...int64) {
	s.generation.Add(1)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = shared.BuildCacheKey(cacheGetBooking, id)
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Error().Err(err).Ints64("booking_ids", ids).Msg("failed to delete booking cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(SortableFields, model.FieldStartDateTime, gDto.SortDirAsc)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	generation := s.generation.Load()

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("booking_id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound(msgBookingMissing) // nolint:wrapcheck
	}

	res.FromModel(booking)

	c := context.WithoutCancel(ctx)

	if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save booking to cache")

		return res, nil
	}

	// A write committed while this read was in flight; the saved row may predate it.
	if s.generation.Load() != generation {
		if err := s.cache.Delete(c, cacheKey); err != nil {
			log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to drop stale booking cache")
		}
	}

	return res, nil
}
