package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Resource=MockResourceService

import (
	"context"
	"fmt"

	"campusbook/config"
	"campusbook/infras/otel"
	bookingModel "campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/resolver"
	"campusbook/internal/domains/resource/model"
	"campusbook/internal/domains/resource/model/dto"
	"campusbook/internal/domains/resource/repository"
	"campusbook/shared"
	"campusbook/shared/cache"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
	"campusbook/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetResource    = "resource:get"
	cacheGetAllResource = "resource:gets"
	cacheCountResource  = "resource:count"
)

type Resource interface {
	GetAll(ctx context.Context, req gDto.QueryParams, search string) (dto.GetResourcesResponse, error)
	Get(ctx context.Context, id int64) (dto.ResourceResponse, error)
	Lookup(ctx context.Context, id int64) (model.Resource, error)
	Availability(ctx context.Context, id int64, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo     repository.Resource
	resolver resolver.Resolver
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Resource, resolver resolver.Resolver, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Resource {
	return &serviceImpl{
		repo:     repo,
		resolver: resolver,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// DirectoryFilter selects active resources, optionally matching search on name, type or location.
func DirectoryFilter(search string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if search == constant.Empty {
		return filter
	}

	filter.Filters = append(filter.Filters, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{ArgName: "q_name", Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			gDto.Filter{ArgName: "q_type", Field: model.FieldType, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
			gDto.Filter{ArgName: "q_location", Field: model.FieldLocation, Operator: gDto.FilterOperatorLike, Value: search, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorOr,
	})

	return filter
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, search string) (res dto.GetResourcesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(model.SortableFields, model.FieldName, gDto.SortDirAsc)
	filter := DirectoryFilter(search)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllResource, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resources")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count resources")

		return res, fmt.Errorf("failed to count resources: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get resources")

		return res, fmt.Errorf("failed to get resources: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resources to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountResource, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count resources: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resource count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.ResourceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetResource, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for resource")

		return res, nil
	}

	resource, err := s.Lookup(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(resource)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save resource to cache")
		}
	}()

	return res, nil
}

// Lookup reads the directory entry uncached. Inactive resources are returned; callers decide.
func (s *serviceImpl) Lookup(ctx context.Context, id int64) (res model.Resource, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Lookup")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("resource_id", id).Msg("failed to get resource")

		return res, fmt.Errorf("failed to get resource: %w", err)
	}

	if res.ID == 0 {
		return res, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) Availability(ctx context.Context, id int64, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resource.Availability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err := req.Window()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	resource, err := s.Lookup(ctx, id)
	if err != nil {
		return res, err
	}

	if !resource.Active {
		return res, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	bookings, err := s.resolver.Resolve(ctx, nil, bookingModel.ConflictQuery{
		ResourceID: resource.ID,
		Window:     window,
		Blocking:   bookingModel.StandardBlocking,
	})
	if err != nil {
		log.Error().Err(err).Int64("resource_id", id).Msg("failed to resolve availability")

		return res, fmt.Errorf("failed to resolve availability: %w", err)
	}

	res.FromModels(resource, window, bookings)

	return res, nil
}
