package resolver

//go:generate go run go.uber.org/mock/mockgen -source=./resolver.go -destination=../mocks/resolver_mock.go -package=mocks

import (
	"context"
	"fmt"

	"campusbook/infras/otel"
	"campusbook/internal/domains/booking/model"
	"campusbook/internal/domains/booking/repository"
	"campusbook/shared/constant"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Resolver finds the bookings that block a candidate window.
type Resolver interface {
	// Resolve returns blocking bookings ordered by start then id. A nil sqltx reads from the read pool.
	Resolve(ctx context.Context, sqltx *sqlx.Tx, query model.ConflictQuery) ([]model.Booking, error)
}

type resolverImpl struct {
	repo repository.Booking
	otel otel.Otel
}

func New(repo repository.Booking, otel otel.Otel) Resolver {
	return &resolverImpl{
		repo: repo,
		otel: otel,
	}
}

func (r *resolverImpl) Resolve(ctx context.Context, sqltx *sqlx.Tx, query model.ConflictQuery) (conflicts []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".resolver.Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"resource_id": query.ResourceID,
		"window":      query.Window.Start.Format(constant.WallClockFormat) + "/" + query.Window.End.Format(constant.WallClockFormat),
		"blocking":    query.Blocking.Values(),
	})

	if err = query.Window.Validate(); err != nil {
		return nil, err
	}

	candidates, err := r.repo.FindOverlapping(ctx, sqltx, query)
	if err != nil {
		log.Error().Err(err).Int64("resource_id", query.ResourceID).Msg("failed to find overlapping bookings")

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	conflicts = make([]model.Booking, 0, len(candidates))

	for _, candidate := range candidates {
		if query.Blocks(candidate) {
			conflicts = append(conflicts, candidate)
		}
	}

	model.SortByStart(conflicts)

	scope.SetAttribute("conflicts", len(conflicts))

	return conflicts, nil
}
