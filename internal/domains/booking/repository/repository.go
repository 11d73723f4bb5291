package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"campusbook/infras/otel"
	"campusbook/infras/postgres"
	"campusbook/internal/domains/booking/model"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
	"campusbook/shared/logger"
	gRepo "campusbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

const (
	argWindowStart = "window_start"
	argWindowEnd   = "window_end"
	argExcludeID   = "exclude_id"
	argBlocking    = "blocking"
)

type Booking interface {
	WithTransaction(ctx context.Context, fn gRepo.TxFunc) error
	LockResource(ctx context.Context, sqltx *sqlx.Tx, resourceID int64) error
	FindOverlapping(ctx context.Context, sqltx *sqlx.Tx, query model.ConflictQuery) ([]model.Booking, error)
	InsertReturningTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, forUpdate bool, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	OverrideTx(ctx context.Context, sqltx *sqlx.Tx, ids []int64, actor string, at time.Time) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	CompleteElapsed(ctx context.Context, cutoff, at time.Time, actor string) ([]int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockResource serializes writers of one resource until sqltx ends.
func (r *repositoryImpl) LockResource(ctx context.Context, sqltx *sqlx.Tx, resourceID int64) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockResource")
	defer scope.End()

	scope.SetAttribute("resource_id", resourceID)

	if _, err := sqltx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", resourceID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock resource %d: %w", resourceID, err)
	}

	return nil
}

// OverlapFilter is the SQL form of ConflictQuery.Blocks.
func OverlapFilter(query model.ConflictQuery) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldResourceID, Operator: gDto.FilterOperatorEq, Value: query.ResourceID, Table: model.TableName},
		gDto.Filter{ArgName: argBlocking, Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: query.Blocking.Values(), Table: model.TableName},
		gDto.Filter{ArgName: argWindowEnd, Field: model.FieldStartDateTime, Operator: gDto.FilterOperatorLess, Value: query.Window.End, Table: model.TableName},
		gDto.Filter{ArgName: argWindowStart, Field: model.FieldEndDateTime, Operator: gDto.FilterOperatorGreater, Value: query.Window.Start, Table: model.TableName},
	}

	if query.ExcludeID != 0 {
		filters = append(filters, gDto.Filter{ArgName: argExcludeID, Field: model.FieldID, Operator: gDto.FilterOperatorNotEq, Value: query.ExcludeID, Table: model.TableName})
	}

	return gDto.FilterGroup{
		Filters:  filters,
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

// FindOverlapping reads inside sqltx, or from the read pool when sqltx is nil.
func (r *repositoryImpl) FindOverlapping(ctx context.Context, sqltx *sqlx.Tx, query model.ConflictQuery) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()

	if len(query.Blocking) == 0 {
		return nil, nil
	}

	params := gDto.QueryParams{SortBy: model.FieldStartDateTime, SortDir: "ASC"}
	filter := OverlapFilter(query)

	if sqltx == nil {
		return r.GetAll(ctx, params, filter) //nolint:wrapcheck
	}

	return r.GetAllTx(ctx, sqltx, params, filter) //nolint:wrapcheck
}

// OverrideTx moves the displaced bookings to Cancelled - Overridden.
func (r *repositoryImpl) OverrideTx(ctx context.Context, sqltx *sqlx.Tx, ids []int64, actor string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OverrideTx")
	defer scope.End()

	if len(ids) == 0 {
		return nil
	}

	changes, filter := overrideUpdate(ids, actor, at)

	return r.UpdateTx(ctx, sqltx, changes, filter) //nolint:wrapcheck
}

func overrideUpdate(ids []int64, actor string, at time.Time) (map[string]any, gDto.FilterGroup) {
	changes := map[string]any{
		model.FieldStatus:        model.StatusCancelledOverridden.String(),
		model.FieldAdminID:       actor,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: actor,
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorIn, Value: ids, Table: model.TableName},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}

	return changes, filter
}

// CompleteElapsed marks every Confirmed booking that ended at or before cutoff as Completed.
func (r *repositoryImpl) CompleteElapsed(ctx context.Context, cutoff, at time.Time, actor string) ([]int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CompleteElapsed")
	defer scope.End()

	query := completeElapsedQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var ids []int64

	err := r.db.Write.SelectContext(ctx, &ids, query,
		model.StatusCompleted.String(), at, actor,
		model.StatusConfirmed.String(), cutoff,
	)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to complete elapsed bookings: %w", err)
	}

	return ids, nil
}

// completeElapsedQuery binds completed status, modified at, modified by, confirmed status, cutoff.
func completeElapsedQuery() string {
	return fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = $2, %s = $3 WHERE %s = $4 AND %s <= $5 RETURNING %s",
		model.TableName,
		model.FieldStatus, constant.FieldModifiedAt, constant.FieldModifiedBy,
		model.FieldStatus, model.FieldEndDateTime, model.FieldID,
	)
}
