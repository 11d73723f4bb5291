package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Audit=MockAuditService

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"campusbook/config"
	"campusbook/infras/kafka"
	"campusbook/infras/otel"
	"campusbook/internal/domains/audit/model"
	"campusbook/internal/domains/audit/model/dto"
	"campusbook/internal/domains/audit/repository"
	"campusbook/shared/constant"
	gDto "campusbook/shared/dto"
	"campusbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SortableFields are the columns an audit listing may order by.
var SortableFields = []string{model.FieldCreatedAt, model.FieldBookingID, model.FieldActorID}

type Audit interface {
	// Record stores entry in the background. Failures are logged, never returned.
	Record(ctx context.Context, entry model.Entry)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditLogsResponse, error)
	// Wait blocks until every pending Record has finished.
	Wait()
}

type serviceImpl struct {
	repo    repository.Audit
	kafka   kafka.Client
	cfg     *config.Config
	otel    otel.Otel
	pending sync.WaitGroup
}

func New(repo repository.Audit, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Audit {
	return &serviceImpl{
		repo:  repo,
		kafka: kafka,
		cfg:   cfg,
		otel:  otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry model.Entry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = timezone.Now()
	}

	s.pending.Add(1)

	go func() {
		defer s.pending.Done()

		s.write(context.WithoutCancel(ctx), entry)
	}()
}

func (s *serviceImpl) write(ctx context.Context, entry model.Entry) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"booking_id": entry.BookingID,
		"action":     entry.Action,
	})

	if err := s.repo.Insert(ctx, entry); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", entry.BookingID).Str("action", entry.Action).Msg("failed to write audit entry")
	}

	if !s.kafka.Enabled() {
		return
	}

	var event dto.AuditEvent
	event.FromModel(entry)

	message := kafka.Message{Key: strconv.FormatInt(entry.BookingID, 10), Value: event}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.AuditTopic, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("booking_id", entry.BookingID).Msg("failed to publish audit event")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.RestrictSort(SortableFields, model.FieldCreatedAt, gDto.SortDirDesc)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Wait() {
	s.pending.Wait()
}

// Details wraps text for Entry.Details, mapping empty to nil.
func Details(text string) *string {
	if text == constant.Empty {
		return nil
	}

	return &text
}
