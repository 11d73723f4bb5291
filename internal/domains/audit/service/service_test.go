package service_test

import (
	"context"
	"errors"
	"testing"

	"campusbook/config"
	kafkaMocks "campusbook/infras/kafka/mocks"
	otelMocks "campusbook/infras/otel/mocks"
	"campusbook/infras/kafka"
	auditMocks "campusbook/internal/domains/audit/mocks"
	"campusbook/internal/domains/audit/model"
	"campusbook/internal/domains/audit/model/dto"
	"campusbook/internal/domains/audit/service"
	gDto "campusbook/shared/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newService(t *testing.T) (service.Audit, *auditMocks.MockAudit, *kafkaMocks.MockClient) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Kafka.AuditTopic = "booking.audit"

	repo := auditMocks.NewMockAudit(ctrl)
	client := kafkaMocks.NewMockClient(ctrl)

	return service.New(repo, client, cfg, otelMocks.NewOtel()), repo, client
}

func TestAuditService_Record(t *testing.T) {
	svc, repo, client := newService(t)

	var stored model.Entry

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, entry model.Entry) error {
		stored = entry

		return nil
	})
	client.EXPECT().Enabled().Return(true)
	client.EXPECT().
		SendMessages(gomock.Any(), "booking.audit", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			require.Len(t, messages, 1)
			assert.Equal(t, "12", messages[0].Key)

			event, ok := messages[0].Value.(dto.AuditEvent)
			require.True(t, ok)
			assert.Equal(t, "Status changed to Denied", event.Action)
			assert.Equal(t, "Reason: clash with exams", *event.Details)

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Record(ctx, model.Entry{
		BookingID: 12,
		ActorID:   "admin-1",
		Action:    "Status changed to Denied",
		Details:   service.Details("Reason: clash with exams"),
	})
	cancel()
	svc.Wait()

	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, int64(12), stored.BookingID)
}

func TestAuditService_Record_FailuresAreSwallowed(t *testing.T) {
	svc, repo, client := newService(t)

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	client.EXPECT().Enabled().Return(true)
	client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	svc.Record(context.Background(), model.Entry{BookingID: 3, ActorID: "system", Action: "Booking deleted"})
	svc.Wait()
}

func TestAuditService_Record_KafkaDisabled(t *testing.T) {
	svc, repo, client := newService(t)

	repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	client.EXPECT().Enabled().Return(false)

	svc.Record(context.Background(), model.Entry{BookingID: 3, ActorID: "system", Action: "Booking deleted"})
	svc.Wait()
}

func TestAuditService_GetAll(t *testing.T) {
	svc, repo, _ := newService(t)

	entries := []model.Entry{{ID: uuid.New(), BookingID: 1, ActorID: "admin-1", Action: "Booking created with status Confirmed"}}

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Entry, error) {
			assert.Equal(t, model.FieldCreatedAt, params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)

			return entries, nil
		})

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	require.Len(t, res.AuditLogs, 1)
	assert.Equal(t, "admin-1", res.AuditLogs[0].ActorID)
}

func TestDetails(t *testing.T) {
	assert.Nil(t, service.Details(""))
	assert.Equal(t, "x", *service.Details("x"))
}
