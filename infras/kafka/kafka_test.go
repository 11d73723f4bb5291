package kafka_test

import (
	"context"
	"testing"

	"campusbook/config"
	"campusbook/infras/kafka"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditEvent struct {
	BookingID int64  `json:"booking_id"`
	Action    string `json:"action"`
}

func TestMessageRoundTrip(t *testing.T) {
	message := kafka.Message{Key: "42", Value: auditEvent{BookingID: 42, Action: "Status changed to Confirmed"}}

	encoded, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), encoded.Key)
	assert.JSONEq(t, `{"booking_id":42,"action":"Status changed to Confirmed"}`, string(encoded.Value))

	decoded, err := kafka.DecodeKafkaMessage[auditEvent](encoded)
	require.NoError(t, err)
	assert.Equal(t, "42", decoded.Key)
	assert.Equal(t, auditEvent{BookingID: 42, Action: "Status changed to Confirmed"}, decoded.Value)
}

func TestMessageErrors(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage()
	assert.Error(t, err)

	_, err = kafka.DecodeKafkaMessage[auditEvent](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true

	client := kafka.New(cfg)

	assert.False(t, client.Enabled(), "no brokers configured")
	assert.NoError(t, client.SendMessages(context.Background(), "booking.audit", kafka.Message{Key: "1", Value: 1}))
	assert.NoError(t, client.Close())
}

func TestClose_RejectsFurtherSends(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Brokers = []string{"localhost:9092"}

	client := kafka.New(cfg)
	require.True(t, client.Enabled())
	require.NoError(t, client.Close())

	err := client.SendMessages(context.Background(), "booking.audit", kafka.Message{Key: "1", Value: 1})
	assert.ErrorIs(t, err, kafka.ErrClientClosed)
}
