package kafka_test

import (
	"context"
	"testing"

	"hostel/config"
	"hostel/infras/kafka"
	otelMocks "hostel/infras/otel/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:   "RCR-000001",
		Value: map[string]string{"type": "room_change.submitted"},
	}

	kafkaMsg, err := msg.ToKafkaMessage("room-change-events")

	require.NoError(t, err)
	assert.Equal(t, "room-change-events", kafkaMsg.Topic)
	assert.Equal(t, []byte("RCR-000001"), kafkaMsg.Key)
	assert.JSONEq(t, `{"type":"room_change.submitted"}`, string(kafkaMsg.Value))
}

func TestMessage_ToKafkaMessage_Unmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("topic")

	assert.Error(t, err)
}

func TestNew_DisabledClientDropsMessages(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = false

	client := kafka.New(cfg, otelMocks.NewOtel())

	err := client.SendMessages(context.Background(), "room-change-events", kafka.Message{Key: "k", Value: 1})
	assert.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestNew_EnabledWithoutBrokersIsDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true

	client := kafka.New(cfg, otelMocks.NewOtel())

	assert.NoError(t, client.SendMessages(context.Background(), "topic"))
}
