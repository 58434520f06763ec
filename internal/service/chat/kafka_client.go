package chat

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
)

// EnsureChatTopic creates the chat topic if the broker does not have it
// yet, so a fresh environment needs no manual setup.
func EnsureChatTopic(cfg config.KafkaConfig) error {
	conn, err := kafka.Dial("tcp", cfg.HostPort)
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	ctrlConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer ctrlConn.Close()

	return ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.ChatTopic,
		NumPartitions:     cfg.Partition,
		ReplicationFactor: 1,
	})
}

// NewChatWriter builds the producer for the chat topic. Messages are
// keyed by user id so one user's frames stay ordered.
func NewChatWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.HostPort),
		Topic:        cfg.ChatTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: cfg.Timeout * time.Second,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// NewChatReader builds a consumer without a group id: every instance
// sees every frame, which is what room fan-out needs.
func NewChatReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.HostPort},
		Topic:       cfg.ChatTopic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.LastOffset,
	})
}

// logKafkaError centralizes producer/consumer error reporting.
func logKafkaError(op string, err error) {
	if err != nil && err != context.Canceled {
		zap.L().Error("kafka "+op+" failed", zap.Error(err))
	}
}
