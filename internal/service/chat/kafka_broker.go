package chat

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker layers cross-instance fan-out over the standalone broker.
// Socket lifecycle and room membership stay local; frames that must
// reach every instance travel through the chat topic.
type KafkaBroker struct {
	*StandaloneServer

	writer *kafka.Writer
	reader *kafka.Reader

	cancel context.CancelFunc
	once   sync.Once
}

// NewKafkaBroker wraps the local broker with the given producer and
// consumer.
func NewKafkaBroker(local *StandaloneServer, writer *kafka.Writer, reader *kafka.Reader) *KafkaBroker {
	return &KafkaBroker{StandaloneServer: local, writer: writer, reader: reader}
}

// Publish serializes the frame onto the topic; the consume loop on each
// instance (this one included) feeds it back into the local fan-out.
func (b *KafkaBroker) Publish(frame *Frame) error {
	value, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return b.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(strconv.FormatInt(frame.UserID, 10)),
		Value: value,
	})
}

// Start runs the consume loop alongside the local event loop.
func (b *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.consumeLoop(ctx)
	b.StandaloneServer.Start()
}

func (b *KafkaBroker) Close() error {
	b.once.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		logKafkaError("writer close", b.writer.Close())
		logKafkaError("reader close", b.reader.Close())
	})
	return b.StandaloneServer.Close()
}

func (b *KafkaBroker) consumeLoop(ctx context.Context) {
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logKafkaError("read", err)
			continue
		}
		var frame Frame
		if err := json.Unmarshal(msg.Value, &frame); err != nil {
			zap.L().Error("malformed kafka frame", zap.Error(err))
			continue
		}
		// Only fan-out frames travel the topic; route them through the
		// local machinery.
		b.StandaloneServer.Dispatch(&frame)
	}
}
