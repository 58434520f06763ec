package chat

import (
	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	myredis "w9ayt_delivery_server/internal/dao/redis"
)

// ChatServer owns the broker selected by configuration.
type ChatServer struct {
	Broker Broker

	local *StandaloneServer
}

// NewChatServer builds the broker for the configured message mode:
// "channel" keeps everything in-process, "kafka" adds cross-instance
// fan-out through the chat topic.
func NewChatServer(cfg *config.Config, repos *repository.Repositories, cache myredis.ChatCache) (*ChatServer, error) {
	local := NewStandaloneServer(repos, cache)

	if cfg.KafkaConfig.MessageMode == "kafka" {
		if err := EnsureChatTopic(cfg.KafkaConfig); err != nil {
			return nil, err
		}
		broker := NewKafkaBroker(local,
			NewChatWriter(cfg.KafkaConfig),
			NewChatReader(cfg.KafkaConfig))
		zap.L().Info("chat broker started in kafka mode",
			zap.String("topic", cfg.KafkaConfig.ChatTopic))
		return &ChatServer{Broker: broker, local: local}, nil
	}

	zap.L().Info("chat broker started in channel mode")
	return &ChatServer{Broker: local, local: local}, nil
}

// SetMessageSender must be called before Start.
func (s *ChatServer) SetMessageSender(sender MessageSender) {
	s.local.SetMessageSender(sender)
}

// Start blocks; run it on its own goroutine.
func (s *ChatServer) Start() {
	s.Broker.Start()
}

func (s *ChatServer) Close() error {
	return s.Broker.Close()
}
