package service

import (
	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	myredis "w9ayt_delivery_server/internal/dao/redis"
	"w9ayt_delivery_server/internal/service/auth"
	"w9ayt_delivery_server/internal/service/chat"
	"w9ayt_delivery_server/internal/service/company"
	"w9ayt_delivery_server/internal/service/contact"
	"w9ayt_delivery_server/internal/service/conversation"
	"w9ayt_delivery_server/internal/service/delivery"
	"w9ayt_delivery_server/internal/service/driver"
	"w9ayt_delivery_server/internal/service/statistics"
	"w9ayt_delivery_server/internal/service/user"
)

// Services aggregates every business service plus the realtime server.
// The handler layer is injected with this and nothing else.
type Services struct {
	Auth         AuthService
	User         UserService
	Company      CompanyService
	Driver       DriverService
	Delivery     DeliveryService
	Statistics   StatisticsService
	Contact      ContactService
	Conversation ConversationService

	Chat *chat.ChatServer
}

// NewServices wires the service graph. The conversation service and the
// chat broker reference each other, so the broker's message sender is
// set after both exist.
func NewServices(cfg *config.Config, repos *repository.Repositories, cache myredis.ChatCache) (*Services, error) {
	chatServer, err := chat.NewChatServer(cfg, repos, cache)
	if err != nil {
		return nil, err
	}

	conversationService := conversation.NewConversationService(repos, cache, chatServer.Broker)
	chatServer.SetMessageSender(conversationService)

	return &Services{
		Auth:         auth.NewAuthService(repos, cache),
		User:         user.NewUserService(repos),
		Company:      company.NewCompanyService(repos),
		Driver:       driver.NewDriverService(repos),
		Delivery:     delivery.NewDeliveryService(repos),
		Statistics:   statistics.NewStatisticsService(repos),
		Contact:      contact.NewContactService(repos),
		Conversation: conversationService,
		Chat:         chatServer,
	}, nil
}
