package handler

import "w9ayt_delivery_server/internal/service"

// Handlers aggregates every HTTP handler for the router.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Company      *CompanyHandler
	Driver       *DriverHandler
	Delivery     *DeliveryHandler
	Statistics   *StatisticsHandler
	Contact      *ContactHandler
	Conversation *ConversationHandler
	Ws           *WsHandler
}

// NewHandlers wires every handler over the service aggregate.
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Company:      NewCompanyHandler(services.Company),
		Driver:       NewDriverHandler(services.Driver),
		Delivery:     NewDeliveryHandler(services.Delivery),
		Statistics:   NewStatisticsHandler(services.Statistics),
		Contact:      NewContactHandler(services.Contact),
		Conversation: NewConversationHandler(services.Conversation),
		Ws:           NewWsHandler(services.Chat.Broker),
	}
}
