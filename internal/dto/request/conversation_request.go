package request

// CreateConversationRequest lazily creates (or returns) the chat
// thread for one delivery.
type CreateConversationRequest struct {
	DeliveryID uint `json:"delivery_id" binding:"required"`
}
