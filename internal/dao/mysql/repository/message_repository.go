package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates the message Repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "create message")
	}
	return nil
}

// FindByConversation returns the full history in canonical order:
// created_at ascending, id as the equal-timestamp tiebreak.
func (r *messageRepository) FindByConversation(conversationID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "list messages conversation_id=%d", conversationID)
	}
	return messages, nil
}

func (r *messageRepository) FindLastByConversation(conversationID uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "last message conversation_id=%d", conversationID)
	}
	return &message, nil
}

func (r *messageRepository) FindByAttachment(filename string) (*model.Message, error) {
	var message model.Message
	if err := r.db.Where("attachment_url LIKE ?", "%/"+filename).
		First(&message).Error; err != nil {
		return nil, wrapDBErrorf(err, "find message attachment=%s", filename)
	}
	return &message, nil
}
