// Package conversation implements the REST side of chat: lazy thread
// creation, annotated listings, history and the shared message
// persistence pipeline that both REST and socket submits go through.
package conversation

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	myredis "w9ayt_delivery_server/internal/dao/redis"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/internal/service/chat"
	"w9ayt_delivery_server/pkg/constants"
	"w9ayt_delivery_server/pkg/errorx"
	"w9ayt_delivery_server/pkg/util/snowflake"
)

const (
	maxMessageLen = 2000
	listCacheTTL  = 30 * time.Second
)

type conversationService struct {
	repos       *repository.Repositories
	cache       myredis.ChatCache
	broadcaster chat.Broadcaster
}

// NewConversationService creates the conversation service.
func NewConversationService(repos *repository.Repositories, cache myredis.ChatCache, broadcaster chat.Broadcaster) *conversationService {
	return &conversationService{repos: repos, cache: cache, broadcaster: broadcaster}
}

func listCacheKey(userID uint) string {
	return "convlist:" + strconv.FormatUint(uint64(userID), 10)
}

// membership returns the conversation when userID participates in it.
func (s *conversationService) membership(userID, conversationID uint) (*model.Conversation, error) {
	conv, err := s.repos.Conversation.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conv.ClientID != userID && conv.DriverID != userID {
		return nil, errorx.New(errorx.CodeForbidden, "not a participant of this conversation")
	}
	return conv, nil
}

func (s *conversationService) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
}

func (s *conversationService) toRespond(conv *model.Conversation) respond.ConversationRespond {
	ctx, cancel := s.ctx()
	defer cancel()

	clientOnline, err := s.cache.IsOnline(ctx, int64(conv.ClientID))
	if err != nil {
		zap.L().Warn("presence lookup failed", zap.Uint("user_id", conv.ClientID), zap.Error(err))
	}
	driverOnline, err := s.cache.IsOnline(ctx, int64(conv.DriverID))
	if err != nil {
		zap.L().Warn("presence lookup failed", zap.Uint("user_id", conv.DriverID), zap.Error(err))
	}

	return respond.ConversationRespond{
		ID:             conv.ID,
		DeliveryID:     conv.DeliveryID,
		ClientUserID:   conv.ClientID,
		DriverUserID:   conv.DriverID,
		ClientIsOnline: clientOnline,
		DriverIsOnline: driverOnline,
	}
}

// CreateOrGet returns the thread for a delivery, creating it on first
// use. A thread needs an assigned driver; before dispatch there is
// nobody to talk to.
func (s *conversationService) CreateOrGet(userID, deliveryID uint) (*respond.ConversationRespond, error) {
	delivery, err := s.repos.Delivery.FindByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if !delivery.DriverID.Valid {
		return nil, errorx.New(errorx.CodeConflict, "delivery has no driver assigned yet")
	}
	driver, err := s.repos.Driver.FindByID(uint(delivery.DriverID.Int64))
	if err != nil {
		return nil, err
	}
	if userID != delivery.ClientID && userID != driver.UserID {
		return nil, errorx.New(errorx.CodeForbidden, "not a participant of this delivery")
	}

	conv, err := s.repos.Conversation.FindByDeliveryID(deliveryID)
	if errorx.IsNotFound(err) {
		conv = &model.Conversation{
			DeliveryID: deliveryID,
			ClientID:   delivery.ClientID,
			DriverID:   driver.UserID,
		}
		if err := s.repos.Conversation.Create(conv); err != nil {
			// Lost a create race: the unique index on delivery_id means
			// the winner's row is the one to use.
			conv, err = s.repos.Conversation.FindByDeliveryID(deliveryID)
			if err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	rsp := s.toRespond(conv)
	return &rsp, nil
}

// List returns the user's threads annotated with peer, latest message
// and unread counter, newest activity first. The assembled list is
// cached briefly; sends invalidate it for both participants.
func (s *conversationService) List(userID uint) (*respond.ConversationListRespond, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	if cached, err := s.cache.Get(ctx, listCacheKey(userID)); err == nil && cached != "" {
		var rsp respond.ConversationListRespond
		if json.Unmarshal([]byte(cached), &rsp) == nil {
			return &rsp, nil
		}
	}

	convs, err := s.repos.Conversation.FindForUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]respond.ConversationListItem, 0, len(convs))
	for i := range convs {
		item, err := s.buildListItem(userID, &convs[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	// Newest activity first; threads without messages rank by creation.
	sort.SliceStable(items, func(i, j int) bool {
		ti := items[i].LastMessageAt
		tj := items[j].LastMessageAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})

	rsp := &respond.ConversationListRespond{Conversations: items}
	if raw, err := json.Marshal(rsp); err == nil {
		s.cache.SubmitTask(func() {
			ctx, cancel := s.ctx()
			defer cancel()
			if err := s.cache.Set(ctx, listCacheKey(userID), string(raw), listCacheTTL); err != nil {
				zap.L().Warn("conversation list cache set failed", zap.Uint("user_id", userID), zap.Error(err))
			}
		})
	}
	return rsp, nil
}

func (s *conversationService) buildListItem(userID uint, conv *model.Conversation) (*respond.ConversationListItem, error) {
	peerID := conv.ClientID
	if peerID == userID {
		peerID = conv.DriverID
	}
	peer, err := s.repos.User.FindByID(peerID)
	if err != nil {
		return nil, err
	}
	delivery, err := s.repos.Delivery.FindByID(conv.DeliveryID)
	if err != nil {
		return nil, err
	}

	item := &respond.ConversationListItem{
		ID:             conv.ID,
		DeliveryID:     conv.DeliveryID,
		PeerUserID:     peerID,
		PeerName:       peer.Name,
		PickupAddress:  delivery.PickupAddress,
		DropoffAddress: delivery.DropoffAddress,
		Description:    delivery.Description,
	}
	createdAt := conv.CreatedAt
	item.LastMessageAt = &createdAt

	last, err := s.repos.Message.FindLastByConversation(conv.ID)
	if err == nil {
		item.LastMessage = last.Text
		if item.LastMessage == "" && last.AttachmentName != "" {
			item.LastMessage = last.AttachmentName
		}
		at := last.CreatedAt
		item.LastMessageAt = &at
	} else if !errorx.IsNotFound(err) {
		return nil, err
	}

	ctx, cancel := s.ctx()
	defer cancel()
	online, err := s.cache.IsOnline(ctx, int64(peerID))
	if err == nil {
		item.PeerOnline = online
	}
	unread, err := s.cache.GetUnread(ctx, int64(userID), int64(conv.ID))
	if err == nil {
		item.UnreadCount = unread
	}
	return item, nil
}

func toMessageRespond(m *model.Message) respond.MessageRespond {
	return respond.MessageRespond{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		AttachmentURL:  m.AttachmentURL,
		AttachmentName: m.AttachmentName,
		AttachmentType: m.AttachmentType,
		CreatedAt:      m.CreatedAt,
	}
}

// Get returns the thread with its full ordered history and clears the
// caller's unread counter.
func (s *conversationService) Get(userID, conversationID uint) (*respond.ConversationDetailRespond, error) {
	conv, err := s.membership(userID, conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repos.Message.FindByConversation(conversationID)
	if err != nil {
		return nil, err
	}
	history := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		history = append(history, toMessageRespond(&messages[i]))
	}

	s.cache.SubmitTask(func() {
		ctx, cancel := s.ctx()
		defer cancel()
		if err := s.cache.ResetUnread(ctx, int64(userID), int64(conversationID)); err != nil {
			zap.L().Warn("unread reset failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	})

	return &respond.ConversationDetailRespond{
		Conversation: s.toRespond(conv),
		Messages:     history,
	}, nil
}

// SendMessage is the single persistence pipeline for REST and socket
// submits: validate, stamp a snowflake id, store, bump the peer's
// unread counter and hand the message to the broker for fan-out.
func (s *conversationService) SendMessage(userID, conversationID uint, text string, attachment *model.Attachment) (*respond.MessageRespond, error) {
	if text == "" && attachment == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "message needs text or an attachment")
	}
	if len([]rune(text)) > maxMessageLen {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "message exceeds %d characters", maxMessageLen)
	}

	conv, err := s.membership(userID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:             snowflake.GenerateID(),
		ConversationID: conversationID,
		SenderID:       userID,
		Text:           text,
		CreatedAt:      time.Now(),
	}
	if attachment != nil {
		msg.AttachmentURL = attachment.URL
		msg.AttachmentName = attachment.Name
		msg.AttachmentType = attachment.Type
	}
	if err := s.repos.Message.Create(msg); err != nil {
		return nil, err
	}

	peerID := conv.ClientID
	if peerID == userID {
		peerID = conv.DriverID
	}
	s.cache.SubmitTask(func() {
		ctx, cancel := s.ctx()
		defer cancel()
		if err := s.cache.IncrUnread(ctx, int64(peerID), int64(conversationID)); err != nil {
			zap.L().Warn("unread increment failed", zap.Uint("user_id", peerID), zap.Error(err))
		}
		for _, id := range []uint{conv.ClientID, conv.DriverID} {
			if err := s.cache.Delete(ctx, listCacheKey(id)); err != nil {
				zap.L().Warn("conversation list invalidation failed", zap.Uint("user_id", id), zap.Error(err))
			}
		}
	})

	rsp := toMessageRespond(msg)
	raw, err := json.Marshal(chat.DeliverPayload{
		Message:  rsp,
		ClientID: conv.ClientID,
		DriverID: conv.DriverID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.broadcaster.Publish(&chat.Frame{
		UserID: int64(userID),
		Event:  chat.EventDeliverMessage,
		Data:   raw,
	}); err != nil {
		// The message is stored; the recipient will see it on the next
		// history fetch even if the push never lands.
		zap.L().Error("message fan-out failed", zap.Int64("message_id", msg.ID), zap.Error(err))
	}
	return &rsp, nil
}

// ResolveAttachment maps a stored filename to its on-disk path after
// checking the caller may read the owning conversation.
func (s *conversationService) ResolveAttachment(userID uint, filename string) (string, error) {
	if filename != filepath.Base(filename) {
		return "", errorx.ErrInvalidParam
	}
	msg, err := s.repos.Message.FindByAttachment(filename)
	if err != nil {
		return "", err
	}
	if _, err := s.membership(userID, msg.ConversationID); err != nil {
		return "", err
	}
	return filepath.Join(config.GetConfig().StaticSrcConfig.AttachmentPath, filename), nil
}
