package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	myredis "w9ayt_delivery_server/internal/dao/redis"
	"w9ayt_delivery_server/pkg/constants"
)

// StandaloneServer is the in-process broker: one select loop owns the
// connection registry, rooms carry their own lock so database-bound
// frames can be handled off the loop without stalling it.
type StandaloneServer struct {
	repos *repository.Repositories
	cache myredis.ChatCache

	// clients maps userID -> *UserConn. One live socket per user; a
	// newer connection replaces the older one.
	clients sync.Map

	roomsMu sync.RWMutex
	rooms   map[uint]map[int64]struct{} // conversationID -> member userIDs

	login    chan *UserConn
	logout   chan *UserConn
	transmit chan *Frame
	quit     chan struct{}
	once     sync.Once

	sender MessageSender
}

// NewStandaloneServer creates the channel-mode broker.
func NewStandaloneServer(repos *repository.Repositories, cache myredis.ChatCache) *StandaloneServer {
	return &StandaloneServer{
		repos:    repos,
		cache:    cache,
		rooms:    make(map[uint]map[int64]struct{}),
		login:    make(chan *UserConn, constants.CHANNEL_SIZE),
		logout:   make(chan *UserConn, constants.CHANNEL_SIZE),
		transmit: make(chan *Frame, constants.CHANNEL_SIZE),
		quit:     make(chan struct{}),
	}
}

// SetMessageSender wires the persistence pipeline. Must be called
// before Start; it breaks the construction cycle with the conversation
// service, which in turn publishes through this broker.
func (s *StandaloneServer) SetMessageSender(sender MessageSender) {
	s.sender = sender
}

// Start runs the event loop until Close.
func (s *StandaloneServer) Start() {
	for {
		select {
		case conn := <-s.login:
			s.handleLogin(conn)
		case conn := <-s.logout:
			s.handleLogout(conn)
		case frame := <-s.transmit:
			s.route(frame)
		case <-s.quit:
			return
		}
	}
}

func (s *StandaloneServer) Close() error {
	s.once.Do(func() { close(s.quit) })
	return nil
}

func (s *StandaloneServer) Connect(conn *UserConn) {
	s.login <- conn
}

func (s *StandaloneServer) Disconnect(conn *UserConn) {
	s.logout <- conn
}

func (s *StandaloneServer) Dispatch(frame *Frame) {
	s.transmit <- frame
}

// Publish enqueues a frame for fan-out. In channel mode local delivery
// is all there is.
func (s *StandaloneServer) Publish(frame *Frame) error {
	select {
	case s.transmit <- frame:
		return nil
	case <-s.quit:
		return nil
	}
}

// Touch refreshes the presence TTL, off the request path.
func (s *StandaloneServer) Touch(userID int64) {
	s.cache.SubmitTask(func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
		defer cancel()
		if err := s.cache.SetOnline(ctx, userID, constants.PRESENCE_TTL); err != nil {
			zap.L().Warn("presence refresh failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	})
}

func (s *StandaloneServer) handleLogin(conn *UserConn) {
	// A second tab or a reconnect supersedes the previous socket.
	if prev, loaded := s.clients.Swap(conn.UserID, conn); loaded {
		prev.(*UserConn).close()
		s.dropFromRooms(prev.(*UserConn).UserID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := s.cache.SetOnline(ctx, conn.UserID, constants.PRESENCE_TTL); err != nil {
		zap.L().Warn("presence set failed", zap.Int64("user_id", conn.UserID), zap.Error(err))
	}

	go s.broadcastPresence(conn.UserID, true)
	zap.L().Info("websocket connected", zap.Int64("user_id", conn.UserID))
}

func (s *StandaloneServer) handleLogout(conn *UserConn) {
	// Only remove the registry entry if it is still this connection;
	// a replacement socket may already have taken the slot.
	if cur, ok := s.clients.Load(conn.UserID); ok && cur.(*UserConn) == conn {
		s.clients.Delete(conn.UserID)
		s.dropFromRooms(conn.UserID)

		ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
		defer cancel()
		if err := s.cache.SetOffline(ctx, conn.UserID); err != nil {
			zap.L().Warn("presence clear failed", zap.Int64("user_id", conn.UserID), zap.Error(err))
		}
		go s.broadcastPresence(conn.UserID, false)
	}
	conn.close()
	zap.L().Info("websocket disconnected", zap.Int64("user_id", conn.UserID))
}

// route fans a frame to its handler. Database-bound events run off the
// loop so a slow query cannot back up logins and logouts.
func (s *StandaloneServer) route(frame *Frame) {
	switch frame.Event {
	case EventJoinConversation:
		go s.handleJoin(frame)
	case EventLeaveConversation:
		s.handleLeave(frame)
	case EventSendMessage:
		go s.handleSend(frame)
	case EventMarkAsSeen:
		go s.handleMarkSeen(frame)
	case EventDeliverMessage:
		go s.handleDeliver(frame)
	case EventUserOnlineStatus:
		go s.handlePresenceFrame(frame)
	default:
		zap.L().Warn("unroutable frame", zap.String("event", frame.Event))
	}
}

// handleJoin verifies membership against the conversation row before
// admitting the user to the room.
func (s *StandaloneServer) handleJoin(frame *Frame) {
	var p RoomPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil || p.ConversationID == 0 {
		s.sendTo(frame.UserID, EventJoinError, JoinErrorPayload{Reason: "conversation_id required"})
		return
	}

	conv, err := s.repos.Conversation.FindByID(p.ConversationID)
	if err != nil {
		s.sendTo(frame.UserID, EventJoinError, JoinErrorPayload{
			ConversationID: p.ConversationID, Reason: "conversation not found",
		})
		return
	}
	if int64(conv.ClientID) != frame.UserID && int64(conv.DriverID) != frame.UserID {
		s.sendTo(frame.UserID, EventJoinError, JoinErrorPayload{
			ConversationID: p.ConversationID, Reason: "not a participant",
		})
		return
	}

	s.roomsMu.Lock()
	members, ok := s.rooms[p.ConversationID]
	if !ok {
		members = make(map[int64]struct{})
		s.rooms[p.ConversationID] = members
	}
	members[frame.UserID] = struct{}{}
	s.roomsMu.Unlock()

	s.sendTo(frame.UserID, EventJoinSuccess, RoomPayload{ConversationID: p.ConversationID})
}

func (s *StandaloneServer) handleLeave(frame *Frame) {
	var p RoomPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		return
	}
	s.roomsMu.Lock()
	if members, ok := s.rooms[p.ConversationID]; ok {
		delete(members, frame.UserID)
		if len(members) == 0 {
			delete(s.rooms, p.ConversationID)
		}
	}
	s.roomsMu.Unlock()
}

func (s *StandaloneServer) dropFromRooms(userID int64) {
	s.roomsMu.Lock()
	for id, members := range s.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(s.rooms, id)
		}
	}
	s.roomsMu.Unlock()
}

// handleSend persists a socket-submitted message through the shared
// pipeline; that publishes the deliver frame which fans it back out.
func (s *StandaloneServer) handleSend(frame *Frame) {
	var p SendMessagePayload
	if err := json.Unmarshal(frame.Data, &p); err != nil || p.ConversationID == 0 || p.Text == "" {
		zap.L().Warn("malformed send_message payload", zap.Int64("user_id", frame.UserID))
		return
	}
	if _, err := s.sender.SendMessage(uint(frame.UserID), p.ConversationID, p.Text, nil); err != nil {
		zap.L().Warn("socket message rejected",
			zap.Int64("user_id", frame.UserID),
			zap.Uint("conversation_id", p.ConversationID),
			zap.Error(err))
	}
}

func (s *StandaloneServer) handleMarkSeen(frame *Frame) {
	var p RoomPayload
	if err := json.Unmarshal(frame.Data, &p); err != nil || p.ConversationID == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.REDIS_TIMEOUT*time.Second)
	defer cancel()
	if err := s.cache.ResetUnread(ctx, frame.UserID, int64(p.ConversationID)); err != nil {
		zap.L().Warn("unread reset failed",
			zap.Int64("user_id", frame.UserID),
			zap.Uint("conversation_id", p.ConversationID),
			zap.Error(err))
	}
}

// handleDeliver fans a persisted message out: new_message to everyone
// in the room, a notification to the peer when they are connected but
// not looking at the thread.
func (s *StandaloneServer) handleDeliver(frame *Frame) {
	var msg DeliverPayload
	if err := json.Unmarshal(frame.Data, &msg); err != nil {
		zap.L().Error("malformed deliver frame", zap.Error(err))
		return
	}

	data, err := MarshalEnvelope(EventNewMessage, msg.Message)
	if err != nil {
		zap.L().Error("marshal new_message failed", zap.Error(err))
		return
	}

	s.roomsMu.RLock()
	members := make([]int64, 0, 2)
	for id := range s.rooms[msg.Message.ConversationID] {
		members = append(members, id)
	}
	s.roomsMu.RUnlock()

	inRoom := make(map[int64]bool, len(members))
	for _, id := range members {
		inRoom[id] = true
		if conn, ok := s.clients.Load(id); ok {
			conn.(*UserConn).SendMsg(data)
		}
	}

	// The peer gets a list-refresh nudge instead of the full message.
	peer := int64(msg.ClientID)
	if peer == int64(msg.Message.SenderID) {
		peer = int64(msg.DriverID)
	}
	if !inRoom[peer] {
		s.sendTo(peer, EventNewMessageNotification, NotificationPayload{
			ConversationID: msg.Message.ConversationID,
			MessageID:      msg.Message.ID,
			SenderID:       msg.Message.SenderID,
			Preview:        preview(msg.Message.Text),
		})
	}
}

// handlePresenceFrame notifies the locally connected peers of every
// conversation the user participates in.
func (s *StandaloneServer) handlePresenceFrame(frame *Frame) {
	var p PresencePayload
	if err := json.Unmarshal(frame.Data, &p); err != nil {
		return
	}
	convs, err := s.repos.Conversation.FindForUser(uint(p.UserID))
	if err != nil {
		zap.L().Warn("presence fan-out lookup failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return
	}
	notified := make(map[int64]bool)
	for _, conv := range convs {
		peer := int64(conv.ClientID)
		if peer == p.UserID {
			peer = int64(conv.DriverID)
		}
		if !notified[peer] {
			notified[peer] = true
			s.sendTo(peer, EventUserOnlineStatus, p)
		}
	}
}

func (s *StandaloneServer) broadcastPresence(userID int64, online bool) {
	raw, err := json.Marshal(PresencePayload{UserID: userID, IsOnline: online})
	if err != nil {
		return
	}
	if err := s.Publish(&Frame{UserID: userID, Event: EventUserOnlineStatus, Data: raw}); err != nil {
		zap.L().Warn("presence publish failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// sendTo pushes one event to one locally connected user.
func (s *StandaloneServer) sendTo(userID int64, event string, payload any) {
	conn, ok := s.clients.Load(userID)
	if !ok {
		return
	}
	data, err := MarshalEnvelope(event, payload)
	if err != nil {
		zap.L().Error("marshal push event failed", zap.String("event", event), zap.Error(err))
		return
	}
	conn.(*UserConn).SendMsg(data)
}

func preview(text string) string {
	const max = 80
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
