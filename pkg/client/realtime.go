package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/service/chat"
	"w9ayt_delivery_server/pkg/constants"
)

var (
	// ErrNotConnected is returned by writes while the socket is down.
	ErrNotConnected = errors.New("realtime channel not connected")
	// ErrJoinRetriesExhausted is the bounded-retry failure signal: the
	// socket never came up within the retry window.
	ErrJoinRetriesExhausted = errors.New("join retries exhausted before the channel came up")
)

// Conn is the minimal socket surface the manager needs. Satisfied by
// *websocket.Conn; tests substitute an in-memory pipe.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a Conn to the given ws URL.
type Dialer func(ctx context.Context, wsURL string) (Conn, error)

func defaultDialer(ctx context.Context, wsURL string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	return conn, err
}

// ChannelManager owns the realtime connection lifecycle: connect,
// teardown, room membership with bounded join retries, and the event
// streams the synchronizers subscribe to.
type ChannelManager struct {
	wsURL   string
	session *Session
	dial    Dialer

	retryAttempts int
	retryInterval time.Duration

	mu      sync.Mutex
	conn    Conn
	gen     int // connection generation; a read-loop death only kills its own generation
	writeMu sync.Mutex

	subsMu       sync.Mutex
	subSeq       int
	msgSubs      map[int]func(respond.MessageRespond)
	notifSubs    map[int]func(NotificationEvent)
	presenceSubs map[int]func(PresenceEvent)
	joinSubs     map[int]func(JoinResult)
}

// ManagerOption customizes a ChannelManager.
type ManagerOption func(*ChannelManager)

// WithDialer substitutes the socket transport, mostly for tests.
func WithDialer(dial Dialer) ManagerOption {
	return func(m *ChannelManager) { m.dial = dial }
}

// WithJoinRetry overrides the join retry policy.
func WithJoinRetry(attempts int, interval time.Duration) ManagerOption {
	return func(m *ChannelManager) {
		m.retryAttempts = attempts
		m.retryInterval = interval
	}
}

// NewChannelManager creates a manager for the server's /ws endpoint.
// baseURL is the http(s) origin; the scheme is rewritten to ws(s).
func NewChannelManager(baseURL string, session *Session, opts ...ManagerOption) *ChannelManager {
	m := &ChannelManager{
		wsURL:         toWsURL(baseURL),
		session:       session,
		dial:          defaultDialer,
		retryAttempts: constants.JOIN_RETRY_ATTEMPTS,
		retryInterval: constants.JOIN_RETRY_INTERVAL,
		msgSubs:       make(map[int]func(respond.MessageRespond)),
		notifSubs:     make(map[int]func(NotificationEvent)),
		presenceSubs:  make(map[int]func(PresenceEvent)),
		joinSubs:      make(map[int]func(JoinResult)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func toWsURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "/ws"
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String()
}

// Connect brings the channel up. Without a session token it is a
// silent no-op: pre-login screens may call it freely. A live channel
// is left alone; a stale one is torn down and replaced.
func (m *ChannelManager) Connect(ctx context.Context) error {
	token := m.session.AccessToken()
	if token == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return nil
	}

	conn, err := m.dial(ctx, m.wsURL+"?token="+url.QueryEscape(token))
	if err != nil {
		return err
	}
	m.conn = conn
	m.gen++
	go m.readLoop(conn, m.gen)
	return nil
}

// Disconnect tears the channel down. Idempotent.
func (m *ChannelManager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

// Connected reports whether the channel is currently live.
func (m *ChannelManager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// dropIfCurrent clears the connection only when the dying read loop
// belongs to the current generation; a replacement socket stays.
func (m *ChannelManager) dropIfCurrent(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen && m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
}

func (m *ChannelManager) liveConn() Conn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

func (m *ChannelManager) writeEvent(event string, payload any) error {
	conn := m.liveConn()
	if conn == nil {
		return ErrNotConnected
	}
	data, err := chat.MarshalEnvelope(event, payload)
	if err != nil {
		return err
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// JoinRoom asks the server for room membership, retrying on a fixed
// interval while the channel is down. Exhausting the attempts returns
// ErrJoinRetriesExhausted so callers can fall back to polling.
func (m *ChannelManager) JoinRoom(ctx context.Context, conversationID uint) error {
	for attempt := 0; attempt < m.retryAttempts; attempt++ {
		err := m.writeEvent(chat.EventJoinConversation, chat.RoomPayload{ConversationID: conversationID})
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotConnected) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryInterval):
		}
	}
	return ErrJoinRetriesExhausted
}

// LeaveRoom drops room membership. Nothing to do when the channel is
// down; a dead socket left the room already.
func (m *ChannelManager) LeaveRoom(conversationID uint) {
	_ = m.writeEvent(chat.EventLeaveConversation, chat.RoomPayload{ConversationID: conversationID})
}

// SendMessage submits a text message over the socket.
func (m *ChannelManager) SendMessage(conversationID uint, text string) error {
	return m.writeEvent(chat.EventSendMessage, chat.SendMessagePayload{
		ConversationID: conversationID,
		Text:           text,
	})
}

// MarkSeen clears the caller's unread counter for a thread.
func (m *ChannelManager) MarkSeen(conversationID uint) error {
	return m.writeEvent(chat.EventMarkAsSeen, chat.RoomPayload{ConversationID: conversationID})
}

// OnMessage subscribes to new_message pushes; the returned func
// unsubscribes.
func (m *ChannelManager) OnMessage(fn func(respond.MessageRespond)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.msgSubs[id] = fn
	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.msgSubs, id)
	}
}

// OnNotification subscribes to new_message_notification pushes.
func (m *ChannelManager) OnNotification(fn func(NotificationEvent)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.notifSubs[id] = fn
	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.notifSubs, id)
	}
}

// OnPresence subscribes to user_online_status pushes.
func (m *ChannelManager) OnPresence(fn func(PresenceEvent)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.presenceSubs[id] = fn
	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.presenceSubs, id)
	}
}

// OnJoinResult subscribes to join verdicts.
func (m *ChannelManager) OnJoinResult(fn func(JoinResult)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	m.subSeq++
	id := m.subSeq
	m.joinSubs[id] = fn
	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.joinSubs, id)
	}
}

func (m *ChannelManager) readLoop(conn Conn, gen int) {
	defer m.dropIfCurrent(gen)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env chat.Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		m.dispatch(env)
	}
}

func (m *ChannelManager) dispatch(env chat.Envelope) {
	switch env.Event {
	case chat.EventNewMessage:
		var msg respond.MessageRespond
		if json.Unmarshal(env.Data, &msg) != nil {
			return
		}
		for _, fn := range m.snapshotMsgSubs() {
			fn(msg)
		}
	case chat.EventNewMessageNotification:
		var nt NotificationEvent
		if decodeLoose(env.Data, &nt) != nil {
			return
		}
		for _, fn := range m.snapshotNotifSubs() {
			fn(nt)
		}
	case chat.EventUserOnlineStatus:
		var pr PresenceEvent
		if decodeLoose(env.Data, &pr) != nil {
			return
		}
		for _, fn := range m.snapshotPresenceSubs() {
			fn(pr)
		}
	case chat.EventJoinSuccess, chat.EventJoinError:
		var jr JoinResult
		if decodeLoose(env.Data, &jr) != nil {
			return
		}
		jr.OK = env.Event == chat.EventJoinSuccess
		for _, fn := range m.snapshotJoinSubs() {
			fn(jr)
		}
	}
}

func (m *ChannelManager) snapshotMsgSubs() []func(respond.MessageRespond) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	out := make([]func(respond.MessageRespond), 0, len(m.msgSubs))
	for _, fn := range m.msgSubs {
		out = append(out, fn)
	}
	return out
}

func (m *ChannelManager) snapshotNotifSubs() []func(NotificationEvent) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	out := make([]func(NotificationEvent), 0, len(m.notifSubs))
	for _, fn := range m.notifSubs {
		out = append(out, fn)
	}
	return out
}

func (m *ChannelManager) snapshotPresenceSubs() []func(PresenceEvent) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	out := make([]func(PresenceEvent), 0, len(m.presenceSubs))
	for _, fn := range m.presenceSubs {
		out = append(out, fn)
	}
	return out
}

func (m *ChannelManager) snapshotJoinSubs() []func(JoinResult) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	out := make([]func(JoinResult), 0, len(m.joinSubs))
	for _, fn := range m.joinSubs {
		out = append(out, fn)
	}
	return out
}
