package chat

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

// memCache is an in-memory ChatCache.
type memCache struct {
	mu       sync.Mutex
	values   map[string]string
	presence map[int64]bool
	unread   map[string]int64
}

func newMemCache() *memCache {
	return &memCache{
		values:   make(map[string]string),
		presence: make(map[int64]bool),
		unread:   make(map[string]int64),
	}
}

func (m *memCache) SubmitTask(action func()) { action() }

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memCache) GetOrError(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", errorx.ErrNotFound
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memCache) DeleteByPattern(context.Context, string) error { return nil }

func (m *memCache) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unread[key]++
	return m.unread[key], nil
}

func (m *memCache) SetOnline(_ context.Context, userID int64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presence[userID] = true
	return nil
}

func (m *memCache) SetOffline(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.presence, userID)
	return nil
}

func (m *memCache) IsOnline(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presence[userID], nil
}

func (m *memCache) IncrUnread(_ context.Context, userID, conversationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unread[unreadTestKey(userID, conversationID)]++
	return nil
}

func (m *memCache) ResetUnread(_ context.Context, userID, conversationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.unread, unreadTestKey(userID, conversationID))
	return nil
}

func (m *memCache) GetUnread(_ context.Context, userID, conversationID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unread[unreadTestKey(userID, conversationID)], nil
}

func unreadTestKey(userID, conversationID int64) string {
	return strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(conversationID, 10)
}

// stubConvRepo serves one fixed thread between users 7 and 8.
type stubConvRepo struct{}

func (stubConvRepo) FindByID(id uint) (*model.Conversation, error) {
	if id != 12 {
		return nil, errorx.ErrNotFound
	}
	conv := &model.Conversation{DeliveryID: 4, ClientID: 7, DriverID: 8}
	conv.ID = 12
	return conv, nil
}

func (s stubConvRepo) FindByDeliveryID(uint) (*model.Conversation, error) {
	return s.FindByID(12)
}

func (s stubConvRepo) FindForUser(userID uint) ([]model.Conversation, error) {
	if userID != 7 && userID != 8 {
		return nil, nil
	}
	conv, _ := s.FindByID(12)
	return []model.Conversation{*conv}, nil
}

func (stubConvRepo) Create(*model.Conversation) error { return nil }

// recordingSender captures socket submits and echoes a deliver frame,
// the way the conversation service does.
type recordingSender struct {
	broker Broker

	mu    sync.Mutex
	sends []SendMessagePayload
}

func (r *recordingSender) SendMessage(userID, conversationID uint, text string, _ *model.Attachment) (*respond.MessageRespond, error) {
	r.mu.Lock()
	r.sends = append(r.sends, SendMessagePayload{ConversationID: conversationID, Text: text})
	r.mu.Unlock()

	msg := respond.MessageRespond{
		ID: 1001, ConversationID: conversationID, SenderID: userID,
		Text: text, CreatedAt: time.Now(),
	}
	raw, _ := json.Marshal(DeliverPayload{Message: msg, ClientID: 7, DriverID: 8})
	if err := r.broker.Publish(&Frame{UserID: int64(userID), Event: EventDeliverMessage, Data: raw}); err != nil {
		return nil, err
	}
	return &msg, nil
}

type gatewayFixture struct {
	broker *StandaloneServer
	cache  *memCache
	sender *recordingSender
	srv    *httptest.Server
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache := newMemCache()
	repos := &repository.Repositories{Conversation: stubConvRepo{}}
	broker := NewStandaloneServer(repos, cache)
	sender := &recordingSender{broker: broker}
	broker.SetMessageSender(sender)
	go broker.Start()
	t.Cleanup(func() { _ = broker.Close() })

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		uid, _ := strconv.ParseInt(c.Query("uid"), 10, 64)
		_, _ = NewClientInit(c, uid, broker)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &gatewayFixture{broker: broker, cache: cache, sender: sender, srv: srv}
}

func (f *gatewayFixture) dial(t *testing.T, userID int64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/ws?uid=" + strconv.FormatInt(userID, 10)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := MarshalEnvelope(event, payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readEvent reads envelopes until one matches the wanted event.
func readEvent(t *testing.T, ws *websocket.Conn, want string) Envelope {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if env.Event == want {
			return env
		}
	}
}

func TestJoinAdmitsParticipant(t *testing.T) {
	f := newGatewayFixture(t)
	ws := f.dial(t, 7)

	send(t, ws, EventJoinConversation, RoomPayload{ConversationID: 12})
	env := readEvent(t, ws, EventJoinSuccess)

	var p RoomPayload
	if err := json.Unmarshal(env.Data, &p); err != nil || p.ConversationID != 12 {
		t.Fatalf("bad join_success payload: %s", env.Data)
	}
}

func TestReconnectSupersedesPreviousSocket(t *testing.T) {
	f := newGatewayFixture(t)
	first := f.dial(t, 7)
	second := f.dial(t, 7)

	// The broker closes the superseded socket.
	_ = first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	// Both sockets tear down through the broker; it must survive that
	// and keep serving the replacement.
	send(t, second, EventJoinConversation, RoomPayload{ConversationID: 12})
	readEvent(t, second, EventJoinSuccess)

	online, err := f.cache.IsOnline(context.Background(), 7)
	if err != nil || !online {
		t.Fatalf("user must stay online across the reconnect: online=%v err=%v", online, err)
	}
}

func TestJoinRejectsOutsider(t *testing.T) {
	f := newGatewayFixture(t)
	ws := f.dial(t, 99)

	send(t, ws, EventJoinConversation, RoomPayload{ConversationID: 12})
	env := readEvent(t, ws, EventJoinError)

	var p JoinErrorPayload
	if err := json.Unmarshal(env.Data, &p); err != nil || p.Reason == "" {
		t.Fatalf("bad join_error payload: %s", env.Data)
	}
}

func TestSendMessageFansOutToRoom(t *testing.T) {
	f := newGatewayFixture(t)
	client := f.dial(t, 7)
	driver := f.dial(t, 8)

	send(t, client, EventJoinConversation, RoomPayload{ConversationID: 12})
	readEvent(t, client, EventJoinSuccess)
	send(t, driver, EventJoinConversation, RoomPayload{ConversationID: 12})
	readEvent(t, driver, EventJoinSuccess)

	send(t, client, EventSendMessage, SendMessagePayload{ConversationID: 12, Text: "on my way"})

	for _, ws := range []*websocket.Conn{client, driver} {
		env := readEvent(t, ws, EventNewMessage)
		var msg respond.MessageRespond
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		if msg.Text != "on my way" || msg.ConversationID != 12 || msg.SenderID != 7 {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestPeerOutsideRoomGetsNotification(t *testing.T) {
	f := newGatewayFixture(t)
	client := f.dial(t, 7)
	driver := f.dial(t, 8) // connected, but never joins the room

	send(t, client, EventJoinConversation, RoomPayload{ConversationID: 12})
	readEvent(t, client, EventJoinSuccess)

	send(t, client, EventSendMessage, SendMessagePayload{ConversationID: 12, Text: "ping"})

	env := readEvent(t, driver, EventNewMessageNotification)
	var nt NotificationPayload
	if err := json.Unmarshal(env.Data, &nt); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}
	if nt.ConversationID != 12 || nt.SenderID != 7 || nt.Preview != "ping" {
		t.Fatalf("unexpected notification %+v", nt)
	}
}

func TestPresenceBroadcastReachesPeer(t *testing.T) {
	f := newGatewayFixture(t)
	client := f.dial(t, 7)

	// The peer connecting should reach user 7 as an online event.
	f.dial(t, 8)

	env := readEvent(t, client, EventUserOnlineStatus)
	var p PresencePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("unmarshal presence: %v", err)
	}
	if p.UserID != 8 || !p.IsOnline {
		t.Fatalf("unexpected presence %+v", p)
	}

	online, _ := f.cache.IsOnline(context.Background(), 8)
	if !online {
		t.Fatal("presence store not updated")
	}
}

func TestMarkAsSeenResetsUnread(t *testing.T) {
	f := newGatewayFixture(t)
	ws := f.dial(t, 7)

	_ = f.cache.IncrUnread(context.Background(), 7, 12)
	send(t, ws, EventMarkAsSeen, RoomPayload{ConversationID: 12})

	deadline := time.Now().Add(time.Second)
	for {
		n, _ := f.cache.GetUnread(context.Background(), 7, 12)
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("unread still %d", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := preview(long)
	if runes := []rune(got); len(runes) != 81 || runes[80] != '…' {
		t.Fatalf("unexpected preview %q", got)
	}
	if preview("short") != "short" {
		t.Fatal("short text must pass through")
	}
}
