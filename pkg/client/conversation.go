package client

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"w9ayt_delivery_server/internal/dto/respond"
)

// defaultPollInterval paces the REST fallback when the realtime join
// never succeeds.
const defaultPollInterval = 30 * time.Second

// ConversationView synchronizes one open thread: it merges the HTTP
// history with websocket pushes into a single ordered, deduplicated
// timeline and tracks the peer's presence.
type ConversationView struct {
	client  *Client
	manager *ChannelManager

	conversationID uint
	pollInterval   time.Duration

	mu         sync.Mutex
	conv       respond.ConversationRespond
	messages   []respond.MessageRespond
	seen       map[int64]struct{}
	peerID     uint
	peerOnline bool
	onUpdate   func()

	unsubs  []func()
	cancel  context.CancelFunc
	closeMu sync.Once
}

// NewConversationView creates a view bound to a thread. Call Open to
// start synchronizing.
func NewConversationView(c *Client, m *ChannelManager, conversationID uint) *ConversationView {
	return &ConversationView{
		client:         c,
		manager:        m,
		conversationID: conversationID,
		pollInterval:   defaultPollInterval,
		seen:           make(map[int64]struct{}),
	}
}

// SetOnUpdate registers a callback fired after every timeline or
// presence change. Must be set before Open.
func (v *ConversationView) SetOnUpdate(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onUpdate = fn
}

// Open subscribes to pushes, joins the room and loads the history.
// Pushes arriving while the history request is in flight are merged,
// not lost: deduplication makes the two sources commutative.
func (v *ConversationView) Open(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel

	v.unsubs = append(v.unsubs,
		v.manager.OnMessage(v.acceptPush),
		v.manager.OnPresence(v.acceptPresence),
	)

	go func() {
		if err := v.manager.JoinRoom(runCtx, v.conversationID); errors.Is(err, ErrJoinRetriesExhausted) {
			// No realtime feed; keep the thread fresh over REST.
			v.pollLoop(runCtx)
		}
	}()

	detail, err := v.client.Conversation(ctx, v.conversationID)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.conv = detail.Conversation
	v.peerID = detail.Conversation.ClientUserID
	v.peerOnline = detail.Conversation.ClientIsOnline
	if v.peerID == v.client.Session().UserID() {
		v.peerID = detail.Conversation.DriverUserID
		v.peerOnline = detail.Conversation.DriverIsOnline
	}
	v.mu.Unlock()

	v.mergeHistory(detail.Messages)
	_ = v.manager.MarkSeen(v.conversationID)
	return nil
}

// Send submits text over REST and applies the stored message locally.
// The push echo of the same message deduplicates away.
func (v *ConversationView) Send(ctx context.Context, text string) error {
	msg, err := v.client.SendMessage(ctx, v.conversationID, text)
	if err != nil {
		return err
	}
	v.acceptPush(*msg)
	return nil
}

// Messages returns a copy of the ordered timeline.
func (v *ConversationView) Messages() []respond.MessageRespond {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]respond.MessageRespond, len(v.messages))
	copy(out, v.messages)
	return out
}

// PeerOnline reports the last known presence of the other participant.
func (v *ConversationView) PeerOnline() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.peerOnline
}

// Conversation returns the thread metadata.
func (v *ConversationView) Conversation() respond.ConversationRespond {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conv
}

// Close leaves the room and unsubscribes. The view must not be reused.
func (v *ConversationView) Close() {
	v.closeMu.Do(func() {
		if v.cancel != nil {
			v.cancel()
		}
		for _, unsub := range v.unsubs {
			unsub()
		}
		v.manager.LeaveRoom(v.conversationID)
	})
}

// acceptPush merges one message into the timeline. Messages for other
// threads and duplicates are ignored; insertion keeps (created_at, id)
// order, id being the tiebreak for equal timestamps.
func (v *ConversationView) acceptPush(msg respond.MessageRespond) {
	if msg.ConversationID != v.conversationID {
		return
	}
	v.mu.Lock()
	if _, dup := v.seen[msg.ID]; dup {
		v.mu.Unlock()
		return
	}
	v.seen[msg.ID] = struct{}{}
	idx := sort.Search(len(v.messages), func(i int) bool {
		m := v.messages[i]
		if !m.CreatedAt.Equal(msg.CreatedAt) {
			return m.CreatedAt.After(msg.CreatedAt)
		}
		return m.ID > msg.ID
	})
	v.messages = append(v.messages, respond.MessageRespond{})
	copy(v.messages[idx+1:], v.messages[idx:])
	v.messages[idx] = msg
	fn := v.onUpdate
	v.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (v *ConversationView) acceptPresence(ev PresenceEvent) {
	v.mu.Lock()
	if v.peerID == 0 || ev.UserID != int64(v.peerID) {
		v.mu.Unlock()
		return
	}
	changed := v.peerOnline != ev.IsOnline
	v.peerOnline = ev.IsOnline
	fn := v.onUpdate
	v.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}

func (v *ConversationView) mergeHistory(history []respond.MessageRespond) {
	for _, msg := range history {
		v.acceptPush(msg)
	}
}

func (v *ConversationView) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(v.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			detail, err := v.client.Conversation(fetchCtx, v.conversationID)
			cancel()
			if err == nil {
				v.mergeHistory(detail.Messages)
			}
		}
	}
}
