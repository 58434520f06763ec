package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"w9ayt_delivery_server/internal/dto/respond"
)

// ConversationList synchronizes the thread overview: it refreshes over
// REST whenever a notification or a message push signals new activity,
// keeps the list sorted by latest activity and supports local
// filtering.
type ConversationList struct {
	client  *Client
	manager *ChannelManager

	mu       sync.Mutex
	items    []respond.ConversationListItem
	onUpdate func()

	unsubs []func()
	once   sync.Once
}

// NewConversationList creates the synchronizer. Call Start to load and
// begin tracking.
func NewConversationList(c *Client, m *ChannelManager) *ConversationList {
	return &ConversationList{client: c, manager: m}
}

// SetOnUpdate registers a callback fired after every list change.
func (l *ConversationList) SetOnUpdate(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onUpdate = fn
}

// Start loads the list and subscribes to activity signals.
func (l *ConversationList) Start(ctx context.Context) error {
	refresh := func() {
		fetchCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = l.Refresh(fetchCtx)
	}
	l.unsubs = append(l.unsubs,
		l.manager.OnNotification(func(NotificationEvent) { go refresh() }),
		l.manager.OnMessage(func(respond.MessageRespond) { go refresh() }),
	)
	return l.Refresh(ctx)
}

// Refresh re-fetches the list and re-sorts it by latest activity.
func (l *ConversationList) Refresh(ctx context.Context) error {
	rsp, err := l.client.Conversations(ctx)
	if err != nil {
		return err
	}

	items := rsp.Conversations
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].LastMessageAt, items[j].LastMessageAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})

	l.mu.Lock()
	l.items = items
	fn := l.onUpdate
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Items returns a copy of the current list.
func (l *ConversationList) Items() []respond.ConversationListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]respond.ConversationListItem, len(l.items))
	copy(out, l.items)
	return out
}

// Filter returns the threads whose peer name, latest message, addresses
// or description contain query, case-insensitively. An empty query
// returns everything.
func (l *ConversationList) Filter(query string) []respond.ConversationListItem {
	items := l.Items()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := items[:0]
	for _, item := range items {
		haystack := strings.ToLower(strings.Join([]string{
			item.PeerName, item.LastMessage, item.PickupAddress, item.DropoffAddress, item.Description,
		}, " "))
		if strings.Contains(haystack, query) {
			out = append(out, item)
		}
	}
	return out
}

// Stop unsubscribes from activity signals.
func (l *ConversationList) Stop() {
	l.once.Do(func() {
		for _, unsub := range l.unsubs {
			unsub()
		}
	})
}
