package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/service/chat"
)

// listTestServer serves /api/conversations from a swappable snapshot
// and counts fetches.
type listTestServer struct {
	mu      sync.Mutex
	items   []respond.ConversationListItem
	fetches int
	srv     *httptest.Server
}

func newListTestServer(items []respond.ConversationListItem) *listTestServer {
	s := &listTestServer{items: items}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		snapshot := make([]respond.ConversationListItem, len(s.items))
		copy(snapshot, s.items)
		s.fetches++
		s.mu.Unlock()
		writeEnvelope(w, respond.ConversationListRespond{Conversations: snapshot})
	})
	s.srv = httptest.NewServer(mux)
	return s
}

func (s *listTestServer) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func (s *listTestServer) set(items []respond.ConversationListItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

func item(id uint, peer string, last time.Time) respond.ConversationListItem {
	at := last
	return respond.ConversationListItem{ID: id, PeerName: peer, LastMessageAt: &at}
}

func startTestList(t *testing.T, srv *listTestServer) (*ConversationList, *fakeConn) {
	t.Helper()
	conn := newFakeConn()
	manager := NewChannelManager(srv.srv.URL, loggedInSession(),
		WithDialer(func(context.Context, string) (Conn, error) { return conn, nil }))
	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	c := New(srv.srv.URL)
	*c.Session() = *loggedInSession()

	list := NewConversationList(c, manager)
	if err := list.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(list.Stop)
	return list, conn
}

func TestListSortsByLatestActivity(t *testing.T) {
	srv := newListTestServer([]respond.ConversationListItem{
		item(1, "Amine", at(10)),
		item(2, "Bassem", at(30)),
		item(3, "Chaima", at(20)),
	})
	defer srv.srv.Close()

	list, _ := startTestList(t, srv)

	items := list.Items()
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	for i, want := range []uint{2, 3, 1} {
		if items[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, items[i].ID, want)
		}
	}
}

func TestListRefreshesOnNotification(t *testing.T) {
	srv := newListTestServer([]respond.ConversationListItem{item(1, "Amine", at(10))})
	defer srv.srv.Close()

	list, conn := startTestList(t, srv)
	before := srv.fetchCount()

	srv.set([]respond.ConversationListItem{
		item(1, "Amine", at(10)),
		item(2, "Bassem", at(40)),
	})
	conn.push(t, chat.EventNewMessageNotification, chat.NotificationPayload{
		ConversationID: 2, MessageID: 77, SenderID: 8, Preview: "hi",
	})

	deadline := time.Now().Add(time.Second)
	for {
		if srv.fetchCount() > before && len(list.Items()) == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("list never refreshed on notification")
		}
		time.Sleep(time.Millisecond)
	}
	if list.Items()[0].ID != 2 {
		t.Fatalf("new activity not first: %+v", list.Items())
	}
}

func TestListFilter(t *testing.T) {
	srv := newListTestServer(nil)
	defer srv.srv.Close()

	list, _ := startTestList(t, srv)
	list.mu.Lock()
	list.items = []respond.ConversationListItem{
		{ID: 1, PeerName: "Amine Trabelsi", PickupAddress: "Tunis centre"},
		{ID: 2, PeerName: "Bassem", DropoffAddress: "La Marsa"},
		{ID: 3, PeerName: "Chaima", Description: "colis fragile"},
		{ID: 4, PeerName: "Dali", LastMessage: "rendez-vous demain"},
	}
	list.mu.Unlock()

	if got := list.Filter("marsa"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("filter by address failed: %+v", got)
	}
	if got := list.Filter("  FRAGILE "); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("filter by description failed: %+v", got)
	}
	if got := list.Filter("demain"); len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("filter by latest message failed: %+v", got)
	}
	if got := list.Filter(""); len(got) != 4 {
		t.Fatalf("empty query must return everything, got %d", len(got))
	}
	if got := list.Filter("zzz"); len(got) != 0 {
		t.Fatalf("no-match query returned %d items", len(got))
	}
}
