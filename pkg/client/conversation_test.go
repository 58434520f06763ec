package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/service/chat"
	"w9ayt_delivery_server/pkg/errorx"
)

func writeEnvelope(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code": errorx.CodeSuccess,
		"msg":  "success",
		"data": json.RawMessage(raw),
	})
}

func at(sec int) time.Time {
	return time.Date(2026, 3, 1, 10, 0, sec, 0, time.UTC)
}

func msg(id int64, conv uint, sender uint, text string, created time.Time) respond.MessageRespond {
	return respond.MessageRespond{
		ID: id, ConversationID: conv, SenderID: sender, Text: text, CreatedAt: created,
	}
}

// chatTestServer serves the conversation detail and message submit
// endpoints over stub data.
func chatTestServer(t *testing.T, history []respond.MessageRespond, sendReply *respond.MessageRespond) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/conversations/12", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, respond.ConversationDetailRespond{
			Conversation: respond.ConversationRespond{
				ID: 12, DeliveryID: 4, ClientUserID: 7, DriverUserID: 8,
				ClientIsOnline: true, DriverIsOnline: false,
			},
			Messages: history,
		})
	})
	mux.HandleFunc("/api/conversations/12/messages", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, sendReply)
	})
	return httptest.NewServer(mux)
}

func openTestView(t *testing.T, srv *httptest.Server) (*ConversationView, *fakeConn) {
	t.Helper()
	session := loggedInSession() // user id 7, so the peer is 8

	conn := newFakeConn()
	manager := NewChannelManager(srv.URL, session,
		WithDialer(func(context.Context, string) (Conn, error) { return conn, nil }),
		WithJoinRetry(3, time.Millisecond))
	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	c := New(srv.URL)
	c.Session().Set(&respond.LoginRespond{
		AccessToken:  session.AccessToken(),
		RefreshToken: session.RefreshToken(),
		User:         *session.User(),
	})

	view := NewConversationView(c, manager, 12)
	if err := view.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(view.Close)
	return view, conn
}

func waitForMessages(t *testing.T, view *ConversationView, want int) []respond.MessageRespond {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		msgs := view.Messages()
		if len(msgs) == want {
			return msgs
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeline stuck at %d messages, want %d", len(msgs), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestViewMergesHistoryAndPushWithoutDuplicates(t *testing.T) {
	history := []respond.MessageRespond{
		msg(1, 12, 7, "first", at(1)),
		msg(2, 12, 8, "second", at(2)),
	}
	srv := chatTestServer(t, history, nil)
	defer srv.Close()

	view, conn := openTestView(t, srv)

	// A duplicate of history and one genuinely new message.
	conn.push(t, chat.EventNewMessage, history[1])
	conn.push(t, chat.EventNewMessage, msg(3, 12, 8, "third", at(3)))

	msgs := waitForMessages(t, view, 3)
	for i, want := range []int64{1, 2, 3} {
		if msgs[i].ID != want {
			t.Fatalf("position %d: got id %d, want %d", i, msgs[i].ID, want)
		}
	}
}

func TestViewOrdersEqualTimestampsById(t *testing.T) {
	srv := chatTestServer(t, nil, nil)
	defer srv.Close()

	view, conn := openTestView(t, srv)

	same := at(5)
	// Arrive out of id order with identical timestamps.
	conn.push(t, chat.EventNewMessage, msg(20, 12, 8, "b", same))
	conn.push(t, chat.EventNewMessage, msg(10, 12, 7, "a", same))

	msgs := waitForMessages(t, view, 2)
	if msgs[0].ID != 10 || msgs[1].ID != 20 {
		t.Fatalf("equal timestamps not ordered by id: %d, %d", msgs[0].ID, msgs[1].ID)
	}
}

func TestViewIgnoresOtherConversations(t *testing.T) {
	srv := chatTestServer(t, nil, nil)
	defer srv.Close()

	view, conn := openTestView(t, srv)

	conn.push(t, chat.EventNewMessage, msg(1, 99, 8, "elsewhere", at(1)))
	conn.push(t, chat.EventNewMessage, msg(2, 12, 8, "here", at(2)))

	msgs := waitForMessages(t, view, 1)
	if msgs[0].ID != 2 {
		t.Fatalf("kept the wrong message: %+v", msgs[0])
	}
}

func TestViewSendEchoDeduplicates(t *testing.T) {
	stored := msg(50, 12, 7, "hello", at(9))
	srv := chatTestServer(t, nil, &stored)
	defer srv.Close()

	view, conn := openTestView(t, srv)

	if err := view.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	// Fan-out echoes the same stored message back.
	conn.push(t, chat.EventNewMessage, stored)

	time.Sleep(20 * time.Millisecond)
	msgs := waitForMessages(t, view, 1)
	if msgs[0].ID != 50 {
		t.Fatalf("unexpected timeline: %+v", msgs)
	}
}

func TestViewClosedIgnoresLaterPushes(t *testing.T) {
	srv := chatTestServer(t, nil, nil)
	defer srv.Close()

	view, conn := openTestView(t, srv)

	conn.push(t, chat.EventNewMessage, msg(1, 12, 8, "before close", at(1)))
	waitForMessages(t, view, 1)

	var updates atomic.Int32
	view.SetOnUpdate(func() { updates.Add(1) })
	view.Close()

	conn.push(t, chat.EventNewMessage, msg(2, 12, 8, "after close", at(2)))

	time.Sleep(20 * time.Millisecond)
	msgs := view.Messages()
	if len(msgs) != 1 || msgs[0].ID != 1 {
		t.Fatalf("closed view mutated: %+v", msgs)
	}
	if updates.Load() != 0 {
		t.Fatalf("update callback fired %d times after close", updates.Load())
	}
}

func TestViewTracksPeerPresence(t *testing.T) {
	srv := chatTestServer(t, nil, nil)
	defer srv.Close()

	view, conn := openTestView(t, srv)
	if view.PeerOnline() {
		t.Fatal("peer should start offline")
	}

	var updates atomic.Int32
	view.SetOnUpdate(func() { updates.Add(1) })

	// Someone else's presence must not flip the flag.
	conn.push(t, chat.EventUserOnlineStatus, chat.PresencePayload{UserID: 99, IsOnline: true})
	conn.push(t, chat.EventUserOnlineStatus, chat.PresencePayload{UserID: 8, IsOnline: true})

	deadline := time.Now().Add(time.Second)
	for !view.PeerOnline() {
		if time.Now().After(deadline) {
			t.Fatal("peer presence never updated")
		}
		time.Sleep(time.Millisecond)
	}
	if updates.Load() == 0 {
		t.Fatal("update callback never fired")
	}
}
