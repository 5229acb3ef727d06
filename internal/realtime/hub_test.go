package realtime

import (
	"encoding/json"
	"testing"
)

func newTestClient(userID uint, buffer int) *Client {
	return &Client{
		userID: userID,
		send:   make(chan []byte, buffer),
	}
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub(nil)
	room := UserRoom(7)
	first := newTestClient(7, 1)
	second := newTestClient(7, 1)

	hub.Join(room, first)
	hub.Join(room, second)
	if got := hub.RoomSize(room); got != 2 {
		t.Fatalf("want room size 2, got %d", got)
	}

	hub.Leave(room, first)
	if got := hub.RoomSize(room); got != 1 {
		t.Fatalf("want room size 1 after leave, got %d", got)
	}
	if _, open := <-first.send; open {
		t.Fatalf("expected send channel closed on leave")
	}

	// 重复离开与未知房间为空操作
	hub.Leave(room, first)
	hub.Leave("messages_999", second)

	hub.Leave(room, second)
	if got := hub.RoomSize(room); got != 0 {
		t.Fatalf("want empty room reclaimed, got %d", got)
	}
}

func TestHubBroadcastSkipsSlowClients(t *testing.T) {
	hub := NewHub(nil)
	room := UserRoom(9)
	fast := newTestClient(9, 2)
	slow := newTestClient(9, 1)
	hub.Join(room, fast)
	hub.Join(room, slow)

	// 先塞满慢连接的缓冲
	slow.send <- []byte("backlog")

	delivered := hub.Broadcast(room, []byte("hello"))
	if delivered != 1 {
		t.Fatalf("want 1 delivery with slow client skipped, got %d", delivered)
	}
	if got := string(<-fast.send); got != "hello" {
		t.Fatalf("want hello delivered, got %q", got)
	}

	if delivered := hub.Broadcast("messages_404", []byte("x")); delivered != 0 {
		t.Fatalf("want 0 deliveries to empty room, got %d", delivered)
	}
}

func TestHubBroadcastEventEnvelope(t *testing.T) {
	hub := NewHub(nil)
	room := UserRoom(11)
	client := newTestClient(11, 1)
	hub.Join(room, client)

	delivered, err := hub.BroadcastEvent(room, EventNewMessage, map[string]any{"message_id": 5})
	if err != nil {
		t.Fatalf("broadcast event failed: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("want 1 delivery, got %d", delivered)
	}

	var envelope Envelope
	if err := json.Unmarshal(<-client.send, &envelope); err != nil {
		t.Fatalf("unmarshal envelope failed: %v", err)
	}
	if envelope.Event != EventNewMessage {
		t.Fatalf("want event %q, got %q", EventNewMessage, envelope.Event)
	}
}

func TestParseUserChannel(t *testing.T) {
	id, err := parseUserChannel(UserChannel(42))
	if err != nil {
		t.Fatalf("parse channel failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("want user 42, got %d", id)
	}

	for _, channel := range []string{"notify:user:", "notify:user:abc", "plainstring"} {
		if _, err := parseUserChannel(channel); err == nil {
			t.Fatalf("want error for %q", channel)
		}
	}
}
