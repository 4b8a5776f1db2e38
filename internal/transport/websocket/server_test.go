package websocket

import (
	"context"
	"testing"
	"time"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := &Connection{
		userID: 1,
		send:   make(chan *Message, 1),
		hub:    hub,
	}

	hub.register <- conn
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.connections[1]) != 1 {
		t.Fatalf("expected 1 connection for user 1, got %d", len(hub.connections[1]))
	}
	hub.mu.RUnlock()

	hub.unregister <- conn
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	if len(hub.connections) != 0 {
		t.Fatalf("expected no connections after unregister, got %d", len(hub.connections))
	}
	hub.mu.RUnlock()
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := &Connection{
		userID: 7,
		send:   make(chan *Message, 4),
		hub:    hub,
	}
	hub.register <- conn
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(7, &Message{Type: "report_progress", Data: 42})

	select {
	case msg := <-conn.send:
		if msg.Type != "report_progress" {
			t.Fatalf("unexpected message type %q", msg.Type)
		}
		if msg.UserID != 7 {
			t.Fatalf("expected user id 7, got %d", msg.UserID)
		}
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestHubBroadcastOnlyToTargetUser(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice := &Connection{userID: 1, send: make(chan *Message, 4), hub: hub}
	bob := &Connection{userID: 2, send: make(chan *Message, 4), hub: hub}
	hub.register <- alice
	hub.register <- bob
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(1, &Message{Type: "report_complete"})
	time.Sleep(10 * time.Millisecond)

	select {
	case <-alice.send:
	default:
		t.Fatal("target user received nothing")
	}

	select {
	case msg := <-bob.send:
		t.Fatalf("other user unexpectedly received %q", msg.Type)
	default:
	}
}

func TestHubMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	first := &Connection{userID: 3, send: make(chan *Message, 4), hub: hub}
	second := &Connection{userID: 3, send: make(chan *Message, 4), hub: hub}
	hub.register <- first
	hub.register <- second
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(3, &Message{Type: "report_progress", Data: 50})
	time.Sleep(10 * time.Millisecond)

	for i, conn := range []*Connection{first, second} {
		select {
		case <-conn.send:
		default:
			t.Fatalf("connection %d did not receive the message", i)
		}
	}
}

func TestHubFullSendChannelDropsConnection(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// send buffer of one fills after the first message
	conn := &Connection{userID: 5, send: make(chan *Message, 1), hub: hub}
	hub.register <- conn
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(5, &Message{Type: "report_progress", Data: 10})
	hub.Broadcast(5, &Message{Type: "report_progress", Data: 20})
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.connections[5]) != 0 {
		t.Fatalf("expected connection with full buffer to be dropped, got %d", len(hub.connections[5]))
	}
}
