package stream

import (
	"errors"
	"testing"
	"time"
)

type fakeConn struct {
	reads chan error
	wrote chan []byte
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	err := <-f.reads
	return 0, nil, err
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.wrote <- data
	return nil
}

func waitForClient(t *testing.T, hub *Hub, workspace string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.clients[workspace])
		hub.mu.RUnlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client never registered")
}

func TestServeClientDeliversBroadcasts(t *testing.T) {
	hub := NewHub(nil)
	conn := &fakeConn{reads: make(chan error, 1), wrote: make(chan []byte, 1)}

	finished := make(chan struct{})
	go func() {
		serveClient(hub, conn, "ws-1")
		close(finished)
	}()
	waitForClient(t, hub, "ws-1")

	hub.Broadcast("ws-1", []byte("event"))
	select {
	case msg := <-conn.wrote:
		if string(msg) != "event" {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for write")
	}

	conn.reads <- errors.New("peer gone")
	select {
	case <-finished:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("handler did not return after disconnect")
	}
}

func TestServeClientExitsOnQuietWorkspace(t *testing.T) {
	hub := NewHub(nil)
	conn := &fakeConn{reads: make(chan error, 1), wrote: make(chan []byte)}

	finished := make(chan struct{})
	go func() {
		serveClient(hub, conn, "ws-quiet")
		close(finished)
	}()

	// peer disconnects before any broadcast ever reaches the workspace
	conn.reads <- errors.New("peer gone")

	select {
	case <-finished:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("handler leaked on quiet workspace")
	}

	hub.mu.RLock()
	_, registered := hub.clients["ws-quiet"]
	hub.mu.RUnlock()
	if registered {
		t.Fatalf("registration not cleaned up")
	}
}
