// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestClient connects a websocket client to the transport's handler
// through httptest, avoiding a fixed listen port.
func dialTestClient(t *testing.T, wst *WebSocketTransport) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wst.handleWebSocket)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketBroadcast(t *testing.T) {
	wst := NewWebSocketTransport("127.0.0.1:0")
	defer wst.Close()

	conn := dialTestClient(t, wst)

	snap := Snapshot{Sequence: 7}
	snap.Categories[0] = CategoryFrame{Name: "drums", Energy: 0.5, Fired: true}
	if err := wst.Send(snap); err != nil {
		t.Fatalf("Send: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Snapshot
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.Sequence != 7 {
		t.Errorf("Sequence = %d, want 7", got.Sequence)
	}
	if got.Categories[0].Name != "drums" || !got.Categories[0].Fired {
		t.Errorf("Category frame did not survive the round trip: %+v", got.Categories[0])
	}
}

func TestWebSocketSendNeverBlocks(t *testing.T) {
	wst := NewWebSocketTransport("127.0.0.1:0")
	defer wst.Close()

	// No clients connected, queue deliberately overfilled.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			wst.Send(Snapshot{Sequence: uint32(i)})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked with a full broadcast queue")
	}
}

func TestWebSocketCloseIdempotentClients(t *testing.T) {
	wst := NewWebSocketTransport("127.0.0.1:0")
	dialTestClient(t, wst)

	if err := wst.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	if len(wst.clients) != 0 {
		t.Errorf("Expected no clients after Close, got %d", len(wst.clients))
	}
}
