package watch

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubFanOut(t *testing.T) {
	h := NewHub(nil)
	a := h.subscribe()
	b := h.subscribe()
	defer h.unsubscribe(a)
	defer h.unsubscribe(b)

	h.Publish(map[string]any{"kind": "turn_start", "game_id": "hanf"})

	for _, c := range []chan []byte{a, b} {
		select {
		case msg := <-c:
			var got map[string]any
			if err := json.Unmarshal(msg, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got["kind"] != "turn_start" {
				t.Fatalf("kind %v", got["kind"])
			}
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
}

func TestHubDropsWhenWatcherStalls(t *testing.T) {
	h := NewHub(nil)
	c := h.subscribe()
	defer h.unsubscribe(c)

	// Overfill the buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(map[string]int{"n": i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a stalled watcher")
	}
}

func TestServerStreamsFrames(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(NewServer(h, nil).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the subscription to register before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for h.Watchers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Publish(map[string]any{"kind": "move", "ship": "VFS Boethius"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["kind"] != "move" || got["ship"] != "VFS Boethius" {
		t.Fatalf("frame %v", got)
	}
}
