package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastReachesClient(t *testing.T) {
	s := testServer(t)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.hub.BroadcastProgress("build", "loading", "loading chapters", 40)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var msg ProgressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("broadcast is not valid JSON: %v", err)
	}
	if msg.Type != "progress" || msg.Operation != "build" || msg.Progress != 40 {
		t.Errorf("message = %+v", msg)
	}
	if msg.Timestamp == "" {
		t.Error("timestamp not stamped")
	}
}

func TestBroadcastVariants(t *testing.T) {
	s := testServer(t)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s.hub.BroadcastComplete("export", "snapshot written", map[string]interface{}{"path": "out.json"})
	s.hub.BroadcastError("export", "disk full")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var types []string
	for len(types) < 2 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading broadcast: %v", err)
		}
		// Queued messages may be flushed newline-separated in one frame.
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			var msg ProgressMessage
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				t.Fatalf("broadcast is not valid JSON: %v", err)
			}
			types = append(types, msg.Type)
			if msg.Type == "complete" && msg.Progress != 100 {
				t.Errorf("complete message progress = %d, want 100", msg.Progress)
			}
		}
	}

	if types[0] != "complete" || types[1] != "error" {
		t.Errorf("message types = %v, want [complete error]", types)
	}
}

func TestExportBroadcastsToClients(t *testing.T) {
	s := testServer(t)
	go s.hub.Run()

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(ts.URL + "/export?chapter=1")
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msgs []ProgressMessage
	for len(msgs) < 2 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading broadcast: %v", err)
		}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			var msg ProgressMessage
			if err := json.Unmarshal([]byte(line), &msg); err != nil {
				t.Fatalf("broadcast is not valid JSON: %v", err)
			}
			msgs = append(msgs, msg)
		}
	}

	if msgs[0].Type != "progress" || msgs[1].Type != "complete" {
		t.Fatalf("message types = [%s %s], want [progress complete]", msgs[0].Type, msgs[1].Type)
	}
	for _, msg := range msgs {
		if msg.Operation != "export" {
			t.Errorf("operation = %q, want export", msg.Operation)
		}
	}
}

func TestHubDisconnectsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte)} // unbuffered, never drained
	hub.register <- client

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastProgress("build", "stage", "msg", 1)

	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not disconnected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
