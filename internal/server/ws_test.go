package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handgrain/internal/control"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestHub_NoClients(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.SendHandPoint(0, 0, 0.1, 0.2); err != nil {
		t.Errorf("SendHandPoint() error = %v", err)
	}
	if err := hub.SendParameters(control.Defaults()); err != nil {
		t.Errorf("SendParameters() error = %v", err)
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)

	if err := hub.SendHandPoint(1, 8, 0.25, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := hub.SendParameters(control.Defaults()); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var point HandPointMessage
	if err := conn.ReadJSON(&point); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if point.Type != "hand" || point.Hand != 1 || point.Index != 8 || point.X != 0.25 {
		t.Errorf("hand point = %+v", point)
	}

	var params ParametersMessage
	if err := conn.ReadJSON(&params); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if params.Type != "parameters" || len(params.Vector) != control.NumParameters {
		t.Errorf("parameters = %+v", params)
	}
	if params.Values["GrainCutOff"] != control.DefaultGrainCutOff {
		t.Errorf("GrainCutOff = %v", params.Values["GrainCutOff"])
	}
}

func TestHub_SlowClientDropsMessages(t *testing.T) {
	hub := NewHub(nil)
	dialHub(t, hub)

	// The client never reads; once its buffer and the socket fill up the hub
	// must keep returning immediately.
	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*40; i++ {
			hub.SendHandPoint(0, i%21, 0.5, 0.5)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil)
	conn := dialHub(t, hub)

	hub.Close()
	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d after Close", hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection to be closed")
	}
}

func TestParametersMessage_JSON(t *testing.T) {
	msg := ParametersMessage{Type: "parameters", Values: map[string]float64{"lfoRate": 100}}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"lfoRate":100`) {
		t.Errorf("json = %s", data)
	}
}
