package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/stagelight-core/internal/infrastructure/config"
)

// dialWS connects a WebSocket client to a running test server.
func dialWS(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v (resp: %+v)", url, err, resp)
	}
	if resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()

	//nolint:errcheck // test deadline
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	return msg
}

func TestWebSocket_SubscribeAndBroadcast(t *testing.T) {
	srv, _, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, ts, "")

	// Subscribe to playback events
	err := conn.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelPlaybackChanged}},
	})
	if err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	resp := readMessage(t, conn)
	if resp.Type != WSTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}

	// Broadcast lands on the subscribed client
	srv.hub.Broadcast(ChannelPlaybackChanged, map[string]any{
		"cue_list_id": "cl-act1",
		"cue_index":   2,
	})

	event := readMessage(t, conn)
	if event.Type != WSTypeEvent || event.EventType != ChannelPlaybackChanged {
		t.Fatalf("event = %+v", event)
	}
	payload, _ := event.Payload.(map[string]any)
	if payload["cue_list_id"] != "cl-act1" {
		t.Errorf("payload = %v", payload)
	}
}

func TestWebSocket_UnsubscribedChannelIsSilent(t *testing.T) {
	srv, _, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, ts, "")

	err := conn.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelFadeCompleted}},
	})
	if err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	readMessage(t, conn) // subscribe ack

	// An event on a channel this client did not ask for
	srv.hub.Broadcast(ChannelDMXRateChanged, map[string]any{"rate_hz": 1.0})

	//nolint:errcheck // short deadline is the assertion
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg WSMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("received event for unsubscribed channel: %+v", msg)
	}
}

func TestWebSocket_FadeCompletedEvent(t *testing.T) {
	srv, _, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, ts, "")

	err := conn.WriteJSON(WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelFadeCompleted}},
	})
	if err != nil {
		t.Fatalf("write subscribe: %v", err)
	}
	readMessage(t, conn) // subscribe ack

	// The fade engine calls this with the finished fade's id.
	srv.fadeCompleted("house-dim")

	event := readMessage(t, conn)
	if event.Type != WSTypeEvent || event.EventType != ChannelFadeCompleted {
		t.Fatalf("event = %+v", event)
	}
	payload, _ := event.Payload.(map[string]any)
	if payload["fade_id"] != "house-dim" {
		t.Errorf("payload = %v, want fade_id house-dim", payload)
	}
}

func TestWebSocket_Ping(t *testing.T) {
	srv, _, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	conn := dialWS(t, ts, "")

	if err := conn.WriteJSON(WSMessage{Type: WSTypePing, ID: "p1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	resp := readMessage(t, conn)
	if resp.Type != WSTypePong || resp.ID != "p1" {
		t.Errorf("pong = %+v", resp)
	}
}

func TestWebSocket_AuthToken(t *testing.T) {
	srv, _, _ := testServer(t)
	srv.secCfg.JWT = config.JWTConfig{Enabled: true, Secret: testJWTSecret}
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	// Without a token the upgrade is refused
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial without token succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("resp = %+v, want 401", resp)
	}
	resp.Body.Close()

	// With a valid token the upgrade succeeds
	token := signedToken(t, testJWTSecret, time.Now().Add(time.Hour))
	conn := dialWS(t, ts, "?token="+token)
	if err := conn.WriteJSON(WSMessage{Type: WSTypePing, ID: "p1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if resp := readMessage(t, conn); resp.Type != WSTypePong {
		t.Errorf("pong = %+v", resp)
	}
}
