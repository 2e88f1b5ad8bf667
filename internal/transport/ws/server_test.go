package ws

import (
	"encoding/json"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"aquaguard.ai/internal/protocol"
	"aquaguard.ai/internal/session"
	"aquaguard.ai/internal/sim/river"
)

func testServer(t *testing.T) (*httptest.Server, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(session.Config{Seed: 777, HistoryTail: 30}, river.New(river.DefaultCoefficients()))
	srv := NewServer(mgr, log.New(testWriter{t}, "[ws-test] ", 0))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, mgr
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn, v any) string {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		t.Fatalf("decode base: %v", err)
	}
	if v != nil {
		if err := json.Unmarshal(msg, v); err != nil {
			t.Fatalf("unmarshal %s: %v", base.Type, err)
		}
	}
	return base.Type
}

func hello(t *testing.T, conn *websocket.Conn, token string) (protocol.WelcomeMsg, protocol.StateMsg) {
	t.Helper()
	h := protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, PlayerName: "tester"}
	if token != "" {
		h.Auth = &protocol.HelloAuth{ResumeToken: token}
	}
	send(t, conn, h)
	var w protocol.WelcomeMsg
	if typ := recv(t, conn, &w); typ != protocol.TypeWelcome {
		t.Fatalf("expected WELCOME, got %s", typ)
	}
	var st protocol.StateMsg
	if typ := recv(t, conn, &st); typ != protocol.TypeState {
		t.Fatalf("expected STATE, got %s", typ)
	}
	return w, st
}

func TestHandshakeAndAdvance(t *testing.T) {
	ts, _ := testServer(t)
	conn := dial(t, ts)

	w, st := hello(t, conn, "")
	if w.SessionID == "" || w.ResumeToken == "" {
		t.Fatalf("incomplete WELCOME: %+v", w)
	}
	if st.Day != 0 || st.Score != 100 {
		t.Fatalf("initial STATE day=%d score=%d", st.Day, st.Score)
	}

	send(t, conn, protocol.AdvanceMsg{
		Type:            protocol.TypeAdvance,
		ProtocolVersion: protocol.Version,
		Day:             0,
		Inputs:          protocol.InputsMsg{FactoryOutput: 3},
	})
	var next protocol.StateMsg
	if typ := recv(t, conn, &next); typ != protocol.TypeState {
		t.Fatalf("expected STATE, got %s", typ)
	}
	if next.Day != 1 {
		t.Fatalf("day after advance = %d, want 1", next.Day)
	}
	if len(next.History) != 1 || next.History[0].Day != 0 {
		t.Fatalf("history after one advance: %+v", next.History)
	}
}

func TestStaleAdvanceRejected(t *testing.T) {
	ts, _ := testServer(t)
	conn := dial(t, ts)
	hello(t, conn, "")

	adv := protocol.AdvanceMsg{Type: protocol.TypeAdvance, ProtocolVersion: protocol.Version, Day: 0}
	send(t, conn, adv)
	recv(t, conn, nil) // STATE for day 1

	// Replayed request for the day that already ran.
	send(t, conn, adv)
	var res protocol.ResultMsg
	if typ := recv(t, conn, &res); typ != protocol.TypeResult {
		t.Fatalf("expected RESULT, got %s", typ)
	}
	if res.Accepted || res.Code != protocol.ErrStale {
		t.Fatalf("stale advance result: %+v", res)
	}
	if res.Day != 1 {
		t.Fatalf("RESULT day = %d, want current day 1", res.Day)
	}
}

func TestResumePreservesSession(t *testing.T) {
	ts, _ := testServer(t)

	conn := dial(t, ts)
	w, _ := hello(t, conn, "")
	send(t, conn, protocol.AdvanceMsg{Type: protocol.TypeAdvance, ProtocolVersion: protocol.Version, Day: 0})
	recv(t, conn, nil)
	conn.Close()

	conn2 := dial(t, ts)
	w2, st := hello(t, conn2, w.ResumeToken)
	if w2.SessionID != w.SessionID {
		t.Fatalf("resumed session %s, want %s", w2.SessionID, w.SessionID)
	}
	if st.Day != 1 {
		t.Fatalf("resumed at day %d, want 1", st.Day)
	}
}

func TestResetReturnsDayZeroState(t *testing.T) {
	ts, _ := testServer(t)
	conn := dial(t, ts)
	hello(t, conn, "")

	send(t, conn, protocol.AdvanceMsg{Type: protocol.TypeAdvance, ProtocolVersion: protocol.Version, Day: 0})
	recv(t, conn, nil)

	send(t, conn, protocol.ResetMsg{Type: protocol.TypeReset, ProtocolVersion: protocol.Version})
	var st protocol.StateMsg
	if typ := recv(t, conn, &st); typ != protocol.TypeState {
		t.Fatalf("expected STATE, got %s", typ)
	}
	if st.Day != 0 || st.Score != 100 || len(st.History) != 0 {
		t.Fatalf("post-reset STATE: day=%d score=%d history=%d", st.Day, st.Score, len(st.History))
	}
}

func TestBadVersionRejected(t *testing.T) {
	ts, _ := testServer(t)
	conn := dial(t, ts)
	hello(t, conn, "")

	send(t, conn, protocol.AdvanceMsg{Type: protocol.TypeAdvance, ProtocolVersion: "0.9", Day: 0})
	var res protocol.ResultMsg
	if typ := recv(t, conn, &res); typ != protocol.TypeResult {
		t.Fatalf("expected RESULT, got %s", typ)
	}
	if res.Accepted || res.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("bad version result: %+v", res)
	}
}
