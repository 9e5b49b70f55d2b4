package server

import (
	"math"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/DurjaMan27/hand-tracker/internal/detector"
	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

type sessionLogs struct {
	mu     sync.Mutex
	ids    []string
	events []gesture.Event
}

func (s *sessionLogs) forSession(id string) gesture.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return gesture.LoggerFunc(func(e gesture.Event) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.events = append(s.events, e)
	})
}

func (s *sessionLogs) kinds() []gesture.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kinds []gesture.EventKind
	for _, e := range s.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func dialSession(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/session"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) OutMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg OutMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func sendFrame(t *testing.T, conn *websocket.Conn, hand detector.HandLandmarks, ts float64) {
	t.Helper()
	if err := conn.WriteJSON(FrameMessage{Points: hand.Points[:], T: &ts}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
}

func TestSession_ZoomWorkflow(t *testing.T) {
	logs := &sessionLogs{}
	ts := httptest.NewServer(New(Config{SessionLogger: logs.forSession}))
	defer ts.Close()

	conn := dialSession(t, ts)

	// 1. Session handshake carries the id and effective config
	hello := readMessage(t, conn)
	if hello.Type != MessageSession {
		t.Fatalf("first message type = %q, want %q", hello.Type, MessageSession)
	}
	if hello.ID == "" {
		t.Error("session id should be set")
	}
	if hello.Config == nil {
		t.Fatal("session config should be set")
	}
	if diff := cmp.Diff(gesture.DefaultConfig(), *hello.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// 2. Closed fist arms
	sendFrame(t, conn, detector.ClosedFistLandmarks(), 0.0)
	msg := readMessage(t, conn)
	if msg.Type != MessageEvent || msg.Kind != gesture.EventFistArmed {
		t.Fatalf("got %+v, want fist_armed event", msg)
	}
	if msg.Phase != gesture.PhaseFistArmed {
		t.Errorf("phase = %q, want %q", msg.Phase, gesture.PhaseFistArmed)
	}

	// 3. A wide pinch starts zooming out
	sendFrame(t, conn, detector.ZoomPoseLandmarks(0.20), 0.0)
	msg = readMessage(t, conn)
	if msg.Type != MessageEvent || msg.Kind != gesture.EventZoomingOut {
		t.Fatalf("got %+v, want zooming_out event", msg)
	}

	// 4. Closing the pinch streams a zoom delta once the window fills
	for i, pinch := range []float64{0.19, 0.18, 0.17, 0.10} {
		sendFrame(t, conn, detector.ZoomPoseLandmarks(pinch), 0.1*float64(i+1))
	}
	msg = readMessage(t, conn)
	if msg.Type != MessageZoom || msg.Speed == nil {
		t.Fatalf("got %+v, want zoom message", msg)
	}
	if math.Abs(*msg.Speed-(-0.25)) > 1e-9 {
		t.Errorf("zoom speed = %v, want -0.25", *msg.Speed)
	}

	// 5. The session logger saw the same transitions
	want := []gesture.EventKind{gesture.EventFistArmed, gesture.EventZoomingOut}
	if diff := cmp.Diff(want, logs.kinds()); diff != "" {
		t.Errorf("logged events mismatch (-want +got):\n%s", diff)
	}
	logs.mu.Lock()
	ids := append([]string(nil), logs.ids...)
	logs.mu.Unlock()
	if len(ids) != 1 || ids[0] != hello.ID {
		t.Errorf("logger session ids = %v, want [%s]", ids, hello.ID)
	}
}

func TestSession_MalformedFrames(t *testing.T) {
	ts := httptest.NewServer(New(Config{}))
	defer ts.Close()

	conn := dialSession(t, ts)
	readMessage(t, conn)

	t.Run("invalid JSON", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
			t.Fatal(err)
		}
		msg := readMessage(t, conn)
		if msg.Type != MessageError || msg.Error != "invalid frame JSON" {
			t.Errorf("got %+v, want invalid frame JSON error", msg)
		}
	})

	t.Run("wrong landmark count", func(t *testing.T) {
		frame := FrameMessage{Points: make([]detector.Point3D, 3)}
		if err := conn.WriteJSON(frame); err != nil {
			t.Fatal(err)
		}
		msg := readMessage(t, conn)
		if msg.Type != MessageError || !strings.Contains(msg.Error, detector.ErrMalformedFrame.Error()) {
			t.Errorf("got %+v, want malformed frame error", msg)
		}
	})

	t.Run("connection survives", func(t *testing.T) {
		sendFrame(t, conn, detector.ClosedFistLandmarks(), 1.0)
		msg := readMessage(t, conn)
		if msg.Kind != gesture.EventFistArmed {
			t.Errorf("got %+v, want fist_armed event", msg)
		}
	})
}

func TestSession_IndependentClassifiers(t *testing.T) {
	ts := httptest.NewServer(New(Config{}))
	defer ts.Close()

	a := dialSession(t, ts)
	b := dialSession(t, ts)
	helloA := readMessage(t, a)
	helloB := readMessage(t, b)

	if helloA.ID == helloB.ID {
		t.Errorf("sessions share id %q", helloA.ID)
	}

	sendFrame(t, a, detector.ClosedFistLandmarks(), 0.0)
	if msg := readMessage(t, a); msg.Kind != gesture.EventFistArmed {
		t.Fatalf("session a got %+v, want fist_armed", msg)
	}

	// b was never armed, so a zoom pose does nothing there and the fist
	// still arms it.
	sendFrame(t, b, detector.ZoomPoseLandmarks(0.05), 0.0)
	sendFrame(t, b, detector.ClosedFistLandmarks(), 0.1)
	if msg := readMessage(t, b); msg.Kind != gesture.EventFistArmed {
		t.Errorf("session b got %+v, want fist_armed", msg)
	}
}
