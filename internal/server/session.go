package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/DurjaMan27/hand-tracker/internal/detector"
	"github.com/DurjaMan27/hand-tracker/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message types sent to session clients.
const (
	MessageSession = "session"
	MessageZoom    = "zoom"
	MessageRotate  = "rotate"
	MessageEvent   = "event"
	MessageError   = "error"
)

// FrameMessage is one landmark frame sent by a client. T is the capture
// time in seconds; when omitted the server clock is used.
type FrameMessage struct {
	Points []detector.Point3D `json:"points"`
	T      *float64           `json:"t,omitempty"`
}

// OutMessage is a message sent to a client.
type OutMessage struct {
	Type string `json:"type"`

	// session
	ID     string          `json:"id,omitempty"`
	Config *gesture.Config `json:"config,omitempty"`

	// zoom
	Speed *float64 `json:"speed,omitempty"`

	// rotate
	Axis  *[3]float64 `json:"axis,omitempty"`
	Angle *float64    `json:"angle,omitempty"`

	// event
	Kind    gesture.EventKind `json:"kind,omitempty"`
	Phase   gesture.Phase     `json:"phase,omitempty"`
	Message string            `json:"message,omitempty"`
	T       *float64          `json:"t,omitempty"`

	// error
	Error string `json:"error,omitempty"`
}

// SessionHandler runs one gesture classifier per websocket connection.
// Clients stream landmark frames and receive manipulation deltas and
// gesture events back.
type SessionHandler struct {
	config func() gesture.Config
	logger func(sessionID string) gesture.Logger
}

// NewSessionHandler creates a SessionHandler. config is read once per new
// connection; logger may be nil.
func NewSessionHandler(config func() gesture.Config, logger func(sessionID string) gesture.Logger) *SessionHandler {
	return &SessionHandler{config: config, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	cfg := h.config()
	sess := &wsSession{conn: conn}

	var logger gesture.Logger = sess
	if h.logger != nil {
		if l := h.logger(id); l != nil {
			logger = multiLogger{l, sess}
		}
	}

	classifier, err := gesture.NewClassifier(cfg, sess, logger)
	if err != nil {
		sess.send(OutMessage{Type: MessageError, Error: err.Error()})
		return
	}

	if err := sess.send(OutMessage{Type: MessageSession, ID: id, Config: &cfg}); err != nil {
		return
	}

	start := time.Now()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("session %s: read error: %v", id, err)
			}
			return
		}

		var frame FrameMessage
		if err := json.Unmarshal(data, &frame); err != nil {
			if sess.send(OutMessage{Type: MessageError, Error: "invalid frame JSON"}) != nil {
				return
			}
			continue
		}

		t := time.Since(start).Seconds()
		if frame.T != nil {
			t = *frame.T
		}

		if err := classifier.OnPoints(frame.Points, t); err != nil {
			if sess.send(OutMessage{Type: MessageError, Error: err.Error()}) != nil {
				return
			}
		}
	}
}

// wsSession is the sink and event logger of one connection. Every write
// happens on the connection's read goroutine.
type wsSession struct {
	conn *websocket.Conn
}

func (s *wsSession) send(m OutMessage) error {
	return s.conn.WriteJSON(m)
}

func (s *wsSession) Zoom(speed float64) error {
	return s.send(OutMessage{Type: MessageZoom, Speed: &speed})
}

func (s *wsSession) Rotate(axis r3.Vec, angle float64) error {
	a := [3]float64{axis.X, axis.Y, axis.Z}
	return s.send(OutMessage{Type: MessageRotate, Axis: &a, Angle: &angle})
}

func (s *wsSession) Log(e gesture.Event) {
	t := e.Time
	if err := s.send(OutMessage{Type: MessageEvent, Kind: e.Kind, Phase: e.Phase, Message: e.Message, T: &t}); err != nil {
		log.Printf("Error sending event: %v", err)
	}
}

type multiLogger []gesture.Logger

func (m multiLogger) Log(e gesture.Event) {
	for _, l := range m {
		l.Log(e)
	}
}
