// Package preview implements an HTTP/WebSocket monitoring façade: a
// WebSocket stream of newly rendered universe frames as they're
// produced by Engine.Play, and a one-off render-frame endpoint for
// preview and test tooling.
package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/roguenand/dmxld/internal/engine"
	"github.com/roguenand/dmxld/internal/logging"
)

const (
	webSocketReadBufferSize  = 4096
	webSocketWriteBufferSize = 4096
	subscriberBacklog        = 8
)

var previewLog = logging.Default().With("preview")

// Server serves the preview façade over an *engine.Engine.
type Server struct {
	engine   *engine.Engine
	upgrader websocket.Upgrader
}

// NewServer constructs a preview Server over e.
func NewServer(e *engine.Engine) *Server {
	return &Server{
		engine: e,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  webSocketReadBufferSize,
			WriteBufferSize: webSocketWriteBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the façade's http.Handler: GET /ws upgrades to a
// WebSocket streaming rendered universe frames; GET /frame?t=
// triggers a one-off Engine.RenderFrame against the current show's
// root clip.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/frame", s.serveFrame)
	return mux
}

// frameMessage is the JSON shape streamed over /ws and returned by
// /frame: one universe's channel map per message.
type frameMessage struct {
	Universe uint16       `json:"universe"`
	Channels map[int]byte `json:"channels"`
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		previewLog.Error("upgrade websocket: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			previewLog.Warn("closing websocket: %v", err)
		}
	}()

	ch := make(chan map[uint16]map[int]byte, subscriberBacklog)
	s.engine.Subscribe(ch)
	defer s.engine.Unsubscribe(ch)

	for universeMap := range ch {
		for universe, channels := range universeMap {
			msg := frameMessage{Universe: universe, Channels: channels}
			if err := conn.WriteJSON(msg); err != nil {
				previewLog.Warn("write websocket frame: %v", err)
				return
			}
		}
	}
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	tStr := r.URL.Query().Get("t")
	t, err := strconv.ParseFloat(tStr, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid t: %v", err), http.StatusBadRequest)
		return
	}

	c := s.engine.CurrentClip()
	if c == nil {
		http.Error(w, "no show is currently playing", http.StatusServiceUnavailable)
		return
	}

	universeMap, err := s.engine.RenderFrame(c, t)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]frameMessage, 0, len(universeMap))
	for universe, channels := range universeMap {
		out = append(out, frameMessage{Universe: universe, Channels: channels})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		previewLog.Warn("encode frame response: %v", err)
	}
}
