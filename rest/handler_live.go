package rest

import (
	"net/http"

	"github.com/botweave/botweave/logger"
	"github.com/botweave/botweave/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type liveFrame struct {
	Kind    string             `json:"kind"`
	Message *model.ChatMessage `json:"message,omitempty"`
	Status  *model.StatusEvent `json:"status,omitempty"`
}

// HandleLive streams chat messages and status events over a websocket for
// live conversation display. Slow clients drop frames rather than block the
// engine's broadcast loop.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	frames := make(chan liveFrame, 64)
	push := func(frame liveFrame) {
		select {
		case frames <- frame:
		default:
		}
	}
	msgListener := s.engine.AddListener(func(msg model.ChatMessage) {
		push(liveFrame{Kind: "message", Message: &msg})
	})
	statusListener := s.engine.AddStatusListener(func(event model.StatusEvent) {
		push(liveFrame{Kind: "status", Status: &event})
	})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			s.engine.RemoveListener(msgListener)
			s.engine.RemoveStatusListener(statusListener)
			conn.Close()
		}()
		for {
			select {
			case frame := <-frames:
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
}
