package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsReadLimit  = 4096
	wsWriteWait  = 10 * time.Second
	wsIdleExpiry = 10 * time.Minute
)

type wsReply struct {
	*Panel
	Error *APIError `json:"error,omitempty"`
}

// handleWS answers every range message of a session with a fresh panel.
// Messages are handled one at a time, in order.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log := s.log.With("session_id", sessionID)
	s.metrics.wsSessions.Inc()
	defer s.metrics.wsSessions.Dec()
	log.InfoContext(r.Context(), "websocket session opened")

	conn.SetReadLimit(wsReadLimit)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleExpiry))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			break
		}
		reply := s.answer(msg)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("websocket write failed", "error", err)
			break
		}
	}
	log.Info("websocket session closed")
}

func (s *Server) answer(msg []byte) wsReply {
	var rng Range
	if err := json.Unmarshal(msg, &rng); err != nil {
		s.metrics.rejected.WithLabelValues("invalid_range").Inc()
		return wsReply{Error: errInvalidRange([]FieldError{{Field: "range", Message: "expected {\"lo\": year, \"hi\": year}"}})}
	}
	if errs := s.checkRange(rng); len(errs) > 0 {
		s.metrics.rejected.WithLabelValues("invalid_range").Inc()
		return wsReply{Error: errInvalidRange(errs)}
	}
	p, err := s.buildPanel(rng, "ws")
	if err != nil {
		s.log.Error("render panel", "error", err)
		return wsReply{Error: errUnavailable("could not render charts")}
	}
	return wsReply{Panel: &p}
}
