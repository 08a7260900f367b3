package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/terra-clan/interview-engine/internal/agent"
	"github.com/terra-clan/interview-engine/internal/models"
	"github.com/terra-clan/interview-engine/internal/orchestrator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is one frame pushed to the interview client.
type wsMessage struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// handleInterviewWS streams agent actions for one session. Each inbound
// frame is an ActionRequest routed through the orchestrator; the
// response (or a typed error) is pushed back on the same connection.
func (s *Server) handleInterviewWS(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	if _, err := s.orchestrator.Status(sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("interview websocket connected", "session_id", sessionID)

	s.sendWS(conn, wsMessage{
		Type:    "connected",
		Message: "Connected to interview session",
		Data:    map[string]any{"session_id": sessionID},
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			break
		}

		var req models.ActionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.sendWS(conn, wsMessage{Type: "error", Error: "invalid message format"})
			continue
		}

		resp, err := s.orchestrator.Route(r.Context(), sessionID, req.Agent, agent.Action(req.Action), req.Payload)
		if err != nil {
			s.sendWS(conn, wsMessage{Type: "error", Error: err.Error()})
			if errors.Is(err, orchestrator.ErrSessionClosed) {
				break
			}
			continue
		}

		s.sendWS(conn, wsMessage{
			Type:    resp.Action,
			Message: resp.Message,
			Data:    resp.Data,
		})
	}

	slog.Info("interview websocket disconnected", "session_id", sessionID)
}

func (s *Server) sendWS(conn *websocket.Conn, msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal websocket message", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send websocket message", "error", err)
	}
}
