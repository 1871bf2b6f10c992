package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsReadLimit = 64 << 10
	wsPongWait  = 60 * time.Second
	wsWriteWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// chatWS answers each JSON message {question, topic_id} with one JSON
// reply on the same connection. The session is fixed at upgrade time.
func (s *Server) chatWS(c *gin.Context) {
	if s.deps.Chat == nil {
		respondError(c, http.StatusServiceUnavailable, "no_chat", errors.New("chat is not configured"))
		return
	}
	id := c.GetString(sessionKey)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, http.Header{SessionHeader: []string{id}})
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	ctx := c.Request.Context()
	for {
		var req askRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket closed", "session_id", id, "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var out any
		reply, err := s.deps.Chat.HandleTopic(ctx, id, req.Question, req.TopicID)
		if err != nil {
			s.log.Error("chat failed", "session_id", id, "error", err)
			out = ErrorEnvelope{Error: APIError{Message: err.Error(), Code: "chat_failed"}}
		} else {
			out = chatResponse{Reply: reply, SessionID: id}
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(out); err != nil {
			s.log.Warn("websocket write failed", "session_id", id, "error", err)
			return
		}
	}
}
