package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/usecase/chat"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type ChatHandler struct {
	chatUseCase *chat.ChatUseCase
	upgrader    websocket.Upgrader
	log         *slog.Logger
}

func NewChatHandler(chatUseCase *chat.ChatUseCase, log *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ListMatches handles GET /matches
// @Summary My matches with profile, last message and unread count
// @Tags chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.MatchWithProfile
// @Router /matches [get]
func (h *ChatHandler) ListMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	matches, err := h.chatUseCase.ListMatches(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list matches"})
		return
	}
	c.JSON(http.StatusOK, matches)
}

// Messages handles GET /matches/:match_id/messages
func (h *ChatHandler) Messages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	messages, err := h.chatUseCase.Messages(c.Request.Context(), c.Param("match_id"), userID)
	if err != nil {
		h.respondChatError(c, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessageRequest carries a chat message body
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage handles POST /matches/:match_id/messages
// @Summary Send a message in a match
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /matches/{match_id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.chatUseCase.SendMessage(c.Request.Context(), c.Param("match_id"), userID, req.Content)
	if err != nil {
		h.respondChatError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Subscribe handles GET /matches/:match_id/subscribe, upgrading to a
// WebSocket that streams new messages in the match as JSON frames.
func (h *ChatHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID := c.Param("match_id")

	stream, cancel, err := h.chatUseCase.Subscribe(c.Request.Context(), matchID, userID)
	if err != nil {
		h.respondChatError(c, err, "failed to subscribe")
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer conn.Close()

	// Reader goroutine only watches for the client closing the socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload, open := <-stream:
			if !open {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *ChatHandler) respondChatError(c *gin.Context, err error, fallback string) {
	switch err {
	case domain.ErrMatchNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "match not found"})
	case domain.ErrNotMatchParticipant:
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant of this match"})
	case domain.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
