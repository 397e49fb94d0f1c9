package handler

import (
	"log/slog"
	"net/http"

	"github.com/chatboard/chatboard/internal/handler/dto"
	"github.com/chatboard/chatboard/internal/service"
)

// MessageHandler handles HTTP requests for chat messages.
type MessageHandler struct {
	svc    *service.MessageService
	logger *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.ListMessages(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMessageListResponse(messages))
}

// Create handles POST /messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	message, err := h.svc.SendMessage(r.Context(), service.SendMessageInput{
		User: req.User,
		Text: req.Text,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("message_created", "message_id", message.ID, "user", message.User)

	writeJSON(w, http.StatusCreated, dto.ToMessageResponse(message))
}
