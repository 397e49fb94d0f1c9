package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/chatboard/chatboard/internal/model"
)

// SendMessageRequest represents the request body for posting a message.
type SendMessageRequest struct {
	User string `json:"user"`
	Text string `json:"text"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToMessageResponse converts a Message model to MessageResponse DTO.
func ToMessageResponse(message *model.Message) *MessageResponse {
	return &MessageResponse{
		ID:        message.ID,
		User:      message.User,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
}

// ToMessageListResponse converts messages to a JSON array, never null.
func ToMessageListResponse(messages []*model.Message) []MessageResponse {
	return lo.Map(messages, func(message *model.Message, _ int) MessageResponse {
		return *ToMessageResponse(message)
	})
}
