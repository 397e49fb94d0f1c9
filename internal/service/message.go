package service

import (
	"context"
	"time"

	"github.com/chatboard/chatboard/internal/metrics"
	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/repository"
)

// MessageService handles chat message operations.
type MessageService struct {
	store   repository.Store
	metrics metrics.Recorder
	now     func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(store repository.Store, recorder metrics.Recorder) *MessageService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MessageService{
		store:   store,
		metrics: recorder,
		now:     time.Now,
	}
}

// SendMessageInput defines input for posting a message.
type SendMessageInput struct {
	User string `validate:"required"`
	Text string `validate:"required"`
}

// ListMessages returns every message, oldest first.
func (s *MessageService) ListMessages(ctx context.Context) ([]*model.Message, error) {
	var messages []*model.Message
	err := observeStore(s.metrics, func() error {
		var err error
		messages, err = s.store.ListMessages(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage stamps the message with the server time and stores it.
// User is kept as free text and is not checked against existing users.
func (s *MessageService) SendMessage(ctx context.Context, input SendMessageInput) (*model.Message, error) {
	if err := validateInput(input, "User and text required"); err != nil {
		s.metrics.IncValidationFailure()
		return nil, err
	}

	message := &model.Message{
		User:      input.User,
		Text:      input.Text,
		CreatedAt: s.now().UTC(),
	}

	if err := observeStore(s.metrics, func() error { return s.store.CreateMessage(ctx, message) }); err != nil {
		return nil, err
	}

	s.metrics.IncMessageCreated()
	return message, nil
}
