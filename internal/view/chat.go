package view

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/chatboard/chatboard/internal/model"
)

// ChatState is an immutable snapshot of the Chat view.
type ChatState struct {
	Status   Status
	Messages []model.Message
	Users    []model.User
	Sender   string
	Text     string
	Error    string
}

// CanSend reports whether the send form is enabled.
func (s ChatState) CanSend() bool { return len(s.Users) > 0 }

// ChatView shows the message history and posts messages as a chosen user.
// It stays loading until the first user list arrives; messages are
// fetched independently of users.
type ChatView struct {
	api MessagesAPI

	mu         sync.Mutex
	usersKnown bool
	users      []model.User
	messages   []model.Message
	sender     string
	chosen     bool
	text       string
	errMsg     string
	fetches    versioned
}

// NewChatView creates a view in the loading state.
func NewChatView(api MessagesAPI) *ChatView {
	return &ChatView{
		api:      api,
		users:    []model.User{},
		messages: []model.Message{},
	}
}

// SetUsers replaces the known users. Until a sender is chosen explicitly
// the sender follows the first user of the latest list.
func (v *ChatView) SetUsers(users []model.User) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.usersKnown = true
	v.users = append(make([]model.User, 0, len(users)), users...)
	if v.chosen {
		return
	}
	v.sender = ""
	if len(users) > 0 {
		v.sender = users[0].Name
	}
}

// SelectSender picks the user messages are sent as. Only known user names
// are accepted.
func (v *ChatView) SelectSender(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !lo.ContainsBy(v.users, func(u model.User) bool { return u.Name == name }) {
		return false
	}
	v.sender = name
	v.chosen = true
	return true
}

// SetText replaces the message input.
func (v *ChatView) SetText(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = text
}

// FetchMessages reloads the history, oldest first. Responses overtaken by
// a newer fetch are dropped.
func (v *ChatView) FetchMessages(ctx context.Context) error {
	v.mu.Lock()
	version := v.fetches.next()
	v.mu.Unlock()

	messages, err := v.api.ListMessages(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Before(&messages[j])
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fetches.accept(version) {
		v.messages = messages
	}
	return nil
}

// Send posts the current text as the selected sender, clears the input and
// re-fetches the history. With no users, or an empty field, nothing is
// posted. The list is never appended to optimistically.
func (v *ChatView) Send(ctx context.Context) error {
	v.mu.Lock()
	if len(v.users) == 0 {
		v.mu.Unlock()
		return ErrNoUsers
	}
	sender, text := v.sender, v.text
	v.mu.Unlock()

	if sender == "" || text == "" {
		return ErrIncomplete
	}

	if _, err := v.api.SendMessage(ctx, sender, text); err != nil {
		v.mu.Lock()
		v.errMsg = MsgSendFailed
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.text = ""
	v.errMsg = ""
	v.mu.Unlock()

	return v.FetchMessages(ctx)
}

// Snapshot returns a copy of the current state.
func (v *ChatView) Snapshot() ChatState {
	v.mu.Lock()
	defer v.mu.Unlock()

	status := StatusReady
	switch {
	case !v.usersKnown:
		status = StatusLoading
	case v.errMsg != "":
		status = StatusError
	}

	return ChatState{
		Status:   status,
		Messages: append(make([]model.Message, 0, len(v.messages)), v.messages...),
		Users:    append(make([]model.User, 0, len(v.users)), v.users...),
		Sender:   v.sender,
		Text:     v.text,
		Error:    v.errMsg,
	}
}
