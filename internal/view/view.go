// Package view holds the frontend view state machines. Views own their
// state, call the data layer and re-fetch after every mutation; rendering
// is a pure function of a state snapshot.
package view

import (
	"context"
	"errors"

	"github.com/chatboard/chatboard/internal/model"
)

// Status is the coarse state a view renders from.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Messages shown in the error state.
const (
	MsgAddFailed         = "Failed to add user"
	MsgDeleteFailed      = "Failed to delete user"
	MsgSendFailed        = "Failed to send message"
	MsgAlreadyRegistered = "You have already registered a user from this computer."
	MsgNoUsers           = "No registered users. Please add a user before sending a message."
)

var (
	// ErrIncomplete is returned when a form is submitted with an empty field.
	// No request is made.
	ErrIncomplete = errors.New("all fields are required")
	// ErrAlreadyRegistered is returned when the device already created a user.
	ErrAlreadyRegistered = errors.New("already registered from this device")
	// ErrNoUsers is returned when sending with no users to send as.
	ErrNoUsers = errors.New("no registered users")
)

// UsersAPI is the part of the data layer the Users view needs.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// MessagesAPI is the part of the data layer the Chat view needs.
type MessagesAPI interface {
	ListMessages(ctx context.Context) ([]model.Message, error)
	SendMessage(ctx context.Context, user, text string) (*model.Message, error)
}

// Confirmer asks the person at the keyboard to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// versioned hands out request versions and accepts only responses newer
// than the last one applied. Callers hold the owning view's lock.
type versioned struct {
	issued  uint64
	applied uint64
}

func (v *versioned) next() uint64 {
	v.issued++
	return v.issued
}

// accept reports whether a response for version n may be applied and
// records it if so.
func (v *versioned) accept(n uint64) bool {
	if n <= v.applied {
		return false
	}
	v.applied = n
	return true
}

// latest reports whether n is the most recently issued version.
func (v *versioned) latest(n uint64) bool {
	return n == v.issued
}
