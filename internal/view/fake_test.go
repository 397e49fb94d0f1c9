package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chatboard/chatboard/internal/model"
)

var errBackend = errors.New("backend unavailable")

// fakeAPI is an in-memory data layer that records every call.
type fakeAPI struct {
	mu       sync.Mutex
	users    []model.User
	messages []model.Message
	nextID   int
	calls    []string

	failList   error
	failCreate error
	failDelete error
	failSend   error
	failListMs error
	// listMsDelay holds ListMessages back; a cancelled ctx aborts it.
	listMsDelay time.Duration
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GET /api/users")
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]model.User{}, f.users...), nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, name, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("POST /api/users")
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextID++
	u := model.User{ID: fmt.Sprintf("u%d", f.nextID), Name: name, Email: email}
	f.users = append(f.users, u)
	return &u, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DELETE /api/users/" + id)
	if f.failDelete != nil {
		return f.failDelete
	}
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return errors.New("user not found")
}

func (f *fakeAPI) ListMessages(ctx context.Context) ([]model.Message, error) {
	f.mu.Lock()
	f.record("GET /messages")
	delay := f.listMsDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListMs != nil {
		return nil, f.failListMs
	}
	return append([]model.Message{}, f.messages...), nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, user, text string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("POST /messages")
	if f.failSend != nil {
		return nil, f.failSend
	}
	f.nextID++
	m := model.Message{
		ID:        fmt.Sprintf("m%d", f.nextID),
		User:      user,
		Text:      text,
		CreatedAt: time.Date(2026, 10, 15, 10, 0, f.nextID, 0, time.UTC),
	}
	f.messages = append(f.messages, m)
	return &m, nil
}

// memGate is an in-memory RegistrationGate.
type memGate struct {
	mu         sync.Mutex
	registered bool
	err        error
}

func (g *memGate) Registered() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.registered
}

func (g *memGate) MarkRegistered() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.registered = true
	return nil
}

func always(answer bool) Confirmer {
	return ConfirmFunc(func(string) bool { return answer })
}

func countCalls(calls []string, call string) int {
	n := 0
	for _, c := range calls {
		if c == call {
			n++
		}
	}
	return n
}
