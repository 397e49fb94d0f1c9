package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chatboard/chatboard/internal/model"
)

// API is the full data layer. *client.Client implements it.
type API interface {
	UsersAPI
	MessagesAPI
}

// App composes the Users and Chat views. Every user list the Users view
// applies is forwarded to the Chat view.
type App struct {
	Users *UsersView
	Chat  *ChatView
}

// NewApp wires both views to api.
func NewApp(api API, gate RegistrationGate, confirm Confirmer) *App {
	app := &App{
		Users: NewUsersView(api, gate, confirm),
		Chat:  NewChatView(api),
	}
	app.Users.OnUsers(func(users []model.User) { app.Chat.SetUsers(users) })
	return app
}

// Mount performs the initial fetches. Users and messages load
// concurrently and independently: a failing fetch does not cancel the
// other. The first failure is returned once both have finished.
func (a *App) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return a.Users.Fetch(ctx) })
	g.Go(func() error { return a.Chat.FetchMessages(ctx) })
	return g.Wait()
}
