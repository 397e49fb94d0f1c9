package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// failingStore fails every call with errStoreDown.
type failingStore struct{}

func (failingStore) ListUsers(context.Context) ([]*model.User, error) { return nil, errStoreDown }
func (failingStore) CreateUser(context.Context, *model.User) error { return errStoreDown }
func (failingStore) DeleteUser(context.Context, string) error { return errStoreDown }
func (failingStore) ListMessages(context.Context) ([]*model.Message, error) { return nil, errStoreDown }
func (failingStore) CreateMessage(context.Context, *model.Message) error { return errStoreDown }
func (failingStore) Ping(context.Context) error { return errStoreDown }
func (failingStore) Close() error { return nil }

func newStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.NewBadger("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}
