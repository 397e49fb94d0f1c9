package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/testutil"
)

// runStoreSuite exercises the Store contract against an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndListUsers", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		alice := &model.User{Name: "Alice", Email: "alice@example.com"}
		bob := &model.User{Name: "Bob", Email: "bob@example.com"}
		req.NoError(store.CreateUser(ctx, alice))
		req.NoError(store.CreateUser(ctx, bob))
		req.NotEmpty(alice.ID)
		req.NotEqual(alice.ID, bob.ID)

		users, err := store.ListUsers(ctx)
		req.NoError(err)
		req.Equal([]*model.User{alice, bob}, users)
	})

	t.Run("EmptyListsAreNotNil", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		users, err := store.ListUsers(ctx)
		req.NoError(err)
		req.NotNil(users)
		req.Empty(users)

		messages, err := store.ListMessages(ctx)
		req.NoError(err)
		req.NotNil(messages)
		req.Empty(messages)
	})

	t.Run("CreatesMinusDeletes", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		var ids []string
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			user := &model.User{Name: name, Email: name + "@example.com"}
			req.NoError(store.CreateUser(ctx, user))
			ids = append(ids, user.ID)
		}

		req.NoError(store.DeleteUser(ctx, ids[1]))
		req.NoError(store.DeleteUser(ctx, ids[3]))

		users, err := store.ListUsers(ctx)
		req.NoError(err)
		req.Len(users, 3)
		req.Equal(ids[0], users[0].ID)
		req.Equal(ids[2], users[1].ID)
		req.Equal(ids[4], users[2].ID)
	})

	t.Run("DeleteTwiceReturnsNotFound", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		user := &model.User{Name: "Alice", Email: "alice@example.com"}
		req.NoError(store.CreateUser(ctx, user))
		req.NoError(store.DeleteUser(ctx, user.ID))

		err := store.DeleteUser(ctx, user.ID)
		req.True(errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("DeleteInvalidID", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		user := &model.User{Name: "Alice", Email: "alice@example.com"}
		req.NoError(store.CreateUser(ctx, user))

		err := store.DeleteUser(ctx, "not-an-id")
		req.True(errors.Is(err, ErrInvalidID), "got %v", err)

		users, err := store.ListUsers(ctx)
		req.NoError(err)
		req.Len(users, 1)
	})

	t.Run("MessagesSortedByCreatedAt", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
		inserted := []*model.Message{
			testutil.NewTestMessage("Clara", "third", at.Add(2*time.Minute)),
			testutil.NewTestMessage("Alice", "first", at),
			testutil.NewTestMessage("Bob", "second", at.Add(1*time.Minute)),
		}
		for _, m := range inserted {
			req.NoError(store.CreateMessage(ctx, m))
			req.NotEmpty(m.ID)
		}

		messages, err := store.ListMessages(ctx)
		req.NoError(err)
		req.Len(messages, 3)
		req.Equal("first", messages[0].Text)
		req.Equal("second", messages[1].Text)
		req.Equal("third", messages[2].Text)
		req.True(messages[0].CreatedAt.Equal(at))
		req.Equal("Alice", messages[0].User)
	})

	t.Run("MessageTiesOrderedByID", func(t *testing.T) {
		req := require.New(t)
		ctx := context.Background()
		store := newStore(t)

		at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
		for _, text := range []string{"a", "b", "c"} {
			req.NoError(store.CreateMessage(ctx, testutil.NewTestMessage("Alice", text, at)))
		}

		messages, err := store.ListMessages(ctx)
		req.NoError(err)
		req.Len(messages, 3)
		for i := 1; i < len(messages); i++ {
			req.True(messages[i-1].Before(messages[i]), "%s before %s", messages[i-1].ID, messages[i].ID)
		}
	})
}
