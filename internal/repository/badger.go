package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/oklog/ulid/v2"

	"github.com/chatboard/chatboard/internal/model"
)

// Badger is an embedded document store.
//
// Keys are laid out so that a prefix scan yields the listing order:
//
//	users:{ulid}
//	messages:{created_at unix nanos, 19-digit zero padded}:{ulid}
type Badger struct {
	db *badger.DB
}

// NewBadger opens a Badger store in dir. An empty dir keeps everything in memory.
func NewBadger(dir string, logger *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: logger.With("component", "badger")})
	} else {
		opts = opts.WithLoggingLevel(badger.ERROR)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &Badger{db: db}, nil
}

func userKey(id string) []byte {
	return []byte(UsersCollection + ":" + id)
}

func messageKey(m *model.Message) []byte {
	return []byte(fmt.Sprintf("%s:%019d:%s", MessagesCollection, m.CreatedAt.UnixNano(), m.ID))
}

// ListUsers returns all users. ULIDs sort by creation time.
func (b *Badger) ListUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	err := b.scan(ctx, UsersCollection, func(value []byte) error {
		var user model.User
		if err := json.Unmarshal(value, &user); err != nil {
			return fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser stores a new user document.
func (b *Badger) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = ulid.Make().String()
	if err := b.put(userKey(user.ID), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// DeleteUser removes a user by ULID.
func (b *Badger) DeleteUser(ctx context.Context, id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	key := userKey(id)
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListMessages returns all messages ordered by createdAt ascending.
func (b *Badger) ListMessages(ctx context.Context) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := b.scan(ctx, MessagesCollection, func(value []byte) error {
		var message model.Message
		if err := json.Unmarshal(value, &message); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, &message)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// CreateMessage stores a message under a key ordered by its CreatedAt.
func (b *Badger) CreateMessage(ctx context.Context, message *model.Message) error {
	message.ID = ulid.Make().String()
	if err := b.put(messageKey(message), message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (b *Badger) put(key []byte, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, raw)
	})
}

// scan calls fn with every value of a collection in key order.
func (b *Badger) scan(ctx context.Context, collection string, fn func(value []byte) error) error {
	prefix := []byte(collection + ":")
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// Ping reports whether the database is still open.
func (b *Badger) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}

var _ Store = (*Badger)(nil)

// badgerLogger routes Badger's internal logging to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
