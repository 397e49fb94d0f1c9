// Package repository provides the document store access layer.
//
// Users and messages live in two collections. Each backend (Postgres, MongoDB,
// Badger) generates its own document identifiers and owns its concurrency
// control; no operation spans more than one document.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chatboard/chatboard/internal/model"
)

// Collection names.
const (
	UsersCollection    = "users"
	MessagesCollection = "messages"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverBadger   = "badger"
)

// Defaults shared by the server config and the seed tool.
const (
	DefaultDriver    = DriverBadger
	DefaultBadgerDir = "data"
)

// Common errors for store operations.
var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Store is the document store used by the services.
type Store interface {
	// ListUsers returns every user in insertion order.
	ListUsers(ctx context.Context) ([]*model.User, error)
	// CreateUser inserts user and sets its generated ID.
	CreateUser(ctx context.Context, user *model.User) error
	// DeleteUser removes exactly one user.
	// Returns ErrInvalidID if id is not a valid identifier for the backend
	// and ErrNotFound if no user matches.
	DeleteUser(ctx context.Context, id string) error

	// ListMessages returns every message ordered by CreatedAt ascending.
	ListMessages(ctx context.Context) ([]*model.Message, error)
	// CreateMessage inserts message as-is and sets its generated ID.
	CreateMessage(ctx context.Context, message *model.Message) error

	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a Store backend.
type Options struct {
	Driver        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	// BadgerDir is the Badger data directory. Empty runs Badger in memory.
	BadgerDir string
	Logger    *slog.Logger
}

// Open connects to the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		pg, err := NewPostgres(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case DriverMongo:
		m, err := NewMongo(ctx, opts.MongoURI, opts.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case DriverBadger:
		b, err := NewBadger(opts.BadgerDir, opts.Logger)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
