package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/chatboard/chatboard/internal/model"
)

// Postgres stores each collection as a table of JSONB documents keyed by ULID.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store with a connection pool and makes sure
// both collection tables exist.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureCollections(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return p, nil
}

// ensureCollections creates the collection tables when missing.
func (p *Postgres) ensureCollections(ctx context.Context) error {
	for _, name := range []string{UsersCollection, MessagesCollection} {
		table := pq.QuoteIdentifier(name)
		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL,
				doc        JSONB NOT NULL
			)
		`, table)

		if _, err := p.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

// ListUsers returns all users ordered by insertion.
func (p *Postgres) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY created_at, id`, pq.QuoteIdentifier(UsersCollection))

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		var user model.User
		if err := json.Unmarshal(doc, &user); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
		}
		user.ID = id
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// CreateUser inserts a new user document.
func (p *Postgres) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = ulid.Make().String()
	return p.insert(ctx, UsersCollection, user.ID, time.Now().UTC(), user)
}

// DeleteUser removes a user by ULID.
func (p *Postgres) DeleteUser(ctx context.Context, id string) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pq.QuoteIdentifier(UsersCollection))

	tag, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListMessages returns all messages ordered by createdAt ascending.
func (p *Postgres) ListMessages(ctx context.Context) ([]*model.Message, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY created_at, id`, pq.QuoteIdentifier(MessagesCollection))

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*model.Message, 0)
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		var message model.Message
		if err := json.Unmarshal(doc, &message); err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", id, err)
		}
		message.ID = id
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// CreateMessage inserts a message document keyed by its CreatedAt.
func (p *Postgres) CreateMessage(ctx context.Context, message *model.Message) error {
	message.ID = ulid.Make().String()
	return p.insert(ctx, MessagesCollection, message.ID, message.CreatedAt, message)
}

func (p *Postgres) insert(ctx context.Context, collection, id string, createdAt time.Time, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", collection, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, created_at, doc)
		VALUES ($1, $2, $3)
	`, pq.QuoteIdentifier(collection))

	if _, err := p.pool.Exec(ctx, query, id, createdAt, string(raw)); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	return nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

var _ Store = (*Postgres)(nil)
