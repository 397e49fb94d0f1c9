package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/repository"
)

type output struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	MessageID string `json:"message_id,omitempty"`
	Created   bool   `json:"created"`
}

func main() {
	var (
		driver        = flag.String("driver", envOr("STORE_DRIVER", repository.DefaultDriver), "Store driver: postgres, mongo or badger")
		databaseURL   = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		mongoURI      = flag.String("mongo-uri", os.Getenv("MONGO_URI"), "MongoDB connection string")
		mongoDatabase = flag.String("mongo-database", envOr("MONGO_DB", "testdb"), "MongoDB database name")
		badgerDir     = flag.String("badger-dir", envOr("BADGER_DIR", repository.DefaultBadgerDir), "Badger data directory")
		name          = flag.String("name", "Test User", "User name")
		email         = flag.String("email", "test@example.com", "User email")
		text          = flag.String("text", "", "Optional message to post as the user")
		format        = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *driver == repository.DriverBadger && *badgerDir == "" {
		fmt.Fprintln(os.Stderr, "BADGER_DIR is required; an in-memory store would discard the seed")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, repository.Options{
		Driver:        *driver,
		DatabaseURL:   *databaseURL,
		MongoURI:      *mongoURI,
		MongoDatabase: *mongoDatabase,
		BadgerDir:     *badgerDir,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer store.Close()

	user, created, err := ensureUser(ctx, store, *name, *email)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Created: created,
	}

	if strings.TrimSpace(*text) != "" {
		message := &model.Message{User: user.Name, Text: *text, CreatedAt: time.Now().UTC()}
		if err := store.CreateMessage(ctx, message); err != nil {
			fmt.Fprintln(os.Stderr, "create message:", err)
			os.Exit(1)
		}
		out.MessageID = message.ID
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser returns the first user matching both name and email, creating
// one when none exists.
func ensureUser(ctx context.Context, store repository.Store, name, email string) (*model.User, bool, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if u.Name == name && u.Email == email {
			return u, false, nil
		}
	}

	user := &model.User{Name: name, Email: email}
	if err := store.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
