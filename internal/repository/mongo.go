package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/chatboard/chatboard/internal/model"
)

// Mongo stores users and messages as MongoDB documents keyed by ObjectID.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

type userDocument struct {
	ID    bson.ObjectID `bson:"_id,omitempty"`
	Name  string        `bson:"name"`
	Email string        `bson:"email"`
}

type messageDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	User      string        `bson:"user"`
	Text      string        `bson:"text"`
	CreatedAt time.Time     `bson:"createdAt"`
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Mongo{client: client, db: client.Database(database)}, nil
}

// ListUsers returns all users in natural order.
func (m *Mongo) ListUsers(ctx context.Context) ([]*model.User, error) {
	cursor, err := m.db.Collection(UsersCollection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, &model.User{
			ID:    doc.ID.Hex(),
			Name:  doc.Name,
			Email: doc.Email,
		})
	}
	return users, nil
}

// CreateUser inserts a user document.
func (m *Mongo) CreateUser(ctx context.Context, user *model.User) error {
	doc := userDocument{
		ID:    bson.NewObjectID(),
		Name:  user.Name,
		Email: user.Email,
	}

	if _, err := m.db.Collection(UsersCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

// DeleteUser removes a user by hex ObjectID.
func (m *Mongo) DeleteUser(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	result, err := m.db.Collection(UsersCollection).DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMessages returns all messages sorted by createdAt ascending.
func (m *Mongo) ListMessages(ctx context.Context) ([]*model.Message, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := m.db.Collection(MessagesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]*model.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, &model.Message{
			ID:        doc.ID.Hex(),
			User:      doc.User,
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	return messages, nil
}

// CreateMessage inserts a message document.
// MongoDB keeps millisecond precision, so CreatedAt is truncated to match.
func (m *Mongo) CreateMessage(ctx context.Context, message *model.Message) error {
	message.CreatedAt = message.CreatedAt.Truncate(time.Millisecond)
	doc := messageDocument{
		ID:        bson.NewObjectID(),
		User:      message.User,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}

	if _, err := m.db.Collection(MessagesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	message.ID = doc.ID.Hex()
	return nil
}

// Ping checks MongoDB connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to disconnect mongo: %w", err)
	}
	return nil
}

var _ Store = (*Mongo)(nil)
