package dbmongo

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"messageapi/internal/message"
)

type messageDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Body        string    `bson:"body"`
	CreatedDate time.Time `bson:"created_date"`
	UpdatedDate time.Time `bson:"updated_date"`
}

func toDocument(m *message.Message) messageDocument {
	return messageDocument{
		ID:          m.ID.String(),
		Title:       m.Title,
		Body:        m.Body,
		CreatedDate: m.CreatedDate,
		UpdatedDate: m.UpdatedDate,
	}
}

func (d messageDocument) toMessage() (*message.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", d.ID, err)
	}
	return &message.Message{
		ID:          id,
		Title:       d.Title,
		Body:        d.Body,
		CreatedDate: d.CreatedDate.UTC(),
		UpdatedDate: d.UpdatedDate.UTC(),
	}, nil
}

// MessageStore keeps messages in a MongoDB collection keyed by their UUID.
type MessageStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

func NewMessageStore(mc *MongoClient, collection string, logger *slog.Logger) *MessageStore {
	return &MessageStore{
		client:     mc.Client,
		collection: mc.Database.Collection(collection),
		logger:     logger.With("component", "store", "driver", "mongo"),
	}
}

// EnsureIndexes creates the index backing the listing order.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    listSort(),
		Options: options.Index().SetName("created_date_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

func (s *MessageStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MessageStore) Insert(ctx context.Context, m *message.Message) error {
	if _, err := s.collection.InsertOne(ctx, toDocument(m)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &message.ConflictError{ID: m.ID}
		}
		s.logger.ErrorContext(ctx, "Failed to insert message", "id", m.ID, "error", err)
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// Update writes title, body and updated date. The created date is never rewritten.
func (s *MessageStore) Update(ctx context.Context, m *message.Message) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: m.Title},
		{Key: "body", Value: m.Body},
		{Key: "updated_date", Value: m.UpdatedDate},
	}}}

	res, err := s.collection.UpdateByID(ctx, m.ID.String(), update)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", message.ErrNotFound, m.ID)
	}
	return nil
}

func (s *MessageStore) List(ctx context.Context, f message.Filter, p message.Page) ([]*message.Message, int64, error) {
	filter := filterDocument(f)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}
	if total == 0 {
		return []*message.Message{}, 0, nil
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions(p))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode messages: %w", err)
	}

	result := make([]*message.Message, 0, len(docs))
	for _, doc := range docs {
		m, err := doc.toMessage()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, m)
	}
	return result, total, nil
}

func (s *MessageStore) Purge(ctx context.Context) error {
	res, err := s.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("failed to purge messages: %w", err)
	}
	s.logger.InfoContext(ctx, "Purged messages", "count", res.DeletedCount)
	return nil
}

// filterDocument translates a Filter into a query. The title pattern is
// quoted and carries no options, so it is a literal case-sensitive substring.
func filterDocument(f message.Filter) bson.D {
	filter := bson.D{}
	if f.ID != nil {
		filter = append(filter, bson.E{Key: "_id", Value: f.ID.String()})
	}
	if f.Title != "" {
		filter = append(filter, bson.E{Key: "title", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Title)}})
	}
	return filter
}

func listSort() bson.D {
	return bson.D{{Key: "created_date", Value: 1}, {Key: "_id", Value: 1}}
}

func findOptions(p message.Page) *options.FindOptions {
	opts := options.Find().SetSort(listSort())
	if !p.Unbounded() {
		opts.SetLimit(int64(p.Size))
		if offset := p.Offset(); offset > 0 {
			opts.SetSkip(int64(offset))
		}
	}
	return opts
}
