package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps collections one to one onto MongoDB collections and uses
// the document id as _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(database),
		now:    time.Now,
	}
}

// EnsureIndex creates a single field index, used for the listing sort.
func (s *MongoStore) EnsureIndex(ctx context.Context, collection, field string, descending bool) error {
	if !ValidField(field) {
		return fmt.Errorf("%q: %w", field, ErrInvalidField)
	}
	dir := 1
	if descending {
		dir = -1
	}
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: dir}},
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("mongo find error: %w", err)
	}
	delete(raw, "_id")
	return normalizeDocument(raw), nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data Document, merge bool) error {
	coll := s.db.Collection(collection)
	filter := bson.M{"_id": id}

	if merge {
		if len(data) == 0 {
			return nil
		}
		_, err := coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M(data)}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("mongo update error: %w", err)
		}
		return nil
	}

	if _, err := coll.ReplaceOne(ctx, filter, bson.M(data), options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo replace error: %w", err)
	}
	return nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, data Document) (string, error) {
	id := uuid.NewString()
	doc := bson.M{"_id": id}
	for k, v := range data {
		doc[k] = v
	}
	doc[CreatedAtField] = s.now().UTC()

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo insert error: %w", err)
	}
	return id, nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	opts := options.Find()
	if q.OrderBy != "" {
		if !ValidField(q.OrderBy) {
			return nil, fmt.Errorf("%q: %w", q.OrderBy, ErrInvalidField)
		}
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find error: %w", err)
	}
	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("mongo cursor error: %w", err)
	}

	out := make([]Snapshot, 0, len(raws))
	for _, raw := range raws {
		id := fmt.Sprint(raw["_id"])
		delete(raw, "_id")
		out = append(out, Snapshot{ID: id, Data: normalizeDocument(raw)})
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func normalizeDocument(raw map[string]any) Document {
	doc := make(Document, len(raw))
	for k, v := range raw {
		doc[k] = normalizeValue(v)
	}
	return doc
}

// normalizeValue strips driver types so callers only see plain Go values.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.M:
		return map[string]any(normalizeDocument(x))
	case map[string]any:
		return map[string]any(normalizeDocument(x))
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	case int32:
		return int64(x)
	default:
		return v
	}
}
