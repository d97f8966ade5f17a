package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/advancecard/pkg/errors"
)

// Mongo defaults.
const (
	DefaultDatabase   = "advancecard"
	DefaultCollection = "cards"
)

// MongoStore keeps definitions in a MongoDB collection, one document per
// card keyed by its id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri and verifies the connection. An empty
// database selects DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, database), nil
}

// NewMongoStoreFromClient uses an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
		now:    time.Now,
	}
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*Definition, error) {
	var def Definition
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&def)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load card %q", id)
	}
	return &def, nil
}

// Put implements Store. UpdatedAt is truncated to milliseconds, the
// resolution MongoDB stores.
func (s *MongoStore) Put(ctx context.Context, def *Definition) error {
	if err := validate(def); err != nil {
		return err
	}
	def.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": def.ID}, def, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save card %q", def.ID)
	}
	return nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete card %q", id)
	}
	if res.DeletedCount == 0 {
		return NotFound(id)
	}
	return nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]Definition, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list cards")
	}
	defs := []Definition{}
	if err := cur.All(ctx, &defs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list cards")
	}
	return defs, nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
