package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed version store for the API server.
// Version numbers are allocated through an atomic counter document
// per project, so concurrent saves never collide.
type MongoStore struct {
	client   *mongo.Client
	versions *mongo.Collection
	counters *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store backed by the
// given database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		versions: db.Collection("versions"),
		counters: db.Collection("counters"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique (project, number) index.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.versions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project", Value: 1}, {Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// nextNumber atomically allocates the next version number for a project.
func (s *MongoStore) nextNumber(ctx context.Context, project string) (int64, error) {
	res := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": project},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Save stores a document as the project's next version.
func (s *MongoStore) Save(ctx context.Context, project, document string) (*Version, error) {
	number, err := s.nextNumber(ctx, project)
	if err != nil {
		return nil, err
	}

	v := Version{
		Project:   project,
		Number:    number,
		Document:  document,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.versions.InsertOne(ctx, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Get returns a specific version of a project.
func (s *MongoStore) Get(ctx context.Context, project string, number int64) (*Version, error) {
	var v Version
	err := s.versions.FindOne(ctx, bson.M{"project": project, "number": number}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Latest returns the most recent version of a project.
func (s *MongoStore) Latest(ctx context.Context, project string) (*Version, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "number", Value: -1}})
	var v Version
	err := s.versions.FindOne(ctx, bson.M{"project": project}, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all versions of a project in ascending order,
// with the documents omitted.
func (s *MongoStore) List(ctx context.Context, project string) ([]Version, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "number", Value: 1}}).
		SetProjection(bson.M{"document": 0})
	cur, err := s.versions.Find(ctx, bson.M{"project": project}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Version
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements VersionStore.
var _ VersionStore = (*MongoStore)(nil)
