package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotCollection = "snapshots"

// Mongo is a MongoDB-backed snapshot store for durable archives shared
// between the fetch and serve commands.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and prepares the snapshot collection,
// including the (realm, fetched_at) index Latest queries rely on.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(snapshotCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "realm", Value: 1}, {Key: "fetched_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create snapshot index: %w", err)
	}

	return &Mongo{client: client, coll: coll}, nil
}

// Save archives a snapshot.
func (m *Mongo) Save(ctx context.Context, s *Snapshot) error {
	_, err := m.coll.InsertOne(ctx, s)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", s.ID, err)
	}
	return nil
}

// Latest returns the most recently fetched snapshot for a realm.
func (m *Mongo) Latest(ctx context.Context, realm int) (*Snapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "fetched_at", Value: -1}})

	var s Snapshot
	err := m.coll.FindOne(ctx, bson.M{"realm": realm}, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}
	return &s, nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
