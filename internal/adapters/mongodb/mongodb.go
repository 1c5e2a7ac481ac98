// Package mongodb implements the batch_metadata sidecar repository
// (SPEC_FULL.md §4.Q), grounded on midaz's recurring free-form-metadata
// pattern (mmodel's map[string]any Metadata fields, each paired with its
// own Mongo collection), with a Connect/GetDB singleton wrapper shape
// mirrored from common/mredis/redis.go.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "orders_batch"
	collectionName = "batch_metadata"
)

// Connection wraps a singleton *mongo.Client.
type Connection struct {
	URI string

	client    *mongo.Client
	connected bool
}

func (c *Connection) connect(ctx context.Context) (*mongo.Client, error) {
	if c.connected {
		return c.client, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	c.client = client
	c.connected = true

	return c.client, nil
}

// Metadata is the document written for every batch load: the source
// filename, content type, and free-form tags (SPEC_FULL.md §4.Q).
type Metadata struct {
	BatchLoadID string         `bson:"batchLoadId"`
	Filename    string         `bson:"filename"`
	ContentType string         `bson:"contentType"`
	Tags        map[string]any `bson:"tags,omitempty"`
	RecordedAt  time.Time      `bson:"recordedAt"`
}

// Repository is a Mongo-backed store for batch-load metadata sidecar
// documents, decoupled from the relational schema.
type Repository struct {
	conn *Connection
}

func New(conn *Connection) *Repository {
	return &Repository{conn: conn}
}

// Put writes (or replaces) the metadata document for a batch load. A
// failure here is best-effort and must never roll back the relational
// transaction that already completed (SPEC_FULL.md §4.Q Open Question).
func (r *Repository) Put(ctx context.Context, meta Metadata) error {
	client, err := r.conn.connect(ctx)
	if err != nil {
		return err
	}

	collection := client.Database(databaseName).Collection(collectionName)

	_, err = collection.ReplaceOne(ctx, bson.M{"batchLoadId": meta.BatchLoadID}, meta,
		options.Replace().SetUpsert(true))

	return err
}

// Get fetches the metadata document for a batch load, found=false if
// none was ever written.
func (r *Repository) Get(ctx context.Context, batchLoadID string) (meta Metadata, found bool, err error) {
	client, err := r.conn.connect(ctx)
	if err != nil {
		return Metadata{}, false, err
	}

	collection := client.Database(databaseName).Collection(collectionName)

	err = collection.FindOne(ctx, bson.M{"batchLoadId": batchLoadID}).Decode(&meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Metadata{}, false, nil
	}

	if err != nil {
		return Metadata{}, false, err
	}

	return meta, true, nil
}
