package repository

import (
	"context"
	"fmt"
	"time"

	mongotx "tablebot/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rowDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Fields []string           `bson:"fields"`
}

type mongoTable struct {
	client       *mongo.Client
	collection   *mongo.Collection
	txManager    mongotx.TransactionManager
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewMongoTable keeps one document per row in the named collection. Insertion order
// is recovered from the ObjectID, and RewriteAll swaps the whole set in one transaction.
func NewMongoTable(client *mongo.Client, database, collection string, readTimeout, writeTimeout time.Duration) Table {
	return &mongoTable{
		client:       client,
		collection:   client.Database(database).Collection(collection),
		txManager:    mongotx.NewTransactionManager(client),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (t *mongoTable) Name() string {
	return t.collection.Name()
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without losing the session.
func (t *mongoTable) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (t *mongoTable) ReadAll(ctx context.Context) ([][]string, error) {
	ctx, cancel := t.withTimeout(ctx, t.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := t.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", t.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []rowDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", t.Name(), err)
	}

	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, doc.Fields)
	}
	return rows, nil
}

func (t *mongoTable) Append(ctx context.Context, row []string) error {
	ctx, cancel := t.withTimeout(ctx, t.writeTimeout)
	defer cancel()

	if _, err := t.collection.InsertOne(ctx, rowDocument{Fields: row}); err != nil {
		return fmt.Errorf("failed to append to %s: %w", t.Name(), err)
	}
	return nil
}

func (t *mongoTable) RewriteAll(ctx context.Context, rows [][]string) error {
	ctx, cancel := t.withTimeout(ctx, t.writeTimeout)
	defer cancel()

	return t.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := t.collection.DeleteMany(sessCtx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t.Name(), err)
		}
		if len(rows) == 0 {
			return nil
		}
		docs := make([]any, 0, len(rows))
		for _, row := range rows {
			docs = append(docs, rowDocument{Fields: row})
		}
		if _, err := t.collection.InsertMany(sessCtx, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", t.Name(), err)
		}
		return nil
	})
}

func (t *mongoTable) Ping(ctx context.Context) error {
	ctx, cancel := t.withTimeout(ctx, t.readTimeout)
	defer cancel()
	return t.client.Ping(ctx, nil)
}
