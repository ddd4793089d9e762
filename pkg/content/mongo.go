package content

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

// Collection is the MongoDB collection holding records.
const Collection = "records"

// DefaultDatabase is used when no database name is given.
const DefaultDatabase = "ridgeline"

// connectTimeout bounds the initial ping.
const connectTimeout = 10 * time.Second

// MongoStore serves records from MongoDB. Each document is one [Record]
// carrying its category.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return NewMongoStoreFromCollection(client, client.Database(database).Collection(Collection)), nil
}

// NewMongoStoreFromCollection wraps an existing collection. client may be
// nil when the caller owns the connection.
func NewMongoStoreFromCollection(client *mongo.Client, coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, coll: coll}
}

// List returns the records of c sorted by order, then title.
func (s *MongoStore) List(ctx context.Context, c Category) ([]Record, error) {
	if err := checkCategory(c); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "category", Value: string(c)}}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", c)
	}
	defer cur.Close(ctx)

	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode %s", c)
	}
	return out, nil
}

// recordDoc is a stored record with a client-assigned id, so a failed
// import can be undone without touching the previous documents.
type recordDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Record `bson:",inline"`
}

// Import replaces the stored records of every category present in recs and
// returns how many documents were written. New documents are inserted
// before the old ones are deleted; when an insert fails the category keeps
// its previous records.
func (s *MongoStore) Import(ctx context.Context, recs []Record) (int, error) {
	byCat := make(map[Category][]any)
	for i, r := range recs {
		if err := r.Validate(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i)
		}
		byCat[r.Category] = append(byCat[r.Category], recordDoc{ID: primitive.NewObjectID(), Record: r})
	}

	written := 0
	for _, c := range Categories() {
		docs, ok := byCat[c]
		if !ok {
			continue
		}
		ids := make(bson.A, len(docs))
		for i, d := range docs {
			ids[i] = d.(recordDoc).ID
		}
		if _, err := s.coll.InsertMany(ctx, docs); err != nil {
			if _, derr := s.coll.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}); derr != nil {
				err = errors.Join(err, derr)
			}
			return written, errors.Wrap(errors.ErrCodeNetwork, err, "insert %s", c)
		}
		stale := bson.D{
			{Key: "category", Value: string(c)},
			{Key: "_id", Value: bson.D{{Key: "$nin", Value: ids}}},
		}
		if _, err := s.coll.DeleteMany(ctx, stale); err != nil {
			return written, errors.Wrap(errors.ErrCodeNetwork, err, "remove previous %s", c)
		}
		written += len(docs)
	}
	return written, nil
}

// EnsureIndexes creates the category/order index used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "order", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "create index")
	}
	return nil
}

// Categories returns every category.
func (s *MongoStore) Categories() []Category { return Categories() }

// Close disconnects the client if the store owns it.
func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
