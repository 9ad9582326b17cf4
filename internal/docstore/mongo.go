package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// createdField holds the creation instant inside each Mongo document.
const createdField = "_created"

// ErrNoTransactions is returned for a standalone MongoDB server, which
// cannot run the multi-document transactions Commit and RunInTx need.
var ErrNoTransactions = errors.New("mongodb server does not support transactions: run it as a replica set (a single-node replica set is enough) or connect through mongos")

// MongoStore maps collections one-to-one onto MongoDB collections.
// Commit needs a replica set or sharded cluster for multi-document transactions.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	coll := s.db.Collection(collection)

	created := time.Now().UTC()
	var existing bson.M
	err := coll.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{createdField: 1})).Decode(&existing)
	switch {
	case err == nil:
		if t, ok := existing[createdField].(bson.DateTime); ok {
			created = t.Time().UTC()
		}
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}

	body := bson.M{}
	for k, v := range doc {
		body[k] = v
	}
	body["_id"] = id
	body[createdField] = created

	_, err = coll.ReplaceOne(ctx, bson.M{"_id": id}, body, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	snap := fromBSON(raw)
	return &snap, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	direction := 1
	if q.Newest {
		direction = -1
	}
	opts := options.Find().SetSort(bson.D{
		{Key: createdField, Value: direction},
		{Key: "_id", Value: direction},
	})
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, mongoFilter(q.Filters), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}

	snaps := make([]Snapshot, 0, len(raws))
	for _, raw := range raws {
		snaps = append(snaps, fromBSON(raw))
	}
	return snaps, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	total, err := s.db.Collection(collection).CountDocuments(ctx, mongoFilter(filters))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return total, nil
}

func (s *MongoStore) Commit(ctx context.Context, writes ...Write) error {
	for _, w := range writes {
		if err := validateWrite(w); err != nil {
			return err
		}
	}

	return s.RunInTx(ctx, func(txCtx context.Context) error {
		for _, w := range writes {
			var err error
			switch w.Kind {
			case WriteSet:
				err = s.Set(txCtx, w.Collection, w.ID, w.Data)
			case WriteUpdate:
				err = s.Update(txCtx, w.Collection, w.ID, w.Data)
			case WriteDelete:
				err = s.Delete(txCtx, w.Collection, w.ID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RunInTx starts a session transaction unless ctx already carries one, in
// which case fn joins it.
func (s *MongoStore) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		return nil, fn(txCtx)
	})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func mongoFilter(filters []Filter) bson.M {
	filter := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case OpPrefix:
			prefix, _ := f.Value.(string)
			filter[f.Field] = bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}
		default:
			filter[f.Field] = f.Value
		}
	}
	return filter
}

func fromBSON(raw bson.M) Snapshot {
	snap := Snapshot{Data: Document{}}
	for k, v := range raw {
		switch k {
		case "_id":
			snap.ID = fmt.Sprint(v)
		case createdField:
			if t, ok := v.(bson.DateTime); ok {
				snap.CreatedAt = t.Time().UTC()
			}
		default:
			snap.Data[k] = plain(v)
		}
	}
	return snap
}

// plain converts driver container types into the map/slice shapes the rest
// of the code expects. Datetimes become time.Time.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = plain(inner)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = plain(inner)
		}
		return m
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = plain(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = plain(inner)
		}
		return out
	case bson.DateTime:
		return t.Time().UTC()
	}
	return v
}

// CheckTransactionSupport asks the server for its topology and returns
// ErrNoTransactions when it is a standalone instance.
func CheckTransactionSupport(ctx context.Context, client *mongo.Client) error {
	var hello bson.M
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return fmt.Errorf("mongo hello: %w", err)
	}
	return transactionSupport(hello)
}

// transactionSupport reads a hello reply: replica set members report
// setName, mongos reports msg "isdbgrid".
func transactionSupport(hello bson.M) error {
	if name, _ := hello["setName"].(string); name != "" {
		return nil
	}
	if msg, _ := hello["msg"].(string); msg == "isdbgrid" {
		return nil
	}
	return ErrNoTransactions
}
