package impl

import (
	"HaloBackend/repositories"
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

// arrivalField records write order as Unix nanoseconds; _id is random so it
// cannot break ordering ties.
const arrivalField = "_arrival"

// MongoDB keeps dates at millisecond precision.
const mongoTimeResolution = time.Millisecond

// MongoStore is the RecordStore backed by MongoDB. Documents use string ids so that
// registration can write under the caller's uid.
type MongoStore struct {
	Client *mongo.Client
	DB     *mongo.Database
	clock  *repositories.MonotonicClock
}

// ConnectMongo dials uri, pings the server and returns a store on database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return NewMongoStore(client, dbName, nil), nil
}

// NewMongoStore uses a millisecond clock when clock is nil. A caller-supplied clock
// must not step by less than a millisecond.
func NewMongoStore(client *mongo.Client, dbName string, clock *repositories.MonotonicClock) *MongoStore {
	if clock == nil {
		clock = repositories.NewMonotonicClockWithResolution(nil, mongoTimeResolution)
	}
	return &MongoStore{Client: client, DB: client.Database(dbName), clock: clock}
}

func (s *MongoStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.NewString()
	doc := s.newDocument(collection, id, data)
	if _, err := s.DB.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo insert %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	doc := s.newDocument(collection, id, data)
	_, err := s.DB.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) newDocument(collection, id string, data map[string]interface{}) bson.M {
	doc := bson.M{"_id": id, arrivalField: s.clock.Next(arrivalField + "/" + collection).UnixNano()}
	for k, v := range s.clock.ResolveTimestamps(collection, data) {
		doc[k] = v
	}
	return doc
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (repositories.Document, error) {
	var raw bson.M
	err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.Document{}, repositories.ErrNotFound
	}
	if err != nil {
		return repositories.Document{}, fmt.Errorf("mongo find %s/%s: %w", collection, id, err)
	}
	return mongoDocument(raw), nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q repositories.Query) ([]repositories.Document, error) {
	findOptions := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: arrivalField, Value: dir}})
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cursor, err := s.DB.Collection(collection).Find(ctx, mongoFilter(q), findOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []repositories.Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", collection, err)
		}
		docs = append(docs, mongoDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	set := bson.M{}
	for k, v := range s.clock.ResolveTimestamps(collection, fields) {
		set[k] = v
	}
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}

// mongoFilter requires a field to exist when ordering by it, matching Firestore.
func mongoFilter(q repositories.Query) bson.M {
	filter := bson.M{}
	for _, f := range q.Filters {
		switch f.Op {
		case repositories.OpEqual:
			mergeCondition(filter, f.Field, "$eq", f.Value)
		case repositories.OpGreaterOrEqual:
			mergeCondition(filter, f.Field, "$gte", f.Value)
		case repositories.OpIn:
			mergeCondition(filter, f.Field, "$in", inValues(f.Value))
		}
	}
	if q.OrderBy != "" {
		mergeCondition(filter, q.OrderBy, "$exists", true)
	}
	return filter
}

func mergeCondition(filter bson.M, field, op string, value interface{}) {
	cond, ok := filter[field].(bson.M)
	if !ok {
		cond = bson.M{}
		filter[field] = cond
	}
	cond[op] = value
}

func mongoDocument(raw bson.M) repositories.Document {
	id := fmt.Sprint(raw["_id"])
	data := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "_id" || k == arrivalField {
			continue
		}
		data[k] = normalizeBSON(v)
	}
	return repositories.Document{ID: id, Data: data}
}

// normalizeBSON converts driver types into the plain Go values the decoders expect.
func normalizeBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	case bson.M:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeBSON(item)
		}
		return out
	case bson.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeBSON(item)
		}
		return out
	case int32:
		return int64(val)
	}
	return v
}
