package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "sessions"

// mongoDoc is the stored form. The state stays a JSON string so the
// payload's json tags remain the single schema.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	State     string    `bson:"state"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps states in a collection with a TTL index on updated_at.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

// NewMongoStore connects to uri, pings it and ensures the TTL index.
func NewMongoStore(ctx context.Context, uri, database string, ttl time.Duration) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := &MongoStore{client: client, coll: client.Database(database).Collection(mongoCollection), ttl: ttl}
	if ttl > 0 {
		_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
		})
		if err != nil {
			client.Disconnect(context.Background())
			return nil, fmt.Errorf("create session ttl index: %w", err)
		}
	}
	return m, nil
}

func (m *MongoStore) Load(ctx context.Context, id string) (State, error) {
	if err := checkID(id); err != nil {
		return State{}, err
	}
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("mongo find session: %w", err)
	}
	// The TTL monitor runs about once a minute; do not serve stale states.
	if expired(doc.UpdatedAt, m.ttl, time.Now()) {
		return State{}, nil
	}
	return decode([]byte(doc.State))
}

func (m *MongoStore) Save(ctx context.Context, id string, st State) error {
	if err := checkID(id); err != nil {
		return err
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = time.Now()
	}
	b, err := encode(st)
	if err != nil {
		return err
	}
	doc := mongoDoc{ID: id, State: string(b), UpdatedAt: st.UpdatedAt}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert session: %w", err)
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete session: %w", err)
	}
	return nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
