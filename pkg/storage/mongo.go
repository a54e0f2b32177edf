package storage

import (
	"context"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/plan"
)

// Default Mongo namespace for project documents.
const (
	defaultMongoDatabase   = "quadplan"
	defaultMongoCollection = "projects"
)

// MongoStore persists each project as one document keyed by project name.
// The snapshot itself is stored as its canonical JSON encoding so the
// persisted-snapshot contract stays identical across backends.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// projectDoc is the persisted document shape.
type projectDoc struct {
	Name      string    `bson:"_id"`
	Snapshot  []byte    `bson:"snapshot"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore creates a store on an existing client. Empty database or
// collection names select the defaults. The store takes ownership of the
// client and disconnects it in Close.
func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	if database == "" {
		database = defaultMongoDatabase
	}
	if collection == "" {
		collection = defaultMongoCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// DialMongo connects to a MongoDB URI (mongodb://...) and verifies the
// connection with a ping.
func DialMongo(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return NewMongoStore(client, "", ""), nil
}

// Load implements Store.
func (m *MongoStore) Load(ctx context.Context, name string) (plan.State, error) {
	if err := ValidateName(name); err != nil {
		return plan.State{}, err
	}
	var doc projectDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return plan.State{}, ErrNotFound
	}
	if err != nil {
		return plan.State{}, errors.Wrap(errors.ErrCodeStorage, err, "load project %s", name)
	}
	return plan.Unmarshal(doc.Snapshot)
}

// Save implements Store.
func (m *MongoStore) Save(ctx context.Context, name string, st plan.State) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := plan.Marshal(st)
	if err != nil {
		return err
	}
	doc := projectDoc{Name: name, Snapshot: data, UpdatedAt: st.UpdatedAt}
	_, err = m.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save project %s", name)
	}
	return nil
}

// Delete implements Store.
func (m *MongoStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", name)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List implements Store.
func (m *MongoStore) List(ctx context.Context) ([]string, error) {
	cursor, err := m.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode project name")
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	slices.Sort(names)
	return names, nil
}

// Close implements Store.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
