package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/lazy"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const jobsCollection = "jobs"

// jobProjection keeps driver and owner fields out of every read.
var jobProjection = bson.M{"_id": 0, "userId": 0}

// NewMongoConnector returns a connector that dials and pings the cluster on first use.
func NewMongoConnector(uri string, timeout time.Duration) *lazy.Connector[*mongo.Client] {
	dial := func(ctx context.Context) (*mongo.Client, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, pkgerrors.Wrap(err, "connecting to mongo")
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, pkgerrors.Wrap(err, "pinging mongo")
		}
		zap.S().Named("mongo_store").Info("connected to mongo")
		return client, nil
	}
	release := func(ctx context.Context, client *mongo.Client) error {
		return client.Disconnect(ctx)
	}
	return lazy.New(dial, release, timeout)
}

type MongoJobStore struct {
	conn     *lazy.Connector[*mongo.Client]
	database string
	ids      *IDGenerator
}

var _ Job = (*MongoJobStore)(nil)

func NewMongoJobStore(conn *lazy.Connector[*mongo.Client], database string) *MongoJobStore {
	return &MongoJobStore{conn: conn, database: database, ids: NewIDGenerator()}
}

func (s *MongoJobStore) List(ctx context.Context, userID string) ([]model.Job, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}).
		SetProjection(jobProjection)
	cursor, err := coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs := []model.Job{}
	if err := cursor.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decoding jobs: %w", err)
	}
	return jobs, nil
}

func (s *MongoJobStore) Create(ctx context.Context, userID string, form model.JobForm) (*model.Job, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		id, createdAt := s.ids.Next()
		record := model.NewJobRecord(id, userID, createdAt.Truncate(time.Millisecond), form)

		_, err := coll.InsertOne(ctx, record)
		if err == nil {
			return &record.Job, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("creating job: %w", err)
		}
		if attempt == maxCreateAttempts {
			return nil, fmt.Errorf("creating job: %w", ErrDuplicateKey)
		}
		zap.S().Named("mongo_store").Warnw("job id already taken, retrying", "id", id)
	}
}

func (s *MongoJobStore) Update(ctx context.Context, userID, id string, patch model.JobPatch) (*model.Job, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"id": id, "userId": userID}

	var result *mongo.SingleResult
	if patch.IsEmpty() {
		result = coll.FindOne(ctx, filter, options.FindOne().SetProjection(jobProjection))
	} else {
		update := bson.M{"$set": patch.Fields(func(f string) string { return f })}
		opts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(jobProjection)
		result = coll.FindOneAndUpdate(ctx, filter, update, opts)
	}

	var job model.Job
	if err := result.Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("updating job: %w", err)
	}
	return &job, nil
}

func (s *MongoJobStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return false, err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("deleting job: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique id index and the per-owner listing index.
func (s *MongoJobStore) EnsureIndexes(ctx context.Context) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("id_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("creating job indexes: %w", err)
	}
	return nil
}

func (s *MongoJobStore) collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := s.conn.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("mongo unavailable: %w", err)
	}
	return client.Database(s.database).Collection(jobsCollection), nil
}

type MongoStore struct {
	conn *lazy.Connector[*mongo.Client]
	jobs *MongoJobStore
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(conn *lazy.Connector[*mongo.Client], database string) *MongoStore {
	return &MongoStore{conn: conn, jobs: NewMongoJobStore(conn, database)}
}

func (m *MongoStore) Job() Job {
	return m.jobs
}

func (m *MongoStore) InitialMigration(ctx context.Context) error {
	return m.jobs.EnsureIndexes(ctx)
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.conn.Close(ctx)
}
