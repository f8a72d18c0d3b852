package db

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Options struct {
	URI                    string
	Database               string
	MaxPoolSize            uint64
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

type Collections struct {
	Contacts    *mongo.Collection
	Projects    *mongo.Collection
	Experiences *mongo.Collection
}

// Store owns the process-wide MongoDB client. Repositories receive its
// collections; nothing else holds a reference to the client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *slog.Logger

	Cols *Collections

	connected atomic.Bool
	seenUp    atomic.Bool
}

// Open configures the client and returns without waiting for the server.
// The driver connects in the background; operations issued before the first
// successful heartbeat wait for server selection and fail after its timeout.
func Open(ctx context.Context, opts Options, log *slog.Logger) (*Store, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo uri is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Store{log: log}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerMonitor(s.monitor())
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	s.client = client
	s.db = client.Database(opts.Database)
	s.Cols = &Collections{
		Contacts:    s.db.Collection("contacts"),
		Projects:    s.db.Collection("projects"),
		Experiences: s.db.Collection("experiences"),
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Connected reports the state seen by the most recent server heartbeat.
func (s *Store) Connected() bool {
	return s.connected.Load()
}

func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	s.connected.Store(false)
	return s.client.Disconnect(ctx)
}

func (s *Store) monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(evt *event.ServerHeartbeatSucceededEvent) {
			s.heartbeatSucceeded()
		},
		ServerHeartbeatFailed: func(evt *event.ServerHeartbeatFailedEvent) {
			s.heartbeatFailed(evt.Failure)
		},
	}
}

func (s *Store) heartbeatSucceeded() {
	if s.connected.Swap(true) {
		return
	}
	if s.seenUp.Swap(true) {
		s.log.Info("mongo reconnected")
		return
	}
	s.log.Info("mongo connected")
}

func (s *Store) heartbeatFailed(failure error) {
	if !s.connected.Swap(false) {
		return
	}
	attrs := []any{}
	if failure != nil {
		attrs = append(attrs, slog.String("error", failure.Error()))
	}
	s.log.Warn("mongo disconnected", attrs...)
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Contacts.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Projects.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}, {Key: "tags", Value: "text"}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "isFeatured", Value: 1}, {Key: "priority", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "completionDate", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = cols.Experiences.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company", Value: 1}, {Key: "duration.startDate", Value: -1}}},
		{Keys: bson.D{{Key: "position", Value: 1}, {Key: "duration.startDate", Value: -1}}},
		{Keys: bson.D{{Key: "technologies", Value: 1}}},
		{Keys: bson.D{{Key: "isPublic", Value: 1}, {Key: "priority", Value: -1}}},
		{Keys: bson.D{{Key: "duration.isCurrent", Value: 1}, {Key: "duration.startDate", Value: -1}}},
	})
	if err != nil {
		return err
	}

	return nil
}
