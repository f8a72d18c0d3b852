//go:build integration

// Package dbtest starts a throwaway MongoDB for integration tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"portfolio-backend/internal/db"
)

var (
	once      sync.Once
	container *mongodb.MongoDBContainer
	uri       string
	initErr   error
)

// Setup returns a Store bound to a fresh database inside a shared container.
// The container starts once per test binary; each call gets its own database
// which is dropped on cleanup.
func Setup(t *testing.T) *db.Store {
	t.Helper()

	once.Do(func() {
		uri, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("dbtest: start mongo: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := "portfolio_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	store, err := db.Open(ctx, db.Options{
		URI:                    uri,
		Database:               name,
		MaxPoolSize:            10,
		ServerSelectionTimeout: 10 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("dbtest: open store: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("dbtest: ping: %v", err)
	}
	if err := db.EnsureIndexes(ctx, store.Cols); err != nil {
		t.Fatalf("dbtest: ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer ccancel()
		_ = store.Database().Drop(cctx)
		_ = store.Close(cctx)
	})
	return store
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return "", fmt.Errorf("run container: %w", err)
	}
	container = c
	conn, err := container.ConnectionString(ctx)
	if err != nil {
		return "", fmt.Errorf("connection string: %w", err)
	}
	return conn, nil
}

// Teardown stops the shared container. Call it from TestMain after m.Run.
func Teardown() {
	if container == nil {
		return
	}
	if err := testcontainers.TerminateContainer(container); err != nil {
		fmt.Printf("dbtest: terminate container: %v\n", err)
	}
}
