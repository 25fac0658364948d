//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kozaktomas/pose-detector/internal/config"
	"github.com/kozaktomas/pose-detector/internal/database"
	"github.com/kozaktomas/pose-detector/internal/pose"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	applied, err := pool.Migrate(ctx)
	if err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("expected migrations to be applied on a fresh database")
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func TestMigrate_Idempotent(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	applied, err := pool.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second Migrate() applied %v, want none", applied)
	}

	versions, err := pool.MigrationsApplied(ctx)
	if err != nil {
		t.Fatalf("MigrationsApplied() error = %v", err)
	}
	if len(versions) == 0 || versions[0] != "001_journal.sql" {
		t.Errorf("MigrationsApplied() = %v", versions)
	}
}

func TestJournalRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewJournalRepository(pool)

	session, err := repo.StartSession(ctx, "dir:/frames")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	recorder, err := database.NewTransitionRecorder(ctx, repo, "webcam:0")
	if err != nil {
		t.Fatalf("NewTransitionRecorder() error = %v", err)
	}

	if err := repo.RecordEvent(ctx, database.Event{
		SessionID:  session.ID,
		Frame:      1,
		Label:      pose.Standing,
		OccurredAt: time.Now().UTC().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("RecordEvent() error = %v", err)
	}

	for i, l := range []pose.Label{pose.TPose, pose.TPose, pose.Unknown} {
		if err := recorder.Observe(ctx, int64(i+1), l, true); err != nil {
			t.Fatalf("Observe() error = %v", err)
		}
	}

	events, err := repo.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("RecentEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("RecentEvents() returned %d events, want 3", len(events))
	}
	if events[0].Label != pose.Unknown || events[1].Label != pose.TPose || events[2].Label != pose.Standing {
		t.Errorf("RecentEvents() order = %v, %v, %v", events[0].Label, events[1].Label, events[2].Label)
	}
	if events[0].SessionID != recorder.Session().ID {
		t.Errorf("event session = %s, want %s", events[0].SessionID, recorder.Session().ID)
	}

	limited, err := repo.RecentEvents(ctx, 1)
	if err != nil {
		t.Fatalf("RecentEvents(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("RecentEvents(1) returned %d events", len(limited))
	}

	err = repo.RecordEvent(ctx, database.Event{Frame: 1, Label: pose.Heart, OccurredAt: time.Now()})
	if err == nil {
		t.Error("expected foreign key error for an unknown session")
	}
}

func TestInitialize_RegistersBackend(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	Register(pool)
	defer database.RegisterPostgresBackend(nil)

	if !database.IsInitialized() {
		t.Fatal("IsInitialized() = false after Register")
	}
	if _, err := database.GetRecorder(); err != nil {
		t.Fatalf("GetRecorder() error = %v", err)
	}
}
