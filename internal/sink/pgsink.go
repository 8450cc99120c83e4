package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/quietpath/quietpath/internal/event"
)

// PGConfig holds configuration for the Postgres sink.
type PGConfig struct {
	DSN       string
	Table     string
	BatchSize int
	FlushMS   int
	UseCopy   bool
}

// PGSink batches audit events and writes them to a Postgres table as JSONB.
type PGSink struct {
	config PGConfig
	db     *sql.DB

	mu      sync.Mutex
	pending []event.Issued

	cancel context.CancelFunc
	done   chan struct{}
}

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName rejects anything that is not a plain SQL identifier. The
// table name is interpolated into statements, so it can never come from an
// untrusted source unchecked.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is empty")
	}
	if len(name) > 63 {
		return fmt.Errorf("table name exceeds 63 characters: %q", name)
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

// NewPGSinkFromEnv creates a PGSink from environment variables.
func NewPGSinkFromEnv() (*PGSink, error) {
	config := PGConfig{
		DSN:       os.Getenv("PG_DSN"),
		Table:     getEnvOr("PG_TABLE", "events_json"),
		BatchSize: getIntEnv("PG_BATCH_SIZE", 500),
		FlushMS:   getIntEnv("PG_FLUSH_MS", 500),
		UseCopy:   getBoolEnv("PG_COPY", true),
	}
	return NewPGSink(config)
}

// NewPGSink creates a PGSink with explicit configuration.
func NewPGSink(config PGConfig) (*PGSink, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	if err := validateTableName(config.Table); err != nil {
		return nil, err
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if config.FlushMS <= 0 {
		config.FlushMS = 500
	}
	return &PGSink{config: config}, nil
}

func (s *PGSink) Start(ctx context.Context) error {
	db, err := sql.Open("postgres", s.config.DSN)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	s.db = db

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.flushLoop(loopCtx)

	return nil
}

func (s *PGSink) Enqueue(e event.Issued) error {
	s.mu.Lock()
	s.pending = append(s.pending, e)
	full := len(s.pending) >= s.config.BatchSize
	s.mu.Unlock()

	if full {
		return s.flush()
	}
	return nil
}

func (s *PGSink) Close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	err := s.flush()
	if s.db != nil {
		if cerr := s.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *PGSink) Name() string { return "postgres" }

// flushLoop periodically drains pending events so a slow trickle of traffic
// never sits in memory longer than FlushMS.
func (s *PGSink) flushLoop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(time.Duration(s.config.FlushMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.flush(); err != nil {
				log.Printf("sink: postgres flush failed: %v", err)
			}
		}
	}
}

func (s *PGSink) flush() error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("postgres sink not started")
	}

	if s.config.UseCopy {
		return s.flushCopy(batch)
	}
	return s.flushInsert(batch)
}

// flushCopy uses COPY FROM for bulk loading.
func (s *PGSink) flushCopy(batch []event.Issued) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(pq.CopyIn(s.config.Table, "event_id", "payload"))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, e := range batch {
		payload, err := json.Marshal(e)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		if _, err := stmt.Exec(e.EventID, string(payload)); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to copy event: %w", err)
		}
	}

	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return fmt.Errorf("failed to finish copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close copy statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// flushInsert falls back to per-row inserts, deduplicated on event_id.
func (s *PGSink) flushInsert(batch []event.Issued) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (event_id, payload) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		s.config.Table,
	)
	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}

	for _, e := range batch {
		payload, err := json.Marshal(e)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		if _, err := stmt.Exec(e.EventID, payload); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to close insert statement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
