package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// StoreState is the lifecycle of the shared database handle.
type StoreState int32

const (
	StoreDisconnected StoreState = iota
	StoreConnecting
	StoreReady
)

func (s StoreState) String() string {
	switch s {
	case StoreConnecting:
		return "connecting"
	case StoreReady:
		return "ready"
	default:
		return "disconnected"
	}
}

var ErrStoreNotReady = errors.New("database not connected")

// Store owns the *sql.DB and its readiness. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	state atomic.Int32
}

// NewStore returns a store in the Disconnected state.
func NewStore() *Store {
	return &Store{}
}

// NewReadyStore wraps an already opened handle (tests, sqlmock).
func NewReadyStore(db *sql.DB) *Store {
	s := &Store{db: db}
	s.state.Store(int32(StoreReady))
	return s
}

func (s *Store) State() StoreState {
	return StoreState(s.state.Load())
}

func (s *Store) Ready() bool {
	return s.State() == StoreReady
}

// DB returns the handle when the store is ready.
func (s *Store) DB() (*sql.DB, error) {
	if !s.Ready() {
		return nil, ErrStoreNotReady
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrStoreNotReady
	}
	return s.db, nil
}

// Connect opens the pool and pings it within timeout. Calling it on a ready store is a no-op.
func (s *Store) Connect(ctx context.Context, dsn string, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil && s.State() == StoreReady {
		return nil
	}
	s.state.Store(int32(StoreConnecting))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		s.state.Store(int32(StoreDisconnected))
		return fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		s.state.Store(int32(StoreDisconnected))
		return fmt.Errorf("ping db: %w", err)
	}

	s.db = db
	s.state.Store(int32(StoreReady))
	log.Println("connected to MySQL")
	return nil
}

// Ping checks a ready store is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		_ = s.db.Close()
		s.db = nil
	}
	s.state.Store(int32(StoreDisconnected))
}
