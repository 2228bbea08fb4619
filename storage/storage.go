//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package storage owns the single local data store shared by every agent and
// team of the server.
//
// A Handle is opened once at startup and passed by pointer to each
// descriptor. Conversation history persistence and arbitration of concurrent
// access are left to the framework session service behind it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"trpc.group/trpc-go/trpc-agent-go/session"
	sessioninmemory "trpc.group/trpc-go/trpc-agent-go/session/inmemory"
	sessionsqlite "trpc.group/trpc-go/trpc-agent-go/session/sqlite"

	"trpc.group/trpc-go/agno-mock-server/log"
)

const (
	sqliteDriverName = "sqlite3"
	// InMemoryPath is reported by handles that are not backed by a file.
	InMemoryPath = ":memory:"
)

var errEmptyPath = errors.New("storage: db file path is empty")

// Handle is the shared storage resource.
type Handle struct {
	path     string
	db       *sql.DB
	sessions session.Service

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	sessionEventLimit int
}

// Option configures Open.
type Option func(*options)

// WithSessionEventLimit caps the number of events kept per session.
func WithSessionEventLimit(limit int) Option {
	return func(o *options) {
		o.sessionEventLimit = limit
	}
}

// Open opens (creating if needed) the SQLite file at path and the session
// service on top of it.
func Open(ctx context.Context, path string, opts ...Option) (*Handle, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open(sqliteDriverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}

	var svcOpts []sessionsqlite.ServiceOpt
	if o.sessionEventLimit > 0 {
		svcOpts = append(svcOpts, sessionsqlite.WithSessionEventLimit(o.sessionEventLimit))
	}
	svc, err := sessionsqlite.NewService(db, svcOpts...)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: session service: %w", err)
	}
	log.Infof("storage: opened %s", path)
	return &Handle{path: path, db: db, sessions: svc}, nil
}

// NewInMemory returns a handle backed by the in-memory session service.
func NewInMemory() *Handle {
	return &Handle{
		path:     InMemoryPath,
		sessions: sessioninmemory.NewSessionService(),
	}
}

// Path returns the data store location.
func (h *Handle) Path() string {
	return h.path
}

// Sessions returns the session service shared by all runners.
func (h *Handle) Sessions() session.Service {
	return h.sessions
}

// Close releases the session service and the database. It is safe to call
// Close more than once.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		var errs []error
		if h.sessions != nil {
			if err := h.sessions.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close sessions: %w", err))
			}
		}
		if h.db != nil {
			if err := h.db.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close db: %w", err))
			}
		}
		h.closeErr = errors.Join(errs...)
	})
	return h.closeErr
}

// dsn builds the SQLite URI of path. The path is escaped so that '?', '#'
// and '%' in file names do not end up in the query.
func dsn(path string) string {
	u := url.URL{Path: path}
	return "file:" + u.EscapedPath() + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
