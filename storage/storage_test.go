//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-agent-go/session"
)

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.db")

	h, err := Open(context.Background(), path, WithSessionEventLimit(10))
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, path, h.Path())
	require.NotNil(t, h.Sessions())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenReservedCharactersInPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd?name#1%.db")

	h, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer h.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"tmp/data.db", "file:tmp/data.db?"},
		{"/var/lib/a b.db", "file:/var/lib/a%20b.db?"},
		{"tmp/odd?name#1%.db", "file:tmp/odd%3Fname%231%25.db?"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(dsn(tt.path), tt.want), dsn(tt.path))
		})
	}
}

func TestOpenSessionRoundTrip(t *testing.T) {
	h, err := Open(context.Background(), filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	key := session.Key{AppName: "simple-team", UserID: "u1", SessionID: "s1"}
	_, err = h.Sessions().CreateSession(ctx, key, session.StateMap{})
	require.NoError(t, err)

	got, err := h.Sessions().GetSession(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyPath)
}

func TestCloseIdempotent(t *testing.T) {
	h, err := Open(context.Background(), filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestNewInMemory(t *testing.T) {
	h := NewInMemory()
	assert.Equal(t, InMemoryPath, h.Path())
	assert.NotNil(t, h.Sessions())
	assert.NoError(t, h.Close())
}
