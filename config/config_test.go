//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "agno-demo", cfg.OSID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "localhost:7777", cfg.Server.Addr())
	assert.Equal(t, "http://localhost:7777", cfg.Server.URL())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "gpt-4o", cfg.Model.DefaultModel)
	assert.Equal(t, "tmp/data.db", cfg.Storage.DBFile)
	assert.Equal(t, 1000, cfg.Storage.SessionEventLimit)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	t.Setenv("SERVER_PORT", "8081")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "OPENAI_API_KEY=sk-from-file\nSERVER_PORT=9999\nSTORAGE_DB_FILE=/tmp/x.db\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("STORAGE_DB_FILE")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.Model.APIKey)
	// Process env wins over the file.
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.DBFile)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load(missingEnvFile(t))
	require.ErrorIs(t, err, errInvalidPort)
}
