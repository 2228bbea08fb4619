//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the mock server configuration from a .env file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultEnvFile is the env file read at startup when present.
const DefaultEnvFile = ".env"

// Config holds all settings of the mock server.
type Config struct {
	OSID        string `envconfig:"OS_ID" default:"agno-demo"`
	Description string `envconfig:"OS_DESCRIPTION" default:"Demo server with agent and team examples"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server  ServerConfig
	Model   ModelConfig
	Storage StorageConfig
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"localhost"`
	Port            int           `envconfig:"SERVER_PORT" default:"7777"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the base URL printed in the startup banner.
func (s ServerConfig) URL() string {
	return "http://" + s.Addr()
}

// ModelConfig holds model provider credentials.
type ModelConfig struct {
	APIKey       string `envconfig:"OPENAI_API_KEY" required:"true"`
	BaseURL      string `envconfig:"OPENAI_BASE_URL"`
	DefaultModel string `envconfig:"DEFAULT_MODEL" default:"gpt-4o"`
}

// StorageConfig holds the shared SQLite store settings.
type StorageConfig struct {
	DBFile            string `envconfig:"STORAGE_DB_FILE" default:"tmp/data.db"`
	SessionEventLimit int    `envconfig:"SESSION_EVENT_LIMIT" default:"1000"`
}

var errInvalidPort = errors.New("server port out of range")

// Load reads envFiles (DefaultEnvFile when none given) and then processes the
// environment. Missing env files are ignored; variables already set in the
// environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: %w: %d", errInvalidPort, c.Server.Port)
	}
	if c.Storage.DBFile == "" {
		return errors.New("config: STORAGE_DB_FILE is empty")
	}
	return nil
}
