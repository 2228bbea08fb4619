//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agentos

import (
	"time"

	"trpc.group/trpc-go/trpc-agent-go/runner"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

const (
	defaultID              = "agno-demo"
	defaultUserID          = "default"
	defaultShutdownTimeout = 10 * time.Second
	defaultHistoryRuns     = 3
)

// Option configures an OS.
type Option func(*options)

type options struct {
	id              string
	description     string
	agents          []*descriptor.Agent
	teams           []*descriptor.Team
	storage         *storage.Handle
	models          ModelFactory
	defaultModel    descriptor.ModelRef
	runnerOpts      []runner.Option
	shutdownTimeout time.Duration
}

func defaultOptions() options {
	return options{
		id:              defaultID,
		defaultModel:    descriptor.OpenAIChat("gpt-4o"),
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// WithID sets the OS id reported by /config. Default is "agno-demo".
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithDescription sets the OS description reported by /config.
func WithDescription(desc string) Option {
	return func(o *options) {
		o.description = desc
	}
}

// WithAgents appends top-level agents.
func WithAgents(agents ...*descriptor.Agent) Option {
	return func(o *options) {
		o.agents = append(o.agents, agents...)
	}
}

// WithTeams appends top-level teams.
func WithTeams(teams ...*descriptor.Team) Option {
	return func(o *options) {
		o.teams = append(o.teams, teams...)
	}
}

// WithStorage sets the shared storage handle. When omitted the handle of the
// descriptors is used, and an in-memory store when they carry none.
func WithStorage(h *storage.Handle) Option {
	return func(o *options) {
		o.storage = h
	}
}

// WithModelFactory sets how model references become models. It is required.
func WithModelFactory(f ModelFactory) Option {
	return func(o *options) {
		o.models = f
	}
}

// WithDefaultModel sets the model of descriptors that neither set one nor
// inherit one from an enclosing team. Default is openai gpt-4o.
func WithDefaultModel(ref descriptor.ModelRef) Option {
	return func(o *options) {
		if !ref.IsZero() {
			o.defaultModel = ref
		}
	}
}

// WithRunnerOptions appends options applied to every runner. The session
// service of the storage handle is always applied last.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(o *options) {
		o.runnerOpts = append(o.runnerOpts, opts...)
	}
}

// WithShutdownTimeout bounds graceful shutdown in Serve.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}
