//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package agentos provides the application object of the mock server.
//
// An OS aggregates the top-level agent and team descriptors, materializes
// them into framework agents once at construction, and serves them over an
// AgentOS compatible HTTP API: component listing, streaming runs and
// session history backed by the shared storage handle.
package agentos

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/runner"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/log"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

// Construction errors.
var (
	ErrNoComponents   = errors.New("agentos: no agents or teams configured")
	ErrNoModelFactory = errors.New("agentos: model factory is required")
	ErrMixedStorage   = errors.New("agentos: descriptors use different storage handles")
)

var logger = log.Named("agentos")

// component is a served top-level agent or team.
type component struct {
	kind  descriptor.Kind
	desc  descriptor.Member
	agent agent.Agent
}

func (c *component) id() string { return c.desc.ID() }

// OS is the application object. It is safe for concurrent use.
type OS struct {
	id          string
	description string

	storage     *storage.Handle
	ownsStorage bool

	agents   []*component
	teams    []*component
	byID     map[string]*component
	resolved map[descriptor.Member]descriptor.ModelRef

	runnerOpts      []runner.Option
	shutdownTimeout time.Duration

	router  *mux.Router
	handler http.Handler

	mu      sync.RWMutex
	runners map[string]runner.Runner

	closeOnce sync.Once
	closeErr  error
}

// New validates the configured descriptors, builds their framework agents and
// returns the application object.
func New(opts ...Option) (*OS, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.agents)+len(o.teams) == 0 {
		return nil, ErrNoComponents
	}
	if err := descriptor.Validate(o.agents, o.teams); err != nil {
		return nil, fmt.Errorf("agentos: invalid configuration: %w", err)
	}
	if o.models == nil {
		return nil, ErrNoModelFactory
	}
	h, owned, err := sharedStorage(o)
	if err != nil {
		return nil, err
	}

	b := newBuilder(o.models, o.defaultModel)
	var agents, teams []*component
	for _, a := range o.agents {
		built, err := b.build(a, descriptor.ModelRef{})
		if err != nil {
			return nil, fmt.Errorf("agentos: %w", err)
		}
		agents = append(agents, &component{kind: descriptor.KindAgent, desc: a, agent: built})
	}
	for _, t := range o.teams {
		built, err := b.build(t, descriptor.ModelRef{})
		if err != nil {
			return nil, fmt.Errorf("agentos: %w", err)
		}
		teams = append(teams, &component{kind: descriptor.KindTeam, desc: t, agent: built})
	}
	return assemble(o, h, owned, agents, teams, b.resolved), nil
}

func assemble(
	o options,
	h *storage.Handle,
	ownsStorage bool,
	agents []*component,
	teams []*component,
	resolved map[descriptor.Member]descriptor.ModelRef,
) *OS {
	s := &OS{
		id:              o.id,
		description:     o.description,
		storage:         h,
		ownsStorage:     ownsStorage,
		agents:          agents,
		teams:           teams,
		byID:            make(map[string]*component, len(agents)+len(teams)),
		resolved:        resolved,
		runnerOpts:      o.runnerOpts,
		shutdownTimeout: o.shutdownTimeout,
		router:          mux.NewRouter(),
		runners:         make(map[string]runner.Runner),
	}
	for _, c := range agents {
		s.byID[c.id()] = c
	}
	for _, c := range teams {
		s.byID[c.id()] = c
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(metricsMiddleware)
	s.registerRoutes()
	s.handler = c.Handler(s.router)
	return s
}

// sharedStorage picks the single storage handle every runner uses.
func sharedStorage(o options) (*storage.Handle, bool, error) {
	h := o.storage
	check := func(path []string, m descriptor.Member) error {
		var got *storage.Handle
		switch v := m.(type) {
		case *descriptor.Agent:
			got = v.Storage
		case *descriptor.Team:
			got = v.Storage
		}
		if got == nil {
			return nil
		}
		if h == nil {
			h = got
			return nil
		}
		if got != h {
			return fmt.Errorf("%w: %s", ErrMixedStorage, path[len(path)-1])
		}
		return nil
	}
	for _, a := range o.agents {
		if err := descriptor.Walk(a, check); err != nil {
			return nil, false, err
		}
	}
	for _, t := range o.teams {
		if err := descriptor.Walk(t, check); err != nil {
			return nil, false, err
		}
	}
	if h == nil {
		return storage.NewInMemory(), true, nil
	}
	return h, false, nil
}

// ID returns the OS id.
func (s *OS) ID() string { return s.id }

// Storage returns the shared storage handle.
func (s *OS) Storage() *storage.Handle { return s.storage }

// Agents returns the served agent descriptors in configuration order.
func (s *OS) Agents() []*descriptor.Agent {
	out := make([]*descriptor.Agent, 0, len(s.agents))
	for _, c := range s.agents {
		out = append(out, c.desc.(*descriptor.Agent))
	}
	return out
}

// Teams returns the served team descriptors in configuration order.
func (s *OS) Teams() []*descriptor.Team {
	out := make([]*descriptor.Team, 0, len(s.teams))
	for _, c := range s.teams {
		out = append(out, c.desc.(*descriptor.Team))
	}
	return out
}

// Handler returns the HTTP handler of the OS.
func (s *OS) Handler() http.Handler { return s.handler }

// Serve binds addr and serves until ctx is done. A bind failure, such as the
// port already being in use, is returned at once without serving.
func (s *OS) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("agentos: listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done, then shuts down gracefully
// within the configured timeout.
func (s *OS) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Infof("serving %s on %s", s.id, ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("agentos: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("agentos: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("agentos: serve: %w", err)
	}
	logger.Infof("stopped %s", s.id)
	return nil
}

// Close closes the runners, and the storage handle when the OS created it.
func (s *OS) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		var errs []error
		for id, r := range s.runners {
			if err := r.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close runner %s: %w", id, err))
			}
		}
		s.runners = map[string]runner.Runner{}
		if s.ownsStorage {
			if err := s.storage.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// getRunner returns the cached runner of c, creating it on first use. The
// component ID is the runner app name, so sessions are scoped per component.
func (s *OS) getRunner(c *component) runner.Runner {
	id := c.id()
	s.mu.RLock()
	if r, ok := s.runners[id]; ok {
		s.mu.RUnlock()
		return r
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runners[id]; ok {
		return r
	}
	allOpts := append([]runner.Option{}, s.runnerOpts...)
	allOpts = append(allOpts, runner.WithSessionService(s.storage.Sessions()))
	r := runner.NewRunner(id, c.agent, allOpts...)
	s.runners[id] = r
	return r
}

func (s *OS) lookup(kind descriptor.Kind, id string) (*component, bool) {
	c, ok := s.byID[id]
	if !ok || c.kind != kind {
		return nil, false
	}
	return c, true
}

func (s *OS) components(kind descriptor.Kind) []*component {
	if kind == descriptor.KindTeam {
		return s.teams
	}
	return s.agents
}
