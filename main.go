//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package main starts the agno mock server: a demo agent and demo teams
// served over the AgentOS HTTP API on http://localhost:7777.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trpc.group/trpc-go/agno-mock-server/agentos"
	"trpc.group/trpc-go/agno-mock-server/agents"
	"trpc.group/trpc-go/agno-mock-server/config"
	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/log"
	"trpc.group/trpc-go/agno-mock-server/storage"
	"trpc.group/trpc-go/agno-mock-server/teams"
)

func main() {
	if err := run(); err != nil {
		log.Errorf("agno mock server: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := storage.Open(ctx, cfg.Storage.DBFile,
		storage.WithSessionEventLimit(cfg.Storage.SessionEventLimit))
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Errorf("close storage: %v", err)
		}
	}()

	agentList := agents.New(h)
	teamList := teams.New(h)
	srv, err := agentos.New(
		agentos.WithID(cfg.OSID),
		agentos.WithDescription(cfg.Description),
		agentos.WithAgents(agentList...),
		agentos.WithTeams(teamList...),
		agentos.WithStorage(h),
		agentos.WithModelFactory(agentos.OpenAIModels(cfg.Model.APIKey, cfg.Model.BaseURL)),
		agentos.WithDefaultModel(descriptor.OpenAIChat(cfg.Model.DefaultModel)),
		agentos.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Errorf("close agentos: %v", err)
		}
	}()

	if err := printBanner(os.Stdout, cfg.Server.URL(), agentList, teamList); err != nil {
		return err
	}
	return srv.Serve(ctx, cfg.Server.Addr())
}
