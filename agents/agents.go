//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package agents builds the agent descriptors served by the mock server.
package agents

import (
	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

// Agent names.
const (
	GenerativeUIName = "generative-ui-demo"
	ResearcherName   = "researcher"
	WriterName       = "writer"
)

// DefaultModel is the model of every agent built here.
var DefaultModel = descriptor.OpenAIChat("gpt-4o-mini")

// New returns the top-level agents.
func New(h *storage.Handle) []*descriptor.Agent {
	return []*descriptor.Agent{NewGenerativeUI(h)}
}

// NewGenerativeUI returns the agent that answers with renderable UI payloads.
func NewGenerativeUI(h *storage.Handle) *descriptor.Agent {
	return &descriptor.Agent{
		Name:        GenerativeUIName,
		Description: "Generative UI demo that answers with charts, cards, tables and metrics.",
		Instructions: []string{
			"You are a data assistant whose answers are rendered as rich UI components.",
			"Use " + ToolRevenueChart + " for revenue questions; prefer a line chart for trends and a bar chart otherwise.",
			"Use " + ToolRentalCars + " when the user looks for a car to rent.",
			"Use " + ToolCompareProducts + " when the user wants to compare products.",
			"Use " + ToolDashboardMetrics + " for dashboards or key metrics.",
			"After a tool call, add a short summary of what the component shows.",
		},
		Model:               DefaultModel,
		Storage:             h,
		AddHistoryToContext: true,
		Markdown:            true,
		Tools:               generativeUITools(),
	}
}

// NewResearcher returns the research specialist.
func NewResearcher(h *storage.Handle) *descriptor.Agent {
	return &descriptor.Agent{
		Name:        ResearcherName,
		Description: "Research specialist who gathers and analyzes information.",
		Instructions: []string{
			"You are a research specialist.",
			"Your role is to gather information and provide detailed analysis.",
			"Be thorough and cite your reasoning.",
		},
		Model:               DefaultModel,
		Storage:             h,
		AddHistoryToContext: true,
		Markdown:            true,
	}
}

// NewWriter returns the writing specialist.
func NewWriter(h *storage.Handle) *descriptor.Agent {
	return &descriptor.Agent{
		Name:        WriterName,
		Description: "Writing specialist who creates clear, engaging content.",
		Instructions: []string{
			"You are a writing specialist.",
			"Your role is to create clear, engaging, and well-structured content.",
			"Focus on clarity and readability.",
		},
		Model:               DefaultModel,
		Storage:             h,
		AddHistoryToContext: true,
		Markdown:            true,
	}
}
