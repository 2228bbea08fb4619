//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package teams builds the team descriptors served by the mock server.
//
// The two teams are independent examples that only share the storage handle:
// a collaborative team of two specialists and a hierarchical multilingual team
// that nests a team inside a team.
package teams

import (
	"trpc.group/trpc-go/agno-mock-server/agents"
	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

// Team names.
const (
	SimpleTeamName   = "simple-team"
	LanguageTeamName = "language-team"
	GermanicTeamName = "Germanic Team"
)

// New returns the top-level teams in a fixed order.
func New(h *storage.Handle) []*descriptor.Team {
	return []*descriptor.Team{
		SimpleTeam(h),
		LanguageTeam(h),
	}
}

// SimpleTeam returns a researcher and a writer coordinated by a leader.
func SimpleTeam(h *storage.Handle) *descriptor.Team {
	return &descriptor.Team{
		Name:        SimpleTeamName,
		Description: "A simple team with a researcher and a writer that collaborate to answer questions.",
		Instructions: []string{
			"You are a team leader coordinating between a researcher and a writer.",
			"For questions requiring research, delegate to the researcher first.",
			"For content creation, use the writer.",
			"Combine their outputs to provide comprehensive answers.",
		},
		Model:   agents.DefaultModel,
		Storage: h,
		Members: []descriptor.Member{
			agents.NewResearcher(h),
			agents.NewWriter(h),
		},
		AddHistoryToContext: true,
		Markdown:            true,
	}
}

// LanguageTeam returns a team answering in English, Chinese, or through a
// nested Germanic team, German and Dutch. Members carry no model of their own
// and inherit the configured default.
func LanguageTeam(h *storage.Handle) *descriptor.Team {
	return &descriptor.Team{
		Name:    LanguageTeamName,
		Storage: h,
		Members: []descriptor.Member{
			languageAgent("English Agent", "English"),
			languageAgent("Chinese Agent", "Chinese"),
			&descriptor.Team{
				Name: GermanicTeamName,
				Role: "You coordinate the team members to answer questions in German and Dutch",
				Members: []descriptor.Member{
					languageAgent("German Agent", "German"),
					languageAgent("Dutch Agent", "Dutch"),
				},
			},
		},
	}
}

func languageAgent(name, language string) *descriptor.Agent {
	return &descriptor.Agent{
		Name: name,
		Role: "You answer questions in " + language,
	}
}
