//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package descriptor declares the agents and teams served by the mock server.
//
// Descriptors are plain configuration: a name, ordered instructions, a model
// reference and the shared storage handle. A Team holds an ordered list of
// members, each either an *Agent or a nested *Team, so a configuration is a
// strict tree with no back-references. Descriptors are turned into runnable
// framework agents by package agentos.
package descriptor

import (
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/tool"

	"trpc.group/trpc-go/agno-mock-server/storage"
)

// Kind tells the member variants apart.
type Kind int

const (
	// KindAgent marks an *Agent member.
	KindAgent Kind = iota
	// KindTeam marks a nested *Team member.
	KindTeam
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindTeam:
		return "team"
	default:
		return "unknown"
	}
}

// ProviderOpenAI is the provider of OpenAI chat models.
const ProviderOpenAI = "openai"

// ModelRef names a model. The zero value means "inherit".
type ModelRef struct {
	Provider string
	ID       string
}

// OpenAIChat references an OpenAI chat completion model.
func OpenAIChat(id string) ModelRef {
	return ModelRef{Provider: ProviderOpenAI, ID: id}
}

// IsZero reports whether no model was set.
func (m ModelRef) IsZero() bool {
	return m.ID == ""
}

// String implements fmt.Stringer.
func (m ModelRef) String() string {
	if m.IsZero() {
		return ""
	}
	if m.Provider == "" {
		return m.ID
	}
	return m.Provider + ":" + m.ID
}

// Member is a node of a team tree. It is implemented by *Agent and *Team only.
type Member interface {
	Kind() Kind
	// ID is the URL and tool safe identifier derived from the name.
	ID() string
	// DisplayName is the configured name.
	DisplayName() string

	member()
}

// Agent describes one model backed conversational role.
type Agent struct {
	Name        string
	Description string
	// Role is the short role text used when the agent is a team member.
	Role         string
	Instructions []string
	Model        ModelRef
	Storage      *storage.Handle

	AddHistoryToContext bool
	// HistoryRuns bounds the number of past runs added to the context. Zero
	// means three runs.
	HistoryRuns int
	Markdown    bool

	Tools []tool.Tool
}

// Kind implements Member.
func (*Agent) Kind() Kind { return KindAgent }

// ID implements Member.
func (a *Agent) ID() string { return Slug(a.Name) }

// DisplayName implements Member.
func (a *Agent) DisplayName() string { return a.Name }

func (*Agent) member() {}

// Team groups agents and nested teams under a leader model.
type Team struct {
	Name         string
	Description  string
	Role         string
	Instructions []string
	// Model is the leader model that coordinates the members.
	Model   ModelRef
	Storage *storage.Handle

	AddHistoryToContext bool
	HistoryRuns         int
	Markdown            bool

	// Members keeps insertion order.
	Members []Member
}

// Kind implements Member.
func (*Team) Kind() Kind { return KindTeam }

// ID implements Member.
func (t *Team) ID() string { return Slug(t.Name) }

// DisplayName implements Member.
func (t *Team) DisplayName() string { return t.Name }

func (*Team) member() {}

// MemberNames returns the display names of the direct members in order.
func (t *Team) MemberNames() []string {
	names := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		if isNil(m) {
			continue
		}
		names = append(names, m.DisplayName())
	}
	return names
}

// Slug lowercases name and replaces each run of characters outside
// [a-z0-9] with a single '-'.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
