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
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/team"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

const (
	markdownInstruction = "Use markdown to format your answers."
	memberToolSetPrefix = "team-members-"
	messagesPerRun      = 2
)

// builder materializes descriptors into framework agents. Framework agent
// names are descriptor IDs because members are exposed to their coordinator
// as tools, and tool names only allow [a-zA-Z0-9_-].
type builder struct {
	models       *cachedModels
	defaultModel descriptor.ModelRef
	// resolved records the effective model of every built descriptor.
	resolved map[descriptor.Member]descriptor.ModelRef
}

func newBuilder(f ModelFactory, defaultModel descriptor.ModelRef) *builder {
	return &builder{
		models:       newCachedModels(f),
		defaultModel: defaultModel,
		resolved:     make(map[descriptor.Member]descriptor.ModelRef),
	}
}

// build materializes m; inherited is the resolved model of the parent team.
func (b *builder) build(m descriptor.Member, inherited descriptor.ModelRef) (agent.Agent, error) {
	switch v := m.(type) {
	case *descriptor.Agent:
		return b.buildAgent(v, inherited)
	case *descriptor.Team:
		return b.buildTeam(v, inherited)
	default:
		return nil, fmt.Errorf("unknown member type %T", m)
	}
}

func (b *builder) resolve(own, inherited descriptor.ModelRef) descriptor.ModelRef {
	if !own.IsZero() {
		return own
	}
	if !inherited.IsZero() {
		return inherited
	}
	return b.defaultModel
}

func (b *builder) buildAgent(a *descriptor.Agent, inherited descriptor.ModelRef) (agent.Agent, error) {
	ref := b.resolve(a.Model, inherited)
	mdl, err := b.models.get(ref)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", a.ID(), err)
	}
	b.resolved[a] = ref

	opts := b.commonOptions(mdl, a.Description, a.Role, a.Instructions, a.Markdown,
		a.AddHistoryToContext, a.HistoryRuns)
	if len(a.Tools) > 0 {
		opts = append(opts, llmagent.WithTools(a.Tools))
	}
	return llmagent.New(a.ID(), opts...), nil
}

func (b *builder) buildTeam(t *descriptor.Team, inherited descriptor.ModelRef) (agent.Agent, error) {
	ref := b.resolve(t.Model, inherited)
	mdl, err := b.models.get(ref)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", t.ID(), err)
	}
	b.resolved[t] = ref

	members := make([]agent.Agent, 0, len(t.Members))
	for _, m := range t.Members {
		built, err := b.build(m, ref)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", t.ID(), err)
		}
		members = append(members, built)
	}

	instructions := t.Instructions
	if len(instructions) == 0 {
		instructions = []string{coordinatorInstruction(t)}
	}
	coordinator := llmagent.New(
		t.ID(),
		b.commonOptions(mdl, t.Description, t.Role, instructions, t.Markdown,
			t.AddHistoryToContext, t.HistoryRuns)...,
	)
	tm, err := team.New(coordinator, members,
		team.WithDescription(describe(t.Description, t.Role)),
		team.WithMemberToolSetName(memberToolSetName(t.ID())),
	)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", t.ID(), err)
	}
	return tm, nil
}

func (b *builder) commonOptions(
	mdl model.Model,
	description string,
	role string,
	instructions []string,
	markdown bool,
	history bool,
	historyRuns int,
) []llmagent.Option {
	opts := []llmagent.Option{
		llmagent.WithModel(mdl),
		llmagent.WithDescription(describe(description, role)),
		llmagent.WithInstruction(instructionText(role, instructions, markdown)),
		llmagent.WithGenerationConfig(model.GenerationConfig{Stream: true}),
	}
	if !history {
		return append(opts, llmagent.WithMessageFilterMode(llmagent.RequestContext))
	}
	return append(opts, llmagent.WithMaxHistoryRuns(historyMessages(historyRuns)))
}

// historyMessages converts a number of past runs into the message limit the
// framework applies. A run is a user message and an assistant reply, and the
// limit also counts the current user message.
func historyMessages(runs int) int {
	if runs <= 0 {
		runs = defaultHistoryRuns
	}
	return runs*messagesPerRun + 1
}

// instructionText joins the role and the ordered instructions into the
// system instruction of an llm agent.
func instructionText(role string, instructions []string, markdown bool) string {
	lines := make([]string, 0, len(instructions)+2)
	if r := strings.TrimSuffix(strings.TrimSpace(role), "."); r != "" {
		lines = append(lines, r+".")
	}
	for _, ins := range instructions {
		if s := strings.TrimSpace(ins); s != "" {
			lines = append(lines, s)
		}
	}
	if markdown {
		lines = append(lines, markdownInstruction)
	}
	return strings.Join(lines, "\n")
}

func describe(description, role string) string {
	if description != "" {
		return description
	}
	return role
}

// memberToolSetName names the tool set exposing the members of a team. The
// framework prefixes each member tool with it.
func memberToolSetName(teamID string) string {
	return memberToolSetPrefix + teamID
}

// memberToolName is the tool a coordinator calls to delegate to a member.
func memberToolName(teamID, memberID string) string {
	return memberToolSetName(teamID) + "_" + memberID
}

// coordinatorInstruction is used for teams configured without instructions.
func coordinatorInstruction(t *descriptor.Team) string {
	tools := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		tools = append(tools, memberToolName(t.ID(), m.ID()))
	}
	return "You lead a team. Delegate to a member by calling its tool: " + strings.Join(tools, ", ") +
		". Pick the member best suited to the request, call it, and reply with its answer."
}
