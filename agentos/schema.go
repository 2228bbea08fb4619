//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agentos

// Wire types of the AgentOS compatible HTTP API.

// ModelInfo describes the model of a component.
type ModelInfo struct {
	Name     string `json:"name"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// ComponentRef is the short form of an agent or team listed by /config.
type ComponentRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConfigResponse is returned by GET /config.
type ConfigResponse struct {
	OSID        string         `json:"os_id"`
	Description string         `json:"description,omitempty"`
	Databases   []string       `json:"databases"`
	Agents      []ComponentRef `json:"agents"`
	Teams       []ComponentRef `json:"teams"`
}

// AgentResponse describes an agent.
type AgentResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Description         string     `json:"description,omitempty"`
	Role                string     `json:"role,omitempty"`
	Model               *ModelInfo `json:"model,omitempty"`
	Instructions        []string   `json:"instructions,omitempty"`
	Tools               []string   `json:"tools,omitempty"`
	Markdown            bool       `json:"markdown"`
	AddHistoryToContext bool       `json:"add_history_to_context"`
}

// TeamResponse describes a team. Members hold *AgentResponse and
// *TeamResponse values in configuration order.
type TeamResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Description         string     `json:"description,omitempty"`
	Role                string     `json:"role,omitempty"`
	Model               *ModelInfo `json:"model,omitempty"`
	Instructions        []string   `json:"instructions,omitempty"`
	Markdown            bool       `json:"markdown"`
	AddHistoryToContext bool       `json:"add_history_to_context"`
	Members             []any      `json:"members"`
}

// ToolExecution is a tool call made during a run.
type ToolExecution struct {
	ToolCallID    string         `json:"tool_call_id"`
	ToolName      string         `json:"tool_name"`
	ToolArgs      map[string]any `json:"tool_args,omitempty"`
	Result        string         `json:"result,omitempty"`
	ToolCallError bool           `json:"tool_call_error,omitempty"`
}

// RunMetrics holds token usage of a run.
type RunMetrics struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// RunEvent is one server-sent event of a streaming run.
type RunEvent struct {
	Event     string         `json:"event"`
	RunID     string         `json:"run_id"`
	SessionID string         `json:"session_id"`
	AgentID   string         `json:"agent_id,omitempty"`
	AgentName string         `json:"agent_name,omitempty"`
	TeamID    string         `json:"team_id,omitempty"`
	TeamName  string         `json:"team_name,omitempty"`
	Model     string         `json:"model,omitempty"`
	Content   string         `json:"content,omitempty"`
	Tool      *ToolExecution `json:"tool,omitempty"`
	Metrics   *RunMetrics    `json:"metrics,omitempty"`
	CreatedAt int64          `json:"created_at"`
}

// Run statuses.
const (
	RunStatusCompleted = "COMPLETED"
	RunStatusError     = "ERROR"
)

// RunOutput is the result of a run, returned by non-streaming runs and by
// GET /sessions/{id}/runs.
type RunOutput struct {
	RunID     string          `json:"run_id"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id,omitempty"`
	AgentID   string          `json:"agent_id,omitempty"`
	TeamID    string          `json:"team_id,omitempty"`
	RunInput  string          `json:"run_input,omitempty"`
	Content   string          `json:"content"`
	Status    string          `json:"status"`
	Model     string          `json:"model,omitempty"`
	Tools     []ToolExecution `json:"tools,omitempty"`
	Metrics   *RunMetrics     `json:"metrics,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// SessionSummary is one entry of GET /sessions.
type SessionSummary struct {
	SessionID   string `json:"session_id"`
	SessionName string `json:"session_name"`
	ComponentID string `json:"component_id"`
	UserID      string `json:"user_id"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// SessionDetail is returned by GET /sessions/{id}.
type SessionDetail struct {
	SessionSummary
	AgentID  string      `json:"agent_id,omitempty"`
	TeamID   string      `json:"team_id,omitempty"`
	RunCount int         `json:"run_count"`
	Runs     []RunOutput `json:"runs"`
}

// PageMeta describes a page of a list response.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// SessionList is returned by GET /sessions.
type SessionList struct {
	Data []SessionSummary `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
