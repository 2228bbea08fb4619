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
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-agent-go/model"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

// recordingModel answers every request and records how many non-system
// messages each request carried.
type recordingModel struct {
	mu     sync.Mutex
	counts []int
}

func (m *recordingModel) GenerateContent(_ context.Context, req *model.Request) (<-chan *model.Response, error) {
	n := 0
	for _, msg := range req.Messages {
		if msg.Role != model.RoleSystem {
			n++
		}
	}
	m.mu.Lock()
	m.counts = append(m.counts, n)
	m.mu.Unlock()
	return replyWith(finalResponse("noted")), nil
}

func (m *recordingModel) Info() model.Info {
	return model.Info{Name: "recording"}
}

func (m *recordingModel) last() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.counts) == 0 {
		return 0
	}
	return m.counts[len(m.counts)-1]
}

// coordinatorModel delegates to tool once, then answers after the tool
// result comes back.
type coordinatorModel struct {
	tool string
}

func (m *coordinatorModel) GenerateContent(_ context.Context, req *model.Request) (<-chan *model.Response, error) {
	if n := len(req.Messages); n > 0 && req.Messages[n-1].Role == model.RoleTool {
		return replyWith(finalResponse("final answer")), nil
	}
	return replyWith(toolCallResponse("call-1", m.tool, `{"request":"summarize"}`)), nil
}

func (m *coordinatorModel) Info() model.Info {
	return model.Info{Name: "coordinator"}
}

func replyWith(rsp *model.Response) <-chan *model.Response {
	ch := make(chan *model.Response, 1)
	ch <- rsp
	close(ch)
	return ch
}

func modelsByID(models map[string]model.Model) ModelFactory {
	return func(ref descriptor.ModelRef) (model.Model, error) {
		return models[ref.ID], nil
	}
}

func TestHistoryReachingModel(t *testing.T) {
	tests := []struct {
		name        string
		history     bool
		historyRuns int
		want        int
	}{
		{name: "history off sends only the current message", history: false, want: 1},
		{name: "two past runs plus the current message", history: true, historyRuns: 2, want: 5},
		{name: "default of three past runs", history: true, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingModel{}
			s, err := New(
				WithAgents(&descriptor.Agent{
					Name:                "Memo",
					Model:               descriptor.OpenAIChat("memo"),
					AddHistoryToContext: tt.history,
					HistoryRuns:         tt.historyRuns,
				}),
				WithModelFactory(modelsByID(map[string]model.Model{"memo": rec})),
			)
			require.NoError(t, err)
			defer s.Close()

			for i := 0; i < 5; i++ {
				resp := postForm(t, s, "/agents/memo/runs", url.Values{
					"message":    {"turn"},
					"session_id": {"history"},
					"stream":     {"false"},
				})
				require.Equal(t, http.StatusOK, resp.Code)
			}
			assert.Equal(t, tt.want, rec.last())
		})
	}
}

func TestTeamRunDelegatesToMember(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		wantError bool
	}{
		{name: "member tool", tool: memberToolName("desk", "helper")},
		{name: "unknown tool", tool: "helper", wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := &descriptor.Team{
				Name:  "Desk",
				Model: descriptor.OpenAIChat("coordinator"),
				Members: []descriptor.Member{
					&descriptor.Agent{Name: "Helper", Model: descriptor.OpenAIChat("helper")},
				},
			}
			helper := &recordingModel{}
			s, err := New(
				WithTeams(desc),
				WithModelFactory(modelsByID(map[string]model.Model{
					"coordinator": &coordinatorModel{tool: tt.tool},
					"helper":      helper,
				})),
			)
			require.NoError(t, err)
			defer s.Close()

			resp := postForm(t, s, "/teams/desk/runs", url.Values{"message": {"summarize the news"}})
			require.Equal(t, http.StatusOK, resp.Code)

			byName := map[string]RunEvent{}
			for _, f := range parseSSE(t, resp.Body.String()) {
				byName[f.name] = f.data
			}
			started, ok := byName["TeamToolCallStarted"]
			require.True(t, ok)
			assert.Equal(t, tt.tool, started.Tool.ToolName)

			completed, ok := byName["TeamToolCallCompleted"]
			require.True(t, ok)
			assert.Equal(t, tt.wantError, completed.Tool.ToolCallError)
			if tt.wantError {
				assert.Empty(t, helper.counts)
			} else {
				assert.Contains(t, completed.Tool.Result, "noted")
				assert.NotEmpty(t, helper.counts)
			}

			final, ok := byName["TeamRunCompleted"]
			require.True(t, ok)
			assert.Equal(t, "final answer", final.Content)
			assert.Equal(t, "desk", final.TeamID)
		})
	}
}

func TestIsToolError(t *testing.T) {
	assert.False(t, isToolError(`{"cards":4}`))
	assert.False(t, isToolError(`"Error: quoted text is a valid result"`))
	assert.True(t, isToolError("executeToolCall: Error: tool not found"))
	assert.True(t, isToolError("Error: callable tool execution failed: boom"))
	assert.False(t, isToolError("plain text"))
}
