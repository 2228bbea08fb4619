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
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/model"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

const maxFormMemory = 32 << 20

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)

// Run event names. Team runs prefix them with "Team".
const (
	EventRunStarted        = "RunStarted"
	EventRunContent        = "RunContent"
	EventToolCallStarted   = "ToolCallStarted"
	EventToolCallCompleted = "ToolCallCompleted"
	EventRunCompleted      = "RunCompleted"
	EventRunError          = "RunError"

	teamEventPrefix = "Team"
)

// runRequest is the body of POST /agents/{id}/runs and POST /teams/{id}/runs.
type runRequest struct {
	Message   string `json:"message"`
	Stream    *bool  `json:"stream,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// parseRunRequest reads a JSON, urlencoded or multipart run request and
// fills in the defaults.
func parseRunRequest(r *http.Request) (runRequest, bool, error) {
	var req runRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case contentTypeJSON:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, false, fmt.Errorf("%w: decode body: %v", errBadRequest, err)
		}
	default:
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(maxFormMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return req, false, fmt.Errorf("%w: parse form: %v", errBadRequest, err)
		}
		req.Message = r.FormValue("message")
		req.SessionID = r.FormValue("session_id")
		req.UserID = r.FormValue("user_id")
		if v := r.FormValue("stream"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return req, false, fmt.Errorf("%w: invalid stream value %q", errBadRequest, v)
			}
			req.Stream = &b
		}
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return req, false, fmt.Errorf("%w: message is required", errBadRequest)
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}
	stream := true
	if req.Stream != nil {
		stream = *req.Stream
	}
	return req, stream, nil
}

// handleRun returns the run handler of agents or teams.
func (s *OS) handleRun(kind descriptor.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("handleRun called: path=%s", r.URL.Path)
		defer r.Body.Close()

		c, ok := s.lookup(kind, mux.Vars(r)["id"])
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
			return
		}
		req, stream, err := parseRunRequest(r)
		if err != nil {
			writeError(w, statusOf(err), err.Error())
			return
		}

		runID := uuid.NewString()
		rs := newRunState(c, s.modelName(c), runID, req)
		ctx := newDetachedContext(r.Context())
		out, err := s.getRunner(c).Run(ctx, req.UserID, req.SessionID,
			model.NewUserMessage(req.Message), withRequestID(runID))
		if err != nil {
			runsTotal.WithLabelValues(kind.String(), c.id(), RunStatusError).Inc()
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		start := time.Now()
		if stream {
			s.streamRun(w, rs, out)
		} else {
			s.collectRun(w, rs, out)
		}
		runDuration.WithLabelValues(kind.String(), c.id()).Observe(time.Since(start).Seconds())
		runsTotal.WithLabelValues(kind.String(), c.id(), rs.status()).Inc()
		logger.Infof("handleRun finished: %s %s session=%s run=%s status=%s",
			kind, c.id(), req.SessionID, runID, rs.status())
	}
}

// streamRun writes every converted event as a server-sent event.
func (s *OS) streamRun(w http.ResponseWriter, rs *runState, out <-chan *event.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		drain(out)
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(events []RunEvent) {
		for _, ev := range events {
			if err := writeSSE(w, ev); err != nil {
				logger.Errorf("write run event %s: %v", ev.Event, err)
				continue
			}
			flusher.Flush()
		}
	}
	send([]RunEvent{rs.started()})
	for e := range out {
		send(rs.convert(e))
	}
	send(rs.finish())
}

// collectRun consumes the run and writes one RunOutput.
func (s *OS) collectRun(w http.ResponseWriter, rs *runState, out <-chan *event.Event) {
	for e := range out {
		rs.convert(e)
	}
	rs.finish()
	if rs.errMsg != "" {
		writeError(w, http.StatusInternalServerError, rs.errMsg)
		return
	}
	writeJSON(w, http.StatusOK, rs.output())
}

func writeSSE(w http.ResponseWriter, ev RunEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Event, data)
	return err
}

func drain(out <-chan *event.Event) {
	for range out {
	}
}

func withRequestID(id string) agent.RunOption {
	return func(o *agent.RunOptions) {
		o.RequestID = id
	}
}

// modelName returns the effective model id of c.
func (s *OS) modelName(c *component) string {
	return s.resolved[c.desc].ID
}

// runState converts the framework events of one run into run events and
// accumulates its output.
type runState struct {
	kind      descriptor.Kind
	id        string
	name      string
	model     string
	runID     string
	sessionID string
	userID    string
	input     string
	createdAt int64

	deltas   strings.Builder
	final    string
	sawDelta bool
	tools    []ToolExecution
	toolIdx  map[string]int
	metrics  *RunMetrics
	errMsg   string
	finished bool
}

func newRunState(c *component, modelName, runID string, req runRequest) *runState {
	return &runState{
		kind:      c.kind,
		id:        c.id(),
		name:      c.desc.DisplayName(),
		model:     modelName,
		runID:     runID,
		sessionID: req.SessionID,
		userID:    req.UserID,
		input:     req.Message,
		createdAt: time.Now().Unix(),
		toolIdx:   make(map[string]int),
	}
}

// newEvent stamps the common fields of a run event.
func (rs *runState) newEvent(name string) RunEvent {
	ev := RunEvent{
		Event:     name,
		RunID:     rs.runID,
		SessionID: rs.sessionID,
		Model:     rs.model,
		CreatedAt: time.Now().Unix(),
	}
	if rs.kind == descriptor.KindTeam {
		ev.Event = teamEventPrefix + name
		ev.TeamID, ev.TeamName = rs.id, rs.name
	} else {
		ev.AgentID, ev.AgentName = rs.id, rs.name
	}
	return ev
}

func (rs *runState) started() RunEvent {
	return rs.newEvent(EventRunStarted)
}

// convert maps one framework event. Only text authored by the component
// itself becomes content; member output reaches the coordinator as tool
// results.
func (rs *runState) convert(e *event.Event) []RunEvent {
	if e == nil || e.Response == nil || rs.finished {
		return nil
	}
	rsp := e.Response
	if rsp.Object == model.ObjectTypeRunnerCompletion {
		return nil
	}
	if rsp.Error != nil {
		rs.errMsg = rsp.Error.Message
		ev := rs.newEvent(EventRunError)
		ev.Content = rsp.Error.Message
		return []RunEvent{ev}
	}
	if len(rsp.Choices) == 0 {
		return nil
	}

	var out []RunEvent
	switch {
	case rsp.IsToolCallResponse():
		if rsp.IsPartial {
			return nil
		}
		for _, tc := range rsp.Choices[0].Message.ToolCalls {
			exec := ToolExecution{
				ToolCallID: tc.ID,
				ToolName:   tc.Function.Name,
				ToolArgs:   toolArgs(tc.Function.Arguments),
			}
			rs.toolIdx[tc.ID] = len(rs.tools)
			rs.tools = append(rs.tools, exec)
			ev := rs.newEvent(EventToolCallStarted)
			ev.Tool = &exec
			out = append(out, ev)
		}
	case rsp.Object == model.ObjectTypeToolResponse || rsp.IsToolResultResponse():
		if rsp.IsPartial {
			return nil
		}
		for _, ch := range rsp.Choices {
			if ch.Message.ToolID == "" {
				continue
			}
			exec := rs.completeTool(ch.Message)
			ev := rs.newEvent(EventToolCallCompleted)
			ev.Tool = &exec
			out = append(out, ev)
		}
	case e.Author == rs.id:
		if rsp.IsPartial {
			if delta := rsp.Choices[0].Delta.Content; delta != "" {
				rs.sawDelta = true
				rs.deltas.WriteString(delta)
				ev := rs.newEvent(EventRunContent)
				ev.Content = delta
				out = append(out, ev)
			}
			return out
		}
		if content := rsp.Choices[0].Message.Content; content != "" && rsp.Choices[0].Message.Role == model.RoleAssistant {
			rs.final = content
			if !rs.sawDelta {
				ev := rs.newEvent(EventRunContent)
				ev.Content = content
				out = append(out, ev)
			}
		}
	}
	if rsp.Usage != nil && !rsp.IsPartial {
		rs.addUsage(rsp.Usage)
	}
	return out
}

func (rs *runState) completeTool(msg model.Message) ToolExecution {
	i, ok := rs.toolIdx[msg.ToolID]
	if !ok {
		rs.toolIdx[msg.ToolID] = len(rs.tools)
		rs.tools = append(rs.tools, ToolExecution{ToolCallID: msg.ToolID, ToolName: msg.ToolName})
		i = len(rs.tools) - 1
	}
	rs.tools[i].Result = msg.Content
	rs.tools[i].ToolCallError = isToolError(msg.Content)
	if rs.tools[i].ToolName == "" {
		rs.tools[i].ToolName = msg.ToolName
	}
	return rs.tools[i]
}

func (rs *runState) addUsage(u *model.Usage) {
	if rs.metrics == nil {
		rs.metrics = &RunMetrics{}
	}
	rs.metrics.InputTokens += u.PromptTokens
	rs.metrics.OutputTokens += u.CompletionTokens
	rs.metrics.TotalTokens += u.TotalTokens
}

// finish closes the run; errored runs have already emitted RunError.
func (rs *runState) finish() []RunEvent {
	if rs.finished {
		return nil
	}
	rs.finished = true
	if rs.errMsg != "" {
		return nil
	}
	ev := rs.newEvent(EventRunCompleted)
	ev.Content = rs.content()
	ev.Metrics = rs.metrics
	return []RunEvent{ev}
}

func (rs *runState) content() string {
	if rs.final != "" {
		return rs.final
	}
	return rs.deltas.String()
}

func (rs *runState) status() string {
	if rs.errMsg != "" {
		return RunStatusError
	}
	return RunStatusCompleted
}

func (rs *runState) output() RunOutput {
	out := RunOutput{
		RunID:     rs.runID,
		SessionID: rs.sessionID,
		UserID:    rs.userID,
		RunInput:  rs.input,
		Content:   rs.content(),
		Status:    rs.status(),
		Model:     rs.model,
		Tools:     rs.tools,
		Metrics:   rs.metrics,
		CreatedAt: rs.createdAt,
	}
	if rs.kind == descriptor.KindTeam {
		out.TeamID = rs.id
	} else {
		out.AgentID = rs.id
	}
	return out
}

// toolErrorMarker prefixes the messages the framework puts in place of a
// tool result when the call fails.
const toolErrorMarker = "Error: "

// isToolError reports whether a tool result is a framework error message.
// Successful results are always JSON encoded.
func isToolError(content string) bool {
	return !json.Valid([]byte(content)) && strings.Contains(content, toolErrorMarker)
}

// toolArgs decodes tool call arguments, keeping invalid JSON as raw text.
func toolArgs(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return args
}

// detachedContext keeps the request values but ignores its cancellation, so
// a client disconnect does not cut the run short while events are persisted.
type detachedContext struct {
	context.Context
}

func newDetachedContext(ctx context.Context) context.Context {
	return detachedContext{Context: ctx}
}

func (detachedContext) Deadline() (time.Time, bool) { return time.Time{}, false }

func (detachedContext) Done() <-chan struct{} { return nil }

func (detachedContext) Err() error { return nil }
