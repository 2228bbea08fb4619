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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

const contentTypeJSON = "application/json"

// registerRoutes sets up the AgentOS compatible endpoints.
func (s *OS) registerRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)

	s.router.HandleFunc("/agents", s.handleListAgents).Methods(http.MethodGet)
	s.router.HandleFunc("/agents/{id}", s.handleGetAgent).Methods(http.MethodGet)
	s.router.HandleFunc("/agents/{id}/runs", s.handleRun(descriptor.KindAgent)).Methods(http.MethodPost)

	s.router.HandleFunc("/teams", s.handleListTeams).Methods(http.MethodGet)
	s.router.HandleFunc("/teams/{id}", s.handleGetTeam).Methods(http.MethodGet)
	s.router.HandleFunc("/teams/{id}/runs", s.handleRun(descriptor.KindTeam)).Methods(http.MethodPost)

	s.router.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}/runs", s.handleGetSessionRuns).Methods(http.MethodGet)
	s.router.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.router.NotFoundHandler = unmatchedMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("path %s not found", r.URL.Path))
	}))
	s.router.MethodNotAllowedHandler = unmatchedMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}))
}

func (s *OS) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *OS) handleConfig(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleConfig called: path=%s", r.URL.Path)
	resp := ConfigResponse{
		OSID:        s.id,
		Description: s.description,
		Databases:   []string{s.storage.Path()},
		Agents:      make([]ComponentRef, 0, len(s.agents)),
		Teams:       make([]ComponentRef, 0, len(s.teams)),
	}
	for _, a := range s.Agents() {
		resp.Agents = append(resp.Agents, ComponentRef{ID: a.ID(), Name: a.Name, Description: a.Description})
	}
	for _, t := range s.Teams() {
		resp.Teams = append(resp.Teams, ComponentRef{ID: t.ID(), Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *OS) handleListAgents(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleListAgents called: path=%s", r.URL.Path)
	out := make([]*AgentResponse, 0, len(s.agents))
	for _, a := range s.Agents() {
		out = append(out, s.agentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *OS) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleGetAgent called: path=%s", r.URL.Path)
	c, ok := s.lookup(descriptor.KindAgent, mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, s.agentResponse(c.desc.(*descriptor.Agent)))
}

func (s *OS) handleListTeams(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleListTeams called: path=%s", r.URL.Path)
	out := make([]*TeamResponse, 0, len(s.teams))
	for _, t := range s.Teams() {
		out = append(out, s.teamResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *OS) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleGetTeam called: path=%s", r.URL.Path)
	c, ok := s.lookup(descriptor.KindTeam, mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}
	writeJSON(w, http.StatusOK, s.teamResponse(c.desc.(*descriptor.Team)))
}

func (s *OS) agentResponse(a *descriptor.Agent) *AgentResponse {
	resp := &AgentResponse{
		ID:                  a.ID(),
		Name:                a.Name,
		Type:                descriptor.KindAgent.String(),
		Description:         a.Description,
		Role:                a.Role,
		Model:               s.modelInfo(a),
		Instructions:        a.Instructions,
		Markdown:            a.Markdown,
		AddHistoryToContext: a.AddHistoryToContext,
	}
	for _, t := range a.Tools {
		if t == nil || t.Declaration() == nil {
			continue
		}
		resp.Tools = append(resp.Tools, t.Declaration().Name)
	}
	return resp
}

func (s *OS) teamResponse(t *descriptor.Team) *TeamResponse {
	resp := &TeamResponse{
		ID:                  t.ID(),
		Name:                t.Name,
		Type:                descriptor.KindTeam.String(),
		Description:         t.Description,
		Role:                t.Role,
		Model:               s.modelInfo(t),
		Instructions:        t.Instructions,
		Markdown:            t.Markdown,
		AddHistoryToContext: t.AddHistoryToContext,
		Members:             make([]any, 0, len(t.Members)),
	}
	for _, m := range t.Members {
		switch v := m.(type) {
		case *descriptor.Agent:
			resp.Members = append(resp.Members, s.agentResponse(v))
		case *descriptor.Team:
			resp.Members = append(resp.Members, s.teamResponse(v))
		}
	}
	return resp
}

// modelInfo reports the effective model of m, including inherited ones.
func (s *OS) modelInfo(m descriptor.Member) *ModelInfo {
	ref, ok := s.resolved[m]
	if !ok || ref.IsZero() {
		return nil
	}
	return &ModelInfo{Name: ref.ID, Model: ref.ID, Provider: ref.Provider}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// statusOf maps well known errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
