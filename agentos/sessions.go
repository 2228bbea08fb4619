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
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/session"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

const (
	defaultPageLimit     = 20
	maxPageLimit         = 100
	maxSessionNameLength = 50
)

// sessionQuery is the filter of the session endpoints.
type sessionQuery struct {
	kind        string
	componentID string
	userID      string
}

func parseSessionQuery(r *http.Request) (sessionQuery, error) {
	q := r.URL.Query()
	sq := sessionQuery{
		kind:        q.Get("type"),
		componentID: q.Get("component_id"),
		userID:      q.Get("user_id"),
	}
	switch sq.kind {
	case "", descriptor.KindAgent.String(), descriptor.KindTeam.String():
	default:
		return sq, fmt.Errorf("%w: invalid type %q", errBadRequest, sq.kind)
	}
	if sq.userID == "" {
		sq.userID = defaultUserID
	}
	return sq, nil
}

// candidates returns the components matching q in configuration order.
func (s *OS) candidates(q sessionQuery) ([]*component, error) {
	var out []*component
	for _, c := range append(append([]*component{}, s.agents...), s.teams...) {
		if q.kind != "" && c.kind.String() != q.kind {
			continue
		}
		if q.componentID != "" && c.id() != q.componentID {
			continue
		}
		out = append(out, c)
	}
	if q.componentID != "" && len(out) == 0 {
		return nil, fmt.Errorf("%w: component %s", errNotFound, q.componentID)
	}
	return out, nil
}

func (s *OS) handleListSessions(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleListSessions called: path=%s", r.URL.Path)
	q, err := parseSessionQuery(r)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	page, limit, err := parsePage(r)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	comps, err := s.candidates(q)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	var all []SessionSummary
	for _, c := range comps {
		sessions, err := s.storage.Sessions().ListSessions(r.Context(),
			session.UserKey{AppName: c.id(), UserID: q.userID})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for _, sess := range sessions {
			if sess != nil {
				all = append(all, sessionSummary(sess))
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].UpdatedAt > all[j].UpdatedAt
	})
	writeJSON(w, http.StatusOK, paginate(all, page, limit))
}

func (s *OS) handleGetSession(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleGetSession called: path=%s", r.URL.Path)
	c, sess, err := s.findSession(r)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	runs := sessionRuns(c, sess)
	detail := SessionDetail{
		SessionSummary: sessionSummary(sess),
		RunCount:       len(runs),
		Runs:           runs,
	}
	if c.kind == descriptor.KindTeam {
		detail.TeamID = c.id()
	} else {
		detail.AgentID = c.id()
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *OS) handleGetSessionRuns(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleGetSessionRuns called: path=%s", r.URL.Path)
	c, sess, err := s.findSession(r)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionRuns(c, sess))
}

func (s *OS) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	logger.Infof("handleDeleteSession called: path=%s", r.URL.Path)
	c, sess, err := s.findSession(r)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	key := session.Key{AppName: c.id(), UserID: sess.UserID, SessionID: sess.ID}
	if err := s.storage.Sessions().DeleteSession(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// findSession locates the session of the request among the matching
// components.
func (s *OS) findSession(r *http.Request) (*component, *session.Session, error) {
	q, err := parseSessionQuery(r)
	if err != nil {
		return nil, nil, err
	}
	comps, err := s.candidates(q)
	if err != nil {
		return nil, nil, err
	}
	id := mux.Vars(r)["id"]
	for _, c := range comps {
		sess, err := s.lookupSession(r.Context(), c, q.userID, id)
		if err != nil {
			return nil, nil, err
		}
		if sess != nil {
			return c, sess, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: session %s", errNotFound, id)
}

func (s *OS) lookupSession(ctx context.Context, c *component, userID, sessionID string) (*session.Session, error) {
	sess, err := s.storage.Sessions().GetSession(ctx,
		session.Key{AppName: c.id(), UserID: userID, SessionID: sessionID})
	if err != nil {
		return nil, fmt.Errorf("get session %s of %s: %w", sessionID, c.id(), err)
	}
	return sess, nil
}

func sessionSummary(sess *session.Session) SessionSummary {
	return SessionSummary{
		SessionID:   sess.ID,
		SessionName: sessionName(sess),
		ComponentID: sess.AppName,
		UserID:      sess.UserID,
		CreatedAt:   sess.CreatedAt.Unix(),
		UpdatedAt:   sess.UpdatedAt.Unix(),
	}
}

// sessionName is the first user message, shortened.
func sessionName(sess *session.Session) string {
	for _, e := range sess.GetEvents() {
		if e.Response == nil || !e.IsUserMessage() {
			continue
		}
		name := strings.TrimSpace(e.Choices[0].Message.Content)
		if r := []rune(name); len(r) > maxSessionNameLength {
			name = string(r[:maxSessionNameLength]) + "..."
		}
		return name
	}
	return ""
}

// sessionRuns rebuilds the runs of a session. Each user message starts a new
// run; the following events are replayed through the same conversion as a
// live run.
func sessionRuns(c *component, sess *session.Session) []RunOutput {
	runs := []RunOutput{}
	var cur *runState
	flush := func() {
		if cur != nil {
			cur.finish()
			runs = append(runs, cur.output())
		}
	}
	for _, e := range sess.GetEvents() {
		e := e
		if e.Response == nil {
			continue
		}
		if e.IsUserMessage() {
			flush()
			cur = replayState(c, sess, &e)
			continue
		}
		if cur != nil {
			cur.convert(&e)
		}
	}
	flush()
	return runs
}

func replayState(c *component, sess *session.Session, userEvent *event.Event) *runState {
	runID := userEvent.RequestID
	if runID == "" {
		runID = userEvent.InvocationID
	}
	rs := newRunState(c, "", runID, runRequest{
		Message:   userEvent.Choices[0].Message.Content,
		SessionID: sess.ID,
		UserID:    sess.UserID,
	})
	rs.createdAt = userEvent.Timestamp.Unix()
	return rs
}

func parsePage(r *http.Request) (int, int, error) {
	page, limit := 1, defaultPageLimit
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: invalid page %q", errBadRequest, v)
		}
		page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("%w: invalid limit %q", errBadRequest, v)
		}
		limit = min(n, maxPageLimit)
	}
	return page, limit, nil
}

func paginate(all []SessionSummary, page, limit int) SessionList {
	total := len(all)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	data := all[start:end]
	if data == nil {
		data = []SessionSummary{}
	}
	return SessionList{
		Data: data,
		Meta: PageMeta{
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
			TotalCount: total,
		},
	}
}
