//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/agno-mock-server/agents"
	"trpc.group/trpc-go/agno-mock-server/storage"
	"trpc.group/trpc-go/agno-mock-server/teams"
)

func TestPrintBanner(t *testing.T) {
	h := storage.NewInMemory()
	defer h.Close()

	var buf bytes.Buffer
	require.NoError(t, printBanner(&buf, "http://localhost:7777", agents.New(h), teams.New(h)))
	out := buf.String()

	assert.Contains(t, out, "AGENT: generative-ui-demo")
	assert.Contains(t, out, "    - "+agents.ToolRevenueChart)
	assert.Contains(t, out, "TEAM: simple-team")
	assert.Contains(t, out, "TEAM: language-team")
	assert.Contains(t, out, "    - Germanic Team (team)\n      - German Agent (agent)")
	assert.Contains(t, out, "Starting server on http://localhost:7777")

	// Members follow their team in configuration order.
	simple := strings.Index(out, "TEAM: simple-team")
	researcher := strings.Index(out, "- researcher (agent)")
	writer := strings.Index(out, "- writer (agent)")
	assert.True(t, simple < researcher && researcher < writer)
}

// failAfter accepts n writes and fails the rest.
type failAfter struct {
	n int
}

var errWriteClosed = errors.New("write closed")

func (f *failAfter) Write(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errWriteClosed
	}
	f.n--
	return len(p), nil
}

func TestPrintBannerWriteError(t *testing.T) {
	h := storage.NewInMemory()
	defer h.Close()

	// Fails inside the member walk of the first team.
	w := &failAfter{n: 8}
	err := printBanner(w, "http://localhost:7777", agents.New(h), teams.New(h))
	require.Error(t, err)
	assert.ErrorIs(t, err, errWriteClosed)
}
