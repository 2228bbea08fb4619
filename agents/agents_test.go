//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

func TestNew(t *testing.T) {
	h := storage.NewInMemory()
	got := New(h)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, GenerativeUIName, a.Name)
	assert.Equal(t, "generative-ui-demo", a.ID())
	assert.Same(t, h, a.Storage)
	assert.Equal(t, DefaultModel, a.Model)
	assert.True(t, a.AddHistoryToContext)
	assert.True(t, a.Markdown)
	require.Len(t, a.Tools, 4)

	var names []string
	for _, tl := range a.Tools {
		names = append(names, tl.Declaration().Name)
	}
	assert.Equal(t, []string{ToolRevenueChart, ToolRentalCars, ToolCompareProducts, ToolDashboardMetrics}, names)
	assert.NoError(t, descriptor.Validate(got, nil))
}

func TestNewDeterministic(t *testing.T) {
	first := New(storage.NewInMemory())
	second := New(storage.NewInMemory())
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Instructions, second[i].Instructions)
	}

	for _, build := range []func(*storage.Handle) *descriptor.Agent{NewResearcher, NewWriter} {
		a, b := build(nil), build(nil)
		assert.Equal(t, a.Name, b.Name)
		assert.Equal(t, a.Instructions, b.Instructions)
	}
}

func TestSpecialists(t *testing.T) {
	r := NewResearcher(nil)
	w := NewWriter(nil)
	assert.Equal(t, "researcher", r.ID())
	assert.Equal(t, "writer", w.ID())
	assert.Equal(t, "You are a research specialist.", r.Instructions[0])
	assert.Equal(t, "Focus on clarity and readability.", w.Instructions[2])
}
