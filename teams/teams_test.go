//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/agno-mock-server/agents"
	"trpc.group/trpc-go/agno-mock-server/descriptor"
	"trpc.group/trpc-go/agno-mock-server/storage"
)

func TestNewShapes(t *testing.T) {
	h := storage.NewInMemory()
	got := New(h)
	require.Len(t, got, 2)

	simple := got[0]
	assert.Equal(t, "simple-team", simple.Name)
	assert.Equal(t, []string{"researcher", "writer"}, simple.MemberNames())
	assert.Same(t, h, simple.Storage)

	language := got[1]
	assert.Equal(t, "language-team", language.Name)
	require.Len(t, language.Members, 3)
	assert.Equal(t, []string{"English Agent", "Chinese Agent", "Germanic Team"}, language.MemberNames())

	nested, ok := language.Members[2].(*descriptor.Team)
	require.True(t, ok)
	assert.Equal(t, descriptor.KindTeam, nested.Kind())
	assert.Equal(t, []string{"German Agent", "Dutch Agent"}, nested.MemberNames())
	assert.Equal(t, "You coordinate the team members to answer questions in German and Dutch", nested.Role)
}

func TestNewResolves(t *testing.T) {
	h := storage.NewInMemory()
	assert.NoError(t, descriptor.Validate(agents.New(h), New(h)))
}

func TestSharedStorage(t *testing.T) {
	h := storage.NewInMemory()
	for _, tm := range New(h) {
		assert.Same(t, h, tm.Storage, tm.Name)
	}
	for _, m := range SimpleTeam(h).Members {
		assert.Same(t, h, m.(*descriptor.Agent).Storage)
	}
}

func TestLanguageMembersInheritModel(t *testing.T) {
	err := descriptor.Walk(LanguageTeam(nil), func(_ []string, m descriptor.Member) error {
		switch v := m.(type) {
		case *descriptor.Agent:
			assert.True(t, v.Model.IsZero(), v.Name)
		case *descriptor.Team:
			assert.True(t, v.Model.IsZero(), v.Name)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestMemberOrderStable(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"researcher", "writer"}, SimpleTeam(nil).MemberNames())
	}
}
