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
	"fmt"
	"io"
	"strings"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

const bannerRule = 70

var examplePrompts = []string{
	"Agent: 'Show me monthly revenue'",
	"Agent: 'Compare laptops'",
	"Team:  'Research and write about climate change'",
	"Team:  'How do you say good morning in Dutch?'",
}

// printBanner writes the startup summary: served components, URL and
// example prompts.
func printBanner(w io.Writer, url string, agents []*descriptor.Agent, teams []*descriptor.Team) error {
	rule := strings.Repeat("=", bannerRule)
	fmt.Fprintf(w, "\n%s\nAgno Demo Server\n%s\n", rule, rule)
	fmt.Fprintln(w, "\nAvailable components:")

	for _, a := range agents {
		fmt.Fprintf(w, "\n  AGENT: %s\n", a.ID())
		for _, t := range a.Tools {
			if d := t.Declaration(); d != nil {
				fmt.Fprintf(w, "    - %s\n", d.Name)
			}
		}
	}
	for _, t := range teams {
		fmt.Fprintf(w, "\n  TEAM: %s\n", t.ID())
		err := descriptor.Walk(t, func(path []string, m descriptor.Member) error {
			if len(path) == 1 {
				return nil
			}
			indent := strings.Repeat("  ", len(path)-1)
			_, err := fmt.Fprintf(w, "  %s- %s (%s)\n", indent, m.DisplayName(), m.Kind())
			return err
		})
		if err != nil {
			return fmt.Errorf("print team %s: %w", t.ID(), err)
		}
	}

	fmt.Fprintf(w, "\nStarting server on %s\n", url)
	fmt.Fprintln(w, "\nExample prompts:")
	for _, p := range examplePrompts {
		fmt.Fprintf(w, "  %s\n", p)
	}
	_, err := fmt.Fprintf(w, "\n%s\n\n", rule)
	return err
}
