//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Validate wraps them with the offending path.
var (
	ErrEmptyName          = errors.New("name is empty")
	ErrNilMember          = errors.New("member is nil")
	ErrNoMembers          = errors.New("team has no members")
	ErrDuplicateMember    = errors.New("duplicate member id")
	ErrDuplicateComponent = errors.New("duplicate component id")
	ErrCycle              = errors.New("team contains itself")
)

// WalkFunc is called for every member visited by Walk. path holds the IDs
// from the root down to and including m.
type WalkFunc func(path []string, m Member) error

// Walk visits m and its descendants depth first, parents before children,
// members in insertion order. Walk stops at the first error returned by fn.
// Nil members are skipped; use Validate to reject them.
func Walk(m Member, fn WalkFunc) error {
	return walk(nil, m, fn)
}

func walk(parent []string, m Member, fn WalkFunc) error {
	if isNil(m) {
		return nil
	}
	path := append(append(make([]string, 0, len(parent)+1), parent...), m.ID())
	if err := fn(path, m); err != nil {
		return err
	}
	t, ok := m.(*Team)
	if !ok {
		return nil
	}
	for _, child := range t.Members {
		if err := walk(path, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the top-level agents and teams of an application before it
// is built: every member reference resolves to a constructed descriptor,
// names are present, sibling and top-level IDs are unique and no team
// contains itself.
func Validate(agents []*Agent, teams []*Team) error {
	seen := make(map[string]Kind, len(agents)+len(teams))
	claim := func(m Member) error {
		id := m.ID()
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q already used by a top-level %s", ErrDuplicateComponent, id, prev)
		}
		seen[id] = m.Kind()
		return nil
	}
	for i, a := range agents {
		if a == nil {
			return fmt.Errorf("agents[%d]: %w", i, ErrNilMember)
		}
		if err := validateAgent(nil, a); err != nil {
			return err
		}
		if err := claim(a); err != nil {
			return err
		}
	}
	for i, t := range teams {
		if t == nil {
			return fmt.Errorf("teams[%d]: %w", i, ErrNilMember)
		}
		if err := validateTeam(nil, t, map[*Team]bool{}); err != nil {
			return err
		}
		if err := claim(t); err != nil {
			return err
		}
	}
	return nil
}

func validateAgent(parent []string, a *Agent) error {
	if a.ID() == "" {
		return fmt.Errorf("%s: agent %w", pathString(parent, a.Name), ErrEmptyName)
	}
	return nil
}

func validateTeam(parent []string, t *Team, ancestors map[*Team]bool) error {
	if t.ID() == "" {
		return fmt.Errorf("%s: team %w", pathString(parent, t.Name), ErrEmptyName)
	}
	path := append(append(make([]string, 0, len(parent)+1), parent...), t.ID())
	if ancestors[t] {
		return fmt.Errorf("%s: %w", strings.Join(path, "/"), ErrCycle)
	}
	if len(t.Members) == 0 {
		return fmt.Errorf("%s: %w", strings.Join(path, "/"), ErrNoMembers)
	}
	ancestors[t] = true
	defer delete(ancestors, t)

	ids := make(map[string]bool, len(t.Members))
	for i, m := range t.Members {
		if isNil(m) {
			return fmt.Errorf("%s: members[%d]: %w", strings.Join(path, "/"), i, ErrNilMember)
		}
		var err error
		switch v := m.(type) {
		case *Agent:
			err = validateAgent(path, v)
		case *Team:
			err = validateTeam(path, v, ancestors)
		}
		if err != nil {
			return err
		}
		if ids[m.ID()] {
			return fmt.Errorf("%s: %w %q", strings.Join(path, "/"), ErrDuplicateMember, m.ID())
		}
		ids[m.ID()] = true
	}
	return nil
}

func pathString(parent []string, name string) string {
	if name == "" {
		name = "<unnamed>"
	}
	return strings.Join(append(append([]string{}, parent...), name), "/")
}

// isNil also catches typed nil pointers stored in a Member.
func isNil(m Member) bool {
	switch v := m.(type) {
	case nil:
		return true
	case *Agent:
		return v == nil
	case *Team:
		return v == nil
	default:
		return false
	}
}
