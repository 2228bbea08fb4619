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
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/model/openai"

	"trpc.group/trpc-go/agno-mock-server/descriptor"
)

// ErrUnsupportedProvider is returned for model references of unknown providers.
var ErrUnsupportedProvider = errors.New("unsupported model provider")

// ModelFactory turns a model reference into a model instance.
type ModelFactory func(ref descriptor.ModelRef) (model.Model, error)

// OpenAIModels returns a factory for OpenAI compatible chat models. baseURL
// may be empty to use the provider default.
func OpenAIModels(apiKey, baseURL string) ModelFactory {
	return func(ref descriptor.ModelRef) (model.Model, error) {
		if ref.Provider != "" && ref.Provider != descriptor.ProviderOpenAI {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, ref.Provider)
		}
		opts := []openai.Option{openai.WithAPIKey(apiKey)}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		return openai.New(ref.ID, opts...), nil
	}
}

// cachedModels shares one model instance per reference.
type cachedModels struct {
	factory ModelFactory
	byRef   map[descriptor.ModelRef]model.Model
}

func newCachedModels(f ModelFactory) *cachedModels {
	return &cachedModels{factory: f, byRef: make(map[descriptor.ModelRef]model.Model)}
}

func (c *cachedModels) get(ref descriptor.ModelRef) (model.Model, error) {
	if m, ok := c.byRef[ref]; ok {
		return m, nil
	}
	m, err := c.factory(ref)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", ref, err)
	}
	c.byRef[ref] = m
	return m, nil
}
