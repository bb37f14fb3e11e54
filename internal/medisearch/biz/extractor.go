package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/medisearch/pkg/llm"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

// EntityExtractor asks the model for the medical terms in a message.
type EntityExtractor struct {
	provider llm.ChatProvider
}

// NewEntityExtractor creates an extractor.
func NewEntityExtractor(provider llm.ChatProvider) *EntityExtractor {
	return &EntityExtractor{provider: provider}
}

// Extract returns the terms found in message. Providers that support
// structured output are constrained to a string array.
func (e *EntityExtractor) Extract(ctx context.Context, message string) ([]string, error) {
	var (
		raw string
		err error
	)
	if sp, ok := e.provider.(llm.StructuredProvider); ok {
		raw, err = sp.GenerateJSON(ctx, message, extractionPrompt, llm.StringArraySchema())
	} else {
		raw, err = e.provider.Generate(ctx, message, extractionPrompt)
	}
	if err != nil {
		return nil, fmt.Errorf("extract entities: %w", err)
	}
	return ParseEntities(raw)
}

// ParseEntities decodes a JSON array of strings, tolerating a markdown
// code fence around it. Blank entries are dropped.
func ParseEntities(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var terms []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &terms); err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}

	out := terms[:0]
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
