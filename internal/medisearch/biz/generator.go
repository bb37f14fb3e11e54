package biz

import (
	"context"
	"strings"

	infralog "github.com/kart-io/medisearch/pkg/infra/logger"
	"github.com/kart-io/medisearch/pkg/llm"
)

// Generator produces the assistant reply for a chat turn.
type Generator struct {
	provider llm.ChatProvider
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.ChatProvider) *Generator {
	return &Generator{provider: provider}
}

// Generate answers input grounded on groundingContext. A provider error or
// an empty answer yields FallbackReply, reported by the second result.
func (g *Generator) Generate(ctx context.Context, input, groundingContext string) (string, bool) {
	text, err := g.provider.Generate(ctx, input, SystemPrompt(groundingContext))
	if err != nil {
		infralog.FromContext(ctx).Errorw("Generation failed, using fallback reply", "provider", g.provider.Name(), "error", err.Error())
		return FallbackReply, true
	}
	if strings.TrimSpace(text) == "" {
		infralog.FromContext(ctx).Warnw("Generation returned no text, using fallback reply", "provider", g.provider.Name())
		return FallbackReply, true
	}
	return text, false
}
