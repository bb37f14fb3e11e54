package biz

import (
	"fmt"
	"strings"

	"github.com/kart-io/medisearch/internal/medisearch/model"
)

// FallbackReply replaces a failed or empty generation.
const FallbackReply = "I apologize, but I couldn't generate a response. Please try again."

const extractionPrompt = `Extract medical terms, conditions, symptoms, and treatments from the user's query.
Return them as a JSON array of strings. Only include relevant medical terms.
Example: ["diabetes", "high blood sugar", "insulin"]`

const systemPromptTemplate = `You are a helpful medical information assistant. Provide accurate, easy-to-understand information about medical conditions, symptoms, and treatments. Always remind users to consult healthcare professionals for medical advice.

Use the following search results as context to answer the user's question:

%s

Provide a clear, informative response. If the search results don't contain enough information, acknowledge this and provide general guidance.`

// SystemPrompt embeds the grounding context into the assistant instruction.
func SystemPrompt(groundingContext string) string {
	return fmt.Sprintf(systemPromptTemplate, groundingContext)
}

// BuildContext serializes results into blank-line separated blocks.
func BuildContext(results []model.SearchResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf(
			"Condition: %s\nCategory: %s\nSeverity: %s\nDescription: %s\nSymptoms: %s\nTreatments: %s\n---",
			r.Name, r.Category, r.Severity, r.Description,
			strings.Join(r.Symptoms, ", "), strings.Join(r.Treatments, ", "),
		))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPromptInput prefixes message with the conversation history. With no
// history the message is returned unchanged.
func BuildPromptInput(history []*model.ChatMessage, message string) string {
	if len(history) == 0 {
		return message
	}

	lines := make([]string, 0, len(history))
	for _, m := range history {
		speaker := "Assistant"
		if m.Role == model.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return "\n\nPrevious conversation context:\n" + strings.Join(lines, "\n") + "\n\nCurrent question: " + message
}

// RecentHistory returns the last window messages.
func RecentHistory(history []*model.ChatMessage, window int) []*model.ChatMessage {
	if window <= 0 {
		return nil
	}
	if len(history) > window {
		return history[len(history)-window:]
	}
	return history
}
