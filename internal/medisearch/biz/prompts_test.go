package biz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/medisearch/internal/medisearch/model"
)

func TestBuildContext(t *testing.T) {
	results := []model.SearchResult{
		{Name: "Diabetes", Category: "Endocrine", Severity: "Moderate", Description: "High blood sugar.",
			Symptoms: []string{"thirst", "fatigue"}, Treatments: []string{"insulin"}},
		{Name: "Asthma", Category: "Respiratory", Severity: "Mild", Description: "Airway inflammation.",
			Symptoms: []string{"wheezing"}, Treatments: []string{"inhaler", "steroids"}},
	}

	want := "Condition: Diabetes\nCategory: Endocrine\nSeverity: Moderate\nDescription: High blood sugar.\n" +
		"Symptoms: thirst, fatigue\nTreatments: insulin\n---" +
		"\n\n" +
		"Condition: Asthma\nCategory: Respiratory\nSeverity: Mild\nDescription: Airway inflammation.\n" +
		"Symptoms: wheezing\nTreatments: inhaler, steroids\n---"
	assert.Equal(t, want, BuildContext(results))
	assert.Equal(t, "", BuildContext(nil))
}

func TestBuildPromptInput(t *testing.T) {
	assert.Equal(t, "hello", BuildPromptInput(nil, "hello"))

	history := []*model.ChatMessage{
		{Role: model.RoleUser, Content: "What is asthma?"},
		{Role: model.RoleAssistant, Content: "A lung condition."},
	}
	assert.Equal(t,
		"\n\nPrevious conversation context:\nUser: What is asthma?\nAssistant: A lung condition.\n\nCurrent question: Is it curable?",
		BuildPromptInput(history, "Is it curable?"))
}

func TestRecentHistory(t *testing.T) {
	var history []*model.ChatMessage
	for i := 0; i < 8; i++ {
		history = append(history, &model.ChatMessage{Content: fmt.Sprintf("m%d", i)})
	}

	got := RecentHistory(history, 6)
	assert.Len(t, got, 6)
	assert.Equal(t, "m2", got[0].Content)
	assert.Equal(t, "m7", got[5].Content)

	assert.Len(t, RecentHistory(history[:3], 6), 3)
	assert.Nil(t, RecentHistory(history, 0))
}

func TestSystemPromptEmbedsContext(t *testing.T) {
	p := SystemPrompt("Condition: Asthma")
	assert.Contains(t, p, "medical information assistant")
	assert.Contains(t, p, "consult healthcare professionals")
	assert.Contains(t, p, "\n\nCondition: Asthma\n\n")
	assert.Contains(t, p, "acknowledge this")
}
