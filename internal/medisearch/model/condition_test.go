package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/pkg/utils/json"
)

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringList
	}{
		{"delimited string", `"fever, cough,headache"`, StringList{"fever", "cough", "headache"}},
		{"array", `["fever","cough"]`, StringList{"fever", "cough"}},
		{"array with blanks", `[" fever ","","cough"]`, StringList{"fever", "cough"}},
		{"trailing comma", `"fever,,cough, "`, StringList{"fever", "cough"}},
		{"empty string", `""`, StringList{}},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringListRejectsOtherShapes(t *testing.T) {
	var got StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestConditionDecodeMixedShapes(t *testing.T) {
	src := `{"id":"diabetes","name":"Diabetes","symptoms":"thirst, fatigue","treatments":["insulin"],"severity":"Moderate"}`

	var c Condition
	require.NoError(t, json.Unmarshal([]byte(src), &c))
	assert.Equal(t, StringList{"thirst", "fatigue"}, c.Symptoms)
	assert.Equal(t, StringList{"insulin"}, c.Treatments)
	assert.Equal(t, SeverityModerate, c.Severity)
}
