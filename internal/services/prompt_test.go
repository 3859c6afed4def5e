package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPromptBuilder(t *testing.T) *PromptBuilder {
	t.Helper()
	rubric, err := DefaultRubric()
	require.NoError(t, err)
	return NewPromptBuilder(rubric)
}

func TestPromptSystemDescribesRubric(t *testing.T) {
	prompt := newTestPromptBuilder(t).Build("text", "cv.pdf")

	for _, want := range []string{
		"XBO.com",
		"**Education**",
		"**Fintech Experience**",
		"**Technical Skills**",
		"approximately 33 points",
		"PASS: match_score >= 60 AND at least 2 of 3 criteria passed",
		`"match_score"`,
		`"candidate_name"`,
		"exactly 3 objects",
		"Rubric version: xbo-fintech-2025.1",
	} {
		assert.Contains(t, prompt.System, want)
	}
}

func TestPromptUserCarriesFullTextVerbatim(t *testing.T) {
	cv := strings.Repeat("Python developer at a crypto exchange. ", 2000) + "\n  indented ( ) line"

	prompt := newTestPromptBuilder(t).Build(cv, "jane_doe.pdf")

	assert.Contains(t, prompt.User, "Filename: jane_doe.pdf")
	assert.Contains(t, prompt.User, cvContentStart+"\n"+cv+"\n"+cvContentEnd)
	assert.True(t, strings.HasSuffix(prompt.User, "Provide your structured evaluation as JSON."))
}

func TestPromptIsDeterministic(t *testing.T) {
	pb := newTestPromptBuilder(t)

	assert.Equal(t, pb.Build("same", "a.pdf"), pb.Build("same", "a.pdf"))
}
