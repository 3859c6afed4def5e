package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-screening-agent/internal/models"
)

func TestDefaultRubric(t *testing.T) {
	rubric, err := DefaultRubric()
	require.NoError(t, err)

	assert.NotEmpty(t, rubric.Version)
	assert.Equal(t, []string{"Education", "Fintech Experience", "Technical Skills"}, rubric.CriterionNames())
	assert.Equal(t, 60, rubric.PassRule.MinScore)
	assert.Equal(t, 2, rubric.PassRule.MinCriteriaPassed)
	assert.Equal(t, 100, rubric.Scoring.MaxScore)
}

func TestRubricDecide(t *testing.T) {
	rubric, err := DefaultRubric()
	require.NoError(t, err)

	assert.Equal(t, models.StatusPass, rubric.Decide(60, 2))
	assert.Equal(t, models.StatusFail, rubric.Decide(59, 3))
	assert.Equal(t, models.StatusFail, rubric.Decide(90, 1))
}

func TestLoadRubricFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "custom-1",
		"persona": "You screen backend engineers.",
		"criteria": [
			{"name": "Go", "question": "Does the candidate write Go?", "signals": ["Go", "Golang"]},
			{"name": "Databases", "question": "Has the candidate run PostgreSQL?"}
		],
		"scoring": {"points_per_criterion": 50, "max_score": 100},
		"pass_rule": {"min_score": 70, "min_criteria_passed": 2}
	}`), 0o600))

	rubric, err := LoadRubric(path)
	require.NoError(t, err)

	assert.Equal(t, "custom-1", rubric.Version)
	assert.Equal(t, []string{"Go", "Databases"}, rubric.CriterionNames())
}

func TestParseRubricRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `rubric`},
		{name: "missing criteria", doc: `{"version":"1","persona":"p","scoring":{"points_per_criterion":1,"max_score":100},"pass_rule":{"min_score":0,"min_criteria_passed":0}}`},
		{name: "empty criteria", doc: `{"version":"1","persona":"p","criteria":[],"scoring":{"points_per_criterion":1,"max_score":100},"pass_rule":{"min_score":0,"min_criteria_passed":0}}`},
		{name: "duplicate names", doc: `{"version":"1","persona":"p","criteria":[{"name":"A","question":"q"},{"name":" a ","question":"q"}],"scoring":{"points_per_criterion":1,"max_score":100},"pass_rule":{"min_score":0,"min_criteria_passed":0}}`},
		{name: "max score below wire range", doc: `{"version":"1","persona":"p","criteria":[{"name":"A","question":"q"}],"scoring":{"points_per_criterion":1,"max_score":50},"pass_rule":{"min_score":0,"min_criteria_passed":1}}`},
		{name: "max score above wire range", doc: `{"version":"1","persona":"p","criteria":[{"name":"A","question":"q"}],"scoring":{"points_per_criterion":1,"max_score":150},"pass_rule":{"min_score":0,"min_criteria_passed":1}}`},
		{name: "min score above wire range", doc: `{"version":"1","persona":"p","criteria":[{"name":"A","question":"q"}],"scoring":{"points_per_criterion":1,"max_score":100},"pass_rule":{"min_score":101,"min_criteria_passed":1}}`},
		{name: "pass rule exceeds criteria", doc: `{"version":"1","persona":"p","criteria":[{"name":"A","question":"q"}],"scoring":{"points_per_criterion":1,"max_score":100},"pass_rule":{"min_score":0,"min_criteria_passed":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRubric([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRubricMissingFile(t *testing.T) {
	_, err := LoadRubric(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
