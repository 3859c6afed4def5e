package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/cv-screening-agent/internal/models"
)

//go:embed rubrics/default.json
var defaultRubricJSON []byte

//go:embed schemas/rubric.schema.json
var rubricSchemaJSON []byte

// DefaultRubric returns the embedded rubric.
func DefaultRubric() (*models.Rubric, error) {
	return ParseRubric(defaultRubricJSON)
}

// LoadRubric reads a rubric document from path, or the embedded one when path is empty.
func LoadRubric(path string) (*models.Rubric, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultRubric()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric %s: %w", path, err)
	}

	rubric, err := ParseRubric(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rubric %s: %w", path, err)
	}
	return rubric, nil
}

func ParseRubric(data []byte) (*models.Rubric, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(rubricSchemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("rubric validation failed: %v", errs)
	}

	var rubric models.Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("failed to decode rubric: %w", err)
	}

	seen := make(map[string]bool, len(rubric.Criteria))
	for _, c := range rubric.Criteria {
		key := canonicalName(c.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate rubric criterion %q", c.Name)
		}
		seen[key] = true
	}

	if rubric.PassRule.MinCriteriaPassed > len(rubric.Criteria) {
		return nil, fmt.Errorf("pass rule requires %d criteria but rubric defines %d",
			rubric.PassRule.MinCriteriaPassed, len(rubric.Criteria))
	}

	return &rubric, nil
}

// canonicalName folds case and collapses inner whitespace so "fintech  experience"
// matches "Fintech Experience".
func canonicalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
