package services

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"alfredoptarigan/cv-screening-agent/internal/models"
)

//go:embed schemas/scorecard.schema.json
var scorecardSchemaJSON []byte

const malformedMessage = "The model returned an evaluation that could not be read"

var (
	requiredFields          = []string{"status", "match_score", "reasoning", "criteria"}
	requiredCriterionFields = []string{"name", "passed", "details"}

	embeddedFence = regexp.MustCompile("(?is)```[a-z]*\\s*(.*?)\\s*```")
)

// ResponseParser turns a raw model reply into a validated Scorecard.
type ResponseParser struct {
	rubric *models.Rubric
	strict bool
	schema *jsonschema.Schema
	names  map[string]string
}

func NewResponseParser(rubric *models.Rubric, strictStatus bool) (*ResponseParser, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("scorecard.json", bytes.NewReader(scorecardSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("scorecard.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	names := make(map[string]string, len(rubric.Criteria))
	for _, c := range rubric.Criteria {
		names[canonicalName(c.Name)] = c.Name
	}

	return &ResponseParser{
		rubric: rubric,
		strict: strictStatus,
		schema: schema,
		names:  names,
	}, nil
}

func malformed(format string, args ...any) error {
	return newError(KindMalformedModelOutput, malformedMessage, fmt.Errorf(format, args...))
}

// Parse decodes and validates raw. Every failure is a MalformedModelOutput error.
// The Scorecard is built from the same decoded value the schema accepted.
func (p *ResponseParser) Parse(raw string) (*models.Scorecard, error) {
	doc, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	if err := rejectDuplicateKeys(gjson.Parse(doc), ""); err != nil {
		return nil, err
	}

	if err := checkRequired(doc); err != nil {
		return nil, err
	}

	obj, err := p.decode(doc)
	if err != nil {
		return nil, err
	}

	rawStatus, _ := obj["status"].(string)
	status, ok := models.ParseEvaluationStatus(rawStatus)
	if !ok {
		return nil, malformed("invalid status %q", rawStatus)
	}

	items, _ := obj["criteria"].([]any)
	criteria, err := p.criteria(items)
	if err != nil {
		return nil, err
	}

	score, err := matchScore(obj["match_score"])
	if err != nil {
		return nil, err
	}

	reasoning, _ := obj["reasoning"].(string)
	card := &models.Scorecard{
		Status:        status,
		MatchScore:    score,
		Reasoning:     reasoning,
		Criteria:      criteria,
		CandidateName: candidateName(obj["candidate_name"]),
	}

	if p.strict {
		if want := p.rubric.Decide(card.MatchScore, card.PassedCount()); want != card.Status {
			return nil, malformed("status %q contradicts score %d with %d criteria passed", card.Status, card.MatchScore, card.PassedCount())
		}
	}

	return card, nil
}

// extractJSON strips an optional code fence and returns the JSON object text.
// When the stripped reply is not valid JSON it falls back to a fenced block
// inside surrounding prose, then to the outermost brace span.
func extractJSON(raw string) (string, error) {
	text := stripFences(raw)
	if text == "" {
		return "", malformed("empty model reply")
	}

	candidates := []string{text}
	if m := embeddedFence.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}

	for _, c := range candidates {
		if !gjson.Valid(c) {
			continue
		}
		if !gjson.Parse(c).IsObject() {
			return "", malformed("model reply is not a JSON object")
		}
		return c, nil
	}

	return "", malformed("model reply is not valid JSON")
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)

	switch {
	case len(text) >= 7 && strings.EqualFold(text[:7], "```json"):
		text = text[7:]
	case strings.HasPrefix(text, "```"):
		text = text[3:]
	}
	text = strings.TrimSuffix(text, "```")

	return strings.TrimSpace(text)
}

func checkRequired(doc string) error {
	for _, field := range requiredFields {
		if !gjson.Get(doc, field).Exists() {
			return malformed("missing required field %q", field)
		}
	}

	criteria := gjson.Get(doc, "criteria")
	if !criteria.IsArray() {
		return malformed("field %q must be an array", "criteria")
	}

	for i, c := range criteria.Array() {
		if !c.IsObject() {
			return malformed("field %q must be an object", fmt.Sprintf("criteria[%d]", i))
		}
		for _, field := range requiredCriterionFields {
			if !c.Get(field).Exists() {
				return malformed("missing required field %q", fmt.Sprintf("criteria[%d].%s", i, field))
			}
		}
	}

	return nil
}

// rejectDuplicateKeys fails on any object that repeats a key, at any depth.
func rejectDuplicateKeys(v gjson.Result, path string) error {
	var err error
	switch {
	case v.IsObject():
		seen := make(map[string]bool)
		v.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if path != "" {
				name = path + "." + name
			}
			if seen[key.String()] {
				err = malformed("duplicate key %q", name)
				return false
			}
			seen[key.String()] = true
			err = rejectDuplicateKeys(value, name)
			return err == nil
		})
	case v.IsArray():
		for i, item := range v.Array() {
			if err = rejectDuplicateKeys(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				break
			}
		}
	}
	return err
}

// decode unmarshals doc once and validates that value against the scorecard schema.
func (p *ResponseParser) decode(doc string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, malformed("unmarshal model reply: %v", err)
	}
	if err := p.schema.Validate(v); err != nil {
		return nil, malformed("model reply does not match scorecard schema: %v", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, malformed("model reply is not a JSON object")
	}
	return obj, nil
}

func matchScore(v any) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, malformed("match_score is not a number")
	}
	f, err := n.Float64()
	if err != nil {
		return 0, malformed("match_score %q: %v", n, err)
	}
	return int(f), nil
}

func (p *ResponseParser) criteria(items []any) ([]models.CriterionResult, error) {
	if len(items) != len(p.rubric.Criteria) {
		return nil, malformed("expected %d criteria, got %d", len(p.rubric.Criteria), len(items))
	}

	seen := make(map[string]bool, len(items))
	results := make([]models.CriterionResult, 0, len(items))
	for i, item := range items {
		c, _ := item.(map[string]any)
		raw, _ := c["name"].(string)
		key := canonicalName(raw)

		name, ok := p.names[key]
		if !ok {
			return nil, malformed("criteria[%d].name %q is not a rubric criterion", i, raw)
		}
		if seen[key] {
			return nil, malformed("criteria[%d].name %q is duplicated", i, raw)
		}
		seen[key] = true

		passed, _ := c["passed"].(bool)
		details, _ := c["details"].(string)
		results = append(results, models.CriterionResult{
			Name:    name,
			Passed:  passed,
			Details: details,
		})
	}

	return results, nil
}

func candidateName(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	name := strings.TrimSpace(s)
	if name == "" {
		return nil
	}
	return &name
}
