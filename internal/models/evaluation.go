package models

import "strings"

type EvaluationStatus string

const (
	StatusPass EvaluationStatus = "pass"
	StatusFail EvaluationStatus = "fail"
)

// ParseEvaluationStatus maps a model supplied status onto the two-valued enum.
// Matching ignores case and surrounding whitespace.
func ParseEvaluationStatus(s string) (EvaluationStatus, bool) {
	switch EvaluationStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPass:
		return StatusPass, true
	case StatusFail:
		return StatusFail, true
	}
	return "", false
}

type CriterionResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Details string `json:"details"`
}

// Scorecard is the structured evaluation returned to the caller.
type Scorecard struct {
	Status        EvaluationStatus  `json:"status"`
	MatchScore    int               `json:"match_score"`
	Reasoning     string            `json:"reasoning"`
	Criteria      []CriterionResult `json:"criteria"`
	CandidateName *string           `json:"candidate_name"`
}

func (s *Scorecard) PassedCount() int {
	n := 0
	for _, c := range s.Criteria {
		if c.Passed {
			n++
		}
	}
	return n
}
