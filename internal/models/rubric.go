package models

// Prompt is the system instruction and user message sent to the model for one request.
type Prompt struct {
	System string
	User   string
}

type RubricCriterion struct {
	Name     string   `json:"name"`
	Question string   `json:"question"`
	Signals  []string `json:"signals"`
}

type RubricScoring struct {
	PointsPerCriterion int  `json:"points_per_criterion"`
	MaxScore           int  `json:"max_score"`
	BonusAllowed       bool `json:"bonus_allowed"`
}

type RubricPassRule struct {
	MinScore          int `json:"min_score"`
	MinCriteriaPassed int `json:"min_criteria_passed"`
}

// Rubric is the versioned set of criteria and scoring rules applied to every CV.
type Rubric struct {
	Version  string            `json:"version"`
	Persona  string            `json:"persona"`
	Criteria []RubricCriterion `json:"criteria"`
	Scoring  RubricScoring     `json:"scoring"`
	PassRule RubricPassRule    `json:"pass_rule"`
}

func (r *Rubric) CriterionNames() []string {
	names := make([]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		names = append(names, c.Name)
	}
	return names
}

// Decide applies the pass rule to a score and the number of passed criteria.
func (r *Rubric) Decide(score, passedCriteria int) EvaluationStatus {
	if score >= r.PassRule.MinScore && passedCriteria >= r.PassRule.MinCriteriaPassed {
		return StatusPass
	}
	return StatusFail
}
