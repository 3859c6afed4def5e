package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/cv-screening-agent/internal/models"
)

const (
	cvContentStart = "--- CV CONTENT START ---"
	cvContentEnd   = "--- CV CONTENT END ---"
)

type PromptBuilder struct {
	rubric *models.Rubric
	system string
}

// NewPromptBuilder renders the system instruction once; it depends only on the rubric.
func NewPromptBuilder(rubric *models.Rubric) *PromptBuilder {
	return &PromptBuilder{
		rubric: rubric,
		system: buildSystemPrompt(rubric),
	}
}

// Build pairs the rubric system instruction with a user message carrying the full CV text.
func (pb *PromptBuilder) Build(cvText, filename string) models.Prompt {
	return models.Prompt{
		System: pb.system,
		User: fmt.Sprintf(`Please evaluate the following CV:

Filename: %s

%s
%s
%s

Provide your structured evaluation as JSON.`, filename, cvContentStart, cvText, cvContentEnd),
	}
}

func buildSystemPrompt(rubric *models.Rubric) string {
	n := len(rubric.Criteria)

	var criteria strings.Builder
	for i, c := range rubric.Criteria {
		fmt.Fprintf(&criteria, "%d. **%s**: %s\n", i+1, c.Name, c.Question)
		if len(c.Signals) > 0 {
			fmt.Fprintf(&criteria, "   - Look for: %s\n", strings.Join(c.Signals, ", "))
		}
	}

	bonus := ""
	if rubric.Scoring.BonusAllowed {
		bonus = "\n- Additional points can be awarded for exceptional qualifications (advanced degrees, extensive experience, multiple relevant skills)"
	}

	criteriaExample := make([]string, 0, n)
	for _, c := range rubric.Criteria {
		criteriaExample = append(criteriaExample, fmt.Sprintf(`    {
      "name": "%s",
      "passed": <true or false>,
      "details": "<specific findings from the CV>"
    }`, c.Name))
	}

	return fmt.Sprintf(`%s Your task is to evaluate CVs against specific hiring criteria.

Rubric version: %s

## Evaluation Criteria

Evaluate the candidate on these %d criteria:

%s
## Scoring Guidelines
- Each criterion passed contributes approximately %d points to the match score%s
- Match score must be an integer from 0 to %d

## Pass/Fail Rule
- PASS: match_score >= %d AND at least %d of %d criteria passed
- FAIL: otherwise

## Response Format
You MUST respond with valid JSON only, no other text. Use this exact structure:
{
  "status": "pass" or "fail",
  "match_score": <integer 0-%d>,
  "reasoning": "<brief overall assessment explaining the decision>",
  "criteria": [
%s
  ],
  "candidate_name": "<name from the CV, or null if not found>"
}

The "criteria" array must contain exactly %d objects, one per criterion above, using the criterion names exactly as written.

Be fair but thorough. Look for both explicit mentions and reasonable inferences from the CV content.`,
		rubric.Persona,
		rubric.Version,
		n,
		criteria.String(),
		rubric.Scoring.PointsPerCriterion, bonus,
		rubric.Scoring.MaxScore,
		rubric.PassRule.MinScore, rubric.PassRule.MinCriteriaPassed, n,
		rubric.Scoring.MaxScore,
		strings.Join(criteriaExample, ",\n"),
		n,
	)
}
