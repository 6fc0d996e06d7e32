package quiz

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// Transformer maps normalized questions onto remote quiz item payloads. It
// owns the solution generator used by formula questions.
type Transformer struct {
	gen *Generator
}

// NewTransformer builds a transformer whose formula solutions derive from
// the given seed. A zero seed falls back to the clock.
func NewTransformer(seed int64) *Transformer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Transformer{gen: NewGenerator(seed)}
}

// Transform encodes one question as a remote item payload at the given
// one-based position. Formula generation failures abort only this question.
func (t *Transformer) Transform(q Question, position int) (interfaces.ObjectFields, error) {
	slug := interactionSlug(q.Type)

	entry := map[string]any{
		"title":                 q.Name,
		"item_body":             q.Body,
		"interaction_type_slug": slug,
		"scoring_algorithm":     scoringAlgorithm(q.Type),
		"calculator_type":       "none",
		"interaction_data":      map[string]any{},
		"scoring_data":          map[string]any{},
		"feedback":              map[string]any{},
	}

	item := interfaces.ObjectFields{
		"entry_type":      "Item",
		"position":        position,
		"points_possible": q.Points,
		"properties":      map[string]any{},
		"entry":           entry,
	}

	feedback := entry["feedback"].(map[string]any)
	if q.CorrectFeedback != "" {
		feedback["correct"] = q.CorrectFeedback
	}
	if q.IncorrectFeedback != "" {
		feedback["incorrect"] = q.IncorrectFeedback
	}

	interaction := entry["interaction_data"].(map[string]any)
	scoring := entry["scoring_data"].(map[string]any)

	switch q.Type {
	case TypeChoice, TypeMultiAnswer:
		encodeChoices(q, interaction, scoring)
	case TypeTrueFalse:
		encodeTrueFalse(q, interaction, scoring)
	case TypeNumeric:
		scoring["value"] = encodeNumeric(q)
	case TypeFormula:
		if err := encodeFormula(t.gen, q, interaction, scoring); err != nil {
			return nil, err
		}
	case TypeEssay:
		// Essay items carry only the body; grading is manual.
	}

	return item, nil
}

func interactionSlug(t QuestionType) string {
	switch t {
	case TypeMultiAnswer:
		return "multi-answer"
	case TypeTrueFalse:
		return "true-false"
	case TypeNumeric:
		return "numeric"
	case TypeFormula:
		return "formula"
	case TypeEssay:
		return "essay"
	}
	return "choice"
}

// scoringAlgorithm follows the remote grading contract: exact match for
// single choice and true/false, all-or-nothing for multi-answer. Numeric and
// formula correctness lives in the scoring data itself; essays are graded by
// hand.
func scoringAlgorithm(t QuestionType) string {
	switch t {
	case TypeMultiAnswer:
		return "AllOrNothing"
	case TypeNumeric, TypeFormula:
		return "Numeric"
	case TypeEssay:
		return "None"
	}
	return "Equivalence"
}

// encodeChoices gives each answer a freshly generated identifier; the
// identifiers of correct answers form the scoring key.
func encodeChoices(q Question, interaction, scoring map[string]any) {
	choices := make([]map[string]any, 0, len(q.Answers))
	var correct []string

	for i, answer := range q.Answers {
		id := uuid.NewString()
		choices = append(choices, map[string]any{
			"id":       id,
			"position": i + 1,
			"itemBody": answer.Body(),
		})
		if answer.Correct {
			correct = append(correct, id)
		}
	}
	interaction["choices"] = choices

	if q.Type == TypeMultiAnswer {
		scoring["value"] = correct
		return
	}
	if len(correct) > 0 {
		scoring["value"] = correct[0]
	}
}

func encodeTrueFalse(q Question, interaction, scoring map[string]any) {
	interaction["true_choice"] = "True"
	interaction["false_choice"] = "False"

	value := false
	for _, answer := range q.Answers {
		if !answer.Correct {
			continue
		}
		value = isAffirmative(answer.Text)
		break
	}
	scoring["value"] = value
}

func isAffirmative(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "t" || t == "yes" || t == "y" || strings.Contains(t, "true")
}

// encodeNumeric classifies every correct answer into exactly one acceptance
// sub-encoding. Range wins over margin, margin over precision, precision
// over an exact value. Incorrect answers never contribute to scoring.
func encodeNumeric(q Question) []map[string]any {
	var values []map[string]any
	for _, answer := range q.Answers {
		if !answer.Correct || answer.Numeric == nil {
			continue
		}
		spec := answer.Numeric

		entry := map[string]any{"id": uuid.NewString()}
		switch {
		case spec.Start != nil && spec.End != nil:
			entry["type"] = "withinARange"
			entry["start"] = *spec.Start
			entry["end"] = *spec.End
		case spec.Margin != nil:
			entry["type"] = "marginOfError"
			entry["value"] = deref(spec.Exact)
			entry["margin"] = *spec.Margin
		case spec.Precision != nil:
			entry["type"] = "preciseResponse"
			entry["value"] = deref(spec.Exact)
			entry["precision"] = *spec.Precision
		case spec.Exact != nil:
			entry["type"] = "exactResponse"
			entry["value"] = *spec.Exact
		default:
			continue
		}
		values = append(values, entry)
	}
	return values
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func encodeFormula(gen *Generator, q Question, interaction, scoring map[string]any) error {
	solutions, err := gen.Solutions(q.Formula)
	if err != nil {
		return err
	}

	variables := make([]map[string]any, 0, len(q.Formula.Variables))
	for _, v := range q.Formula.Variables {
		variables = append(variables, map[string]any{
			"name":      v.Name,
			"min":       v.Min,
			"max":       v.Max,
			"precision": v.Precision,
		})
	}
	interaction["formula"] = q.Formula.Expression
	interaction["variables"] = variables

	generated := make([]map[string]any, 0, len(solutions))
	for _, solution := range solutions {
		inputs := make([]map[string]any, 0, len(q.Formula.Variables))
		for _, v := range q.Formula.Variables {
			inputs = append(inputs, map[string]any{
				"name":  v.Name,
				"value": solution.Inputs[v.Name],
			})
		}
		generated = append(generated, map[string]any{
			"inputs": inputs,
			"output": solution.Output,
		})
	}
	scoring["value"] = map[string]any{
		"formula":             q.Formula.Expression,
		"generated_solutions": generated,
	}
	return nil
}
