package quiz

import (
	"testing"
)

func entryOf(t *testing.T, item map[string]any) map[string]any {
	t.Helper()
	entry, ok := item["entry"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing entry: %#v", item)
	}
	return entry
}

func TestTransformSingleChoice(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Name:   "Capitals",
		Type:   TypeChoice,
		Points: 2,
		Body:   "<p>Capital of France?</p>",
		Answers: []Answer{
			{Text: "Paris", Correct: true},
			{Text: "London"},
		},
	}

	item, err := tr.Transform(q, 3)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if item["entry_type"] != "Item" || item["position"] != 3 || item["points_possible"] != 2.0 {
		t.Fatalf("item = %#v", item)
	}

	entry := entryOf(t, item)
	if entry["interaction_type_slug"] != "choice" || entry["scoring_algorithm"] != "Equivalence" {
		t.Fatalf("entry = %#v", entry)
	}

	choices := entry["interaction_data"].(map[string]any)["choices"].([]map[string]any)
	if len(choices) != 2 {
		t.Fatalf("choices = %#v", choices)
	}
	if choices[0]["id"] == choices[1]["id"] {
		t.Fatalf("choice identifiers must be unique")
	}

	value := entry["scoring_data"].(map[string]any)["value"]
	if value != choices[0]["id"] {
		t.Fatalf("scoring key must be the correct answer's id: %v", value)
	}
}

func TestTransformMultiAnswer(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Name: "Primes",
		Type: TypeMultiAnswer,
		Answers: []Answer{
			{Text: "2", Correct: true},
			{Text: "3", Correct: true},
			{Text: "4"},
		},
	}

	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	if entry["scoring_algorithm"] != "AllOrNothing" {
		t.Fatalf("algorithm = %v", entry["scoring_algorithm"])
	}

	correct := entry["scoring_data"].(map[string]any)["value"].([]string)
	if len(correct) != 2 {
		t.Fatalf("correct ids = %#v", correct)
	}
}

func TestTransformTrueFalse(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Name: "Water",
		Type: TypeTrueFalse,
		Answers: []Answer{
			{Text: "True", Correct: true},
			{Text: "False"},
		},
	}

	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	interaction := entry["interaction_data"].(map[string]any)
	if interaction["true_choice"] != "True" || interaction["false_choice"] != "False" {
		t.Fatalf("interaction = %#v", interaction)
	}
	if entry["scoring_data"].(map[string]any)["value"] != true {
		t.Fatalf("scoring value must be true")
	}
}

func TestTransformTrueFalseNegative(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Type: TypeTrueFalse,
		Answers: []Answer{
			{Text: "True"},
			{Text: "False", Correct: true},
		},
	}
	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	if entry["scoring_data"].(map[string]any)["value"] != false {
		t.Fatalf("scoring value must be false")
	}
}

func TestTransformFeedback(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Type:              TypeChoice,
		Answers:           []Answer{{Text: "a", Correct: true}},
		CorrectFeedback:   "Nice.",
		IncorrectFeedback: "Try again.",
	}
	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	feedback := entryOf(t, item)["feedback"].(map[string]any)
	if feedback["correct"] != "Nice." || feedback["incorrect"] != "Try again." {
		t.Fatalf("feedback = %#v", feedback)
	}
}

func floatPtrOf(v float64) *float64 { return &v }
func intPtrOf(v int) *int           { return &v }

func TestTransformNumericSubEncodings(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Type: TypeNumeric,
		Answers: []Answer{
			{Correct: true, Numeric: &NumericSpec{Exact: floatPtrOf(42)}},
			{Correct: true, Numeric: &NumericSpec{Exact: floatPtrOf(42), Margin: floatPtrOf(0.5)}},
			{Correct: true, Numeric: &NumericSpec{Exact: floatPtrOf(42), Precision: intPtrOf(2)}},
			{Correct: true, Numeric: &NumericSpec{Start: floatPtrOf(40), End: floatPtrOf(44)}},
			{Correct: false, Numeric: &NumericSpec{Exact: floatPtrOf(99)}},
		},
	}

	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	if entry["interaction_type_slug"] != "numeric" {
		t.Fatalf("slug = %v", entry["interaction_type_slug"])
	}

	values := entry["scoring_data"].(map[string]any)["value"].([]map[string]any)
	if len(values) != 4 {
		t.Fatalf("incorrect answers must be excluded: %#v", values)
	}
	wantTypes := []string{"exactResponse", "marginOfError", "preciseResponse", "withinARange"}
	for i, want := range wantTypes {
		if values[i]["type"] != want {
			t.Fatalf("encoding %d = %v, want %s", i, values[i]["type"], want)
		}
	}
	if values[3]["start"] != 40.0 || values[3]["end"] != 44.0 {
		t.Fatalf("range encoding = %#v", values[3])
	}
}

func TestTransformNumericPrecedence(t *testing.T) {
	tr := NewTransformer(1)
	// All fields set: the range encoding wins.
	q := Question{
		Type: TypeNumeric,
		Answers: []Answer{{
			Correct: true,
			Numeric: &NumericSpec{
				Exact:     floatPtrOf(5),
				Margin:    floatPtrOf(1),
				Precision: intPtrOf(2),
				Start:     floatPtrOf(4),
				End:       floatPtrOf(6),
			},
		}},
	}
	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	values := entryOf(t, item)["scoring_data"].(map[string]any)["value"].([]map[string]any)
	if len(values) != 1 || values[0]["type"] != "withinARange" {
		t.Fatalf("precedence broken: %#v", values)
	}
}

func TestTransformEssay(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{Name: "Reflect", Type: TypeEssay, Body: "<p>Discuss.</p>", Points: 5}
	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	if entry["interaction_type_slug"] != "essay" || entry["scoring_algorithm"] != "None" {
		t.Fatalf("entry = %#v", entry)
	}
}

func TestTransformFormula(t *testing.T) {
	tr := NewTransformer(7)
	q := Question{
		Name: "Area",
		Type: TypeFormula,
		Formula: &Formula{
			Expression: "w * h",
			Strategy:   SampleEven,
			Count:      3,
			Variables: []Variable{
				{Name: "w", Min: 1, Max: 3},
				{Name: "h", Min: 2, Max: 2},
			},
		},
	}

	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	value := entry["scoring_data"].(map[string]any)["value"].(map[string]any)
	solutions := value["generated_solutions"].([]map[string]any)
	if len(solutions) != 3 {
		t.Fatalf("solutions = %#v", solutions)
	}
	if solutions[0]["output"] != 2.0 || solutions[2]["output"] != 6.0 {
		t.Fatalf("even sampling outputs = %#v", solutions)
	}
}

func TestTransformFormulaFailureIsFatalForQuestion(t *testing.T) {
	tr := NewTransformer(1)
	q := Question{
		Type: TypeFormula,
		Formula: &Formula{
			Expression: "1 / x",
			Strategy:   SampleEven,
			Count:      3,
			Variables:  []Variable{{Name: "x", Min: 0, Max: 2}},
		},
	}
	if _, err := tr.Transform(q, 1); err == nil {
		t.Fatalf("division by zero must fail the question")
	}
}

func TestNewTransformerZeroSeedFallsBackToClock(t *testing.T) {
	tr := NewTransformer(0)
	q := Question{
		Name: "Scaled",
		Type: TypeFormula,
		Formula: &Formula{
			Expression: "x * 2",
			Strategy:   SampleRandom,
			Count:      5,
			Variables:  []Variable{{Name: "x", Min: 1, Max: 4}},
		},
	}

	item, err := tr.Transform(q, 1)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	entry := entryOf(t, item)
	value := entry["scoring_data"].(map[string]any)["value"].(map[string]any)
	solutions := value["generated_solutions"].([]map[string]any)
	if len(solutions) != 5 {
		t.Fatalf("solutions = %#v", solutions)
	}
	for _, solution := range solutions {
		out := solution["output"].(float64)
		if out < 2 || out > 8 {
			t.Fatalf("output %v outside the declared range", out)
		}
	}
}
