package quiz

import (
	"math"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestEvenDistributionEndpointsInclusive(t *testing.T) {
	gen := NewGenerator(1)
	f := &Formula{
		Expression: "x",
		Strategy:   SampleEven,
		Count:      5,
		Variables:  []Variable{{Name: "x", Min: 0, Max: 10, Precision: 0}},
	}

	solutions, err := gen.Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}

	// 0, 2.5, 5, 7.5, 10 rounded half away from zero at precision 0.
	want := []float64{0, 3, 5, 8, 10}
	for i, solution := range solutions {
		if solution.Inputs["x"] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, solution.Inputs["x"], want[i])
		}
	}
}

func TestEvenSamplingDecimalPrecision(t *testing.T) {
	gen := NewGenerator(1)
	f := &Formula{
		Expression: "x",
		Strategy:   SampleEven,
		Count:      3,
		Precision:  2,
		Variables:  []Variable{{Name: "x", Min: 0, Max: 1, Precision: 2}},
	}
	solutions, err := gen.Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	want := []float64{0, 0.5, 1}
	for i, solution := range solutions {
		if solution.Inputs["x"] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, solution.Inputs["x"], want[i])
		}
	}
}

func TestRandomSamplingStaysInRange(t *testing.T) {
	gen := NewGenerator(42)
	f := &Formula{
		Expression: "a + b",
		Strategy:   SampleRandom,
		Count:      25,
		Variables: []Variable{
			{Name: "a", Min: -5, Max: 5, Precision: 0},
			{Name: "b", Min: 0, Max: 1, Precision: 2},
		},
	}

	solutions, err := gen.Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	if len(solutions) != 25 {
		t.Fatalf("count = %d", len(solutions))
	}
	for _, solution := range solutions {
		a, b := solution.Inputs["a"], solution.Inputs["b"]
		if a < -5 || a > 5 || a != math.Round(a) {
			t.Fatalf("a out of range or not integer: %v", a)
		}
		if b < 0 || b > 1 {
			t.Fatalf("b out of range: %v", b)
		}
		if !almostEqual(solution.Output, math.Round(a+b)) {
			t.Fatalf("output %v for a=%v b=%v", solution.Output, a, b)
		}
	}
}

func TestRandomSamplingDeterministicPerSeed(t *testing.T) {
	f := &Formula{
		Expression: "x",
		Strategy:   SampleRandom,
		Count:      5,
		Variables:  []Variable{{Name: "x", Min: 0, Max: 100, Precision: 0}},
	}

	first, err := NewGenerator(9).Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	second, err := NewGenerator(9).Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	for i := range first {
		if first[i].Inputs["x"] != second[i].Inputs["x"] {
			t.Fatalf("seeded generation must be reproducible")
		}
	}
}

func TestSolutionsDivisionByZeroFatal(t *testing.T) {
	gen := NewGenerator(1)
	f := &Formula{
		Expression: "10 / x",
		Strategy:   SampleEven,
		Count:      3,
		Variables:  []Variable{{Name: "x", Min: 0, Max: 2, Precision: 0}},
	}

	_, err := gen.Solutions(f)
	if err == nil {
		t.Fatalf("non-finite result must be a fatal error for the question")
	}
	if !goerrors.IsCategory(err, CategoryQuestion) {
		t.Fatalf("error category = %v", err)
	}
}

func TestSolutionsRejectsEmptyDeclaration(t *testing.T) {
	gen := NewGenerator(1)
	if _, err := gen.Solutions(&Formula{Expression: ""}); err == nil {
		t.Fatalf("missing expression must fail")
	}
	if _, err := gen.Solutions(&Formula{Expression: "x"}); err == nil {
		t.Fatalf("missing variables must fail")
	}
}

func TestSolutionsBadExpressionFails(t *testing.T) {
	gen := NewGenerator(1)
	f := &Formula{
		Expression: "x +* 2",
		Variables:  []Variable{{Name: "x", Min: 0, Max: 1}},
	}
	if _, err := gen.Solutions(f); err == nil {
		t.Fatalf("uncompilable expression must fail")
	}
}

func TestSolutionsDefaultCount(t *testing.T) {
	gen := NewGenerator(1)
	f := &Formula{
		Expression: "x * 2",
		Strategy:   SampleRandom,
		Variables:  []Variable{{Name: "x", Min: 1, Max: 9, Precision: 0}},
	}
	solutions, err := gen.Solutions(f)
	if err != nil {
		t.Fatalf("Solutions: %v", err)
	}
	if len(solutions) != DefaultSolutionCount {
		t.Fatalf("count = %d", len(solutions))
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
