package quiz

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	goerrors "github.com/goliatone/go-errors"
)

// CategoryQuestion marks failures that abort one question's processing, such
// as a formula producing a non-finite value for a sampled input. The rest of
// the quiz continues.
var CategoryQuestion = goerrors.Category("sync_question")

const formulaInvalidCode = "SYNC_FORMULA_INVALID"

// Solution is one generated input tuple and its evaluated output.
type Solution struct {
	Inputs map[string]float64
	Output float64
}

// Generator produces formula solution sets. The random source is owned by
// the generator so tests can seed it deterministically.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator. The same seed yields the same random
// solution sets.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Solutions generates the declared number of solution tuples for a formula
// question. Every tuple is evaluated through a restricted expression
// evaluator; an evaluation error or a non-finite result fails the whole
// question, because a question with invalid solutions would be unscorable.
func (g *Generator) Solutions(f *Formula) ([]Solution, error) {
	if f == nil || f.Expression == "" {
		return nil, questionErr("formula question declares no expression")
	}
	if len(f.Variables) == 0 {
		return nil, questionErr("formula %q declares no variables", f.Expression)
	}
	count := f.Count
	if count <= 0 {
		count = DefaultSolutionCount
	}

	program, err := expr.Compile(f.Expression)
	if err != nil {
		return nil, goerrors.Wrap(err, CategoryQuestion,
			fmt.Sprintf("formula %q does not compile", f.Expression)).
			WithTextCode(formulaInvalidCode)
	}

	// Even sampling is computed once per variable and indexed by iteration,
	// so every variable contributes the same number of distinct values.
	even := map[string][]float64{}
	if f.Strategy == SampleEven {
		for _, v := range f.Variables {
			even[v.Name] = evenSamples(v, count)
		}
	}

	solutions := make([]Solution, 0, count)
	for i := 0; i < count; i++ {
		inputs := map[string]float64{}
		for _, v := range f.Variables {
			if f.Strategy == SampleEven {
				inputs[v.Name] = even[v.Name][i]
			} else {
				inputs[v.Name] = roundTo(v.Min+g.rng.Float64()*(v.Max-v.Min), v.Precision)
			}
		}

		output, err := evaluate(program, inputs)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, Solution{Inputs: inputs, Output: roundTo(output, f.Precision)})
	}
	return solutions, nil
}

// evenSamples spaces count values across the variable's range, endpoints
// inclusive, rounded to the variable's precision half away from zero.
func evenSamples(v Variable, count int) []float64 {
	if count == 1 {
		return []float64{roundTo(v.Min, v.Precision)}
	}
	step := (v.Max - v.Min) / float64(count-1)
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		out[i] = roundTo(v.Min+float64(i)*step, v.Precision)
	}
	return out
}

func evaluate(program *vm.Program, inputs map[string]float64) (float64, error) {
	env := make(map[string]any, len(inputs))
	for name, value := range inputs {
		env[name] = value
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return 0, goerrors.Wrap(err, CategoryQuestion,
			fmt.Sprintf("formula evaluation failed for inputs %v", inputs)).
			WithTextCode(formulaInvalidCode)
	}

	output, ok := toFloat(result)
	if !ok {
		return 0, questionErr("formula produced non-numeric result %v for inputs %v", result, inputs)
	}
	if math.IsNaN(output) || math.IsInf(output, 0) {
		return 0, questionErr("formula produced non-finite result for inputs %v", inputs)
	}
	return output, nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(value float64, precision int) float64 {
	if precision <= 0 {
		return math.Round(value)
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(value*scale) / scale
}

func questionErr(format string, args ...any) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), CategoryQuestion, "question aborted").
		WithTextCode(formulaInvalidCode)
}
