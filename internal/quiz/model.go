// Package quiz parses fenced-div quiz markup and legacy JSON quiz documents
// into a typed question model, and transforms that model into remote quiz
// item payloads.
package quiz

import (
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// QuestionType enumerates the supported question kinds. The parser accepts
// both the short names used in markup attributes and the long provider-style
// names found in legacy JSON documents.
type QuestionType string

const (
	TypeChoice      QuestionType = "choice"
	TypeMultiAnswer QuestionType = "multi-answer"
	TypeTrueFalse   QuestionType = "true-false"
	TypeNumeric     QuestionType = "numeric"
	TypeFormula     QuestionType = "formula"
	TypeEssay       QuestionType = "essay"
)

// NormalizeType maps a declared type attribute onto a QuestionType. Unknown
// or empty declarations fall back to single choice rather than failing the
// question.
func NormalizeType(declared string) QuestionType {
	switch declared {
	case "choice", "multiple_choice", "multiple_choice_question":
		return TypeChoice
	case "multi-answer", "multi_answer", "multiple_answers", "multiple_answers_question":
		return TypeMultiAnswer
	case "true-false", "true_false", "true_false_question":
		return TypeTrueFalse
	case "numeric", "numerical", "numerical_question":
		return TypeNumeric
	case "formula", "calculated", "calculated_question":
		return TypeFormula
	case "essay", "essay_question":
		return TypeEssay
	}
	return TypeChoice
}

// Answer is one option of a question. Text holds plain checklist content,
// HTML holds rich fenced content; at most one of the two is set.
type Answer struct {
	Text    string
	HTML    string
	Correct bool
	Comment string
	Numeric *NumericSpec
}

// Body returns whichever content field is populated.
func (a Answer) Body() string {
	if a.HTML != "" {
		return a.HTML
	}
	return a.Text
}

// NumericSpec captures the acceptance criteria of a numeric answer. Exactly
// one sub-encoding applies, chosen by field presence: a range when both
// Start and End are set, then margin-of-error, then decimal precision, then
// an exact value.
type NumericSpec struct {
	Exact     *float64
	Margin    *float64
	Precision *int
	Start     *float64
	End       *float64
}

// Variable declares one formula input and its sampled range.
type Variable struct {
	Name      string
	Min       float64
	Max       float64
	Precision int
}

// Formula describes a procedurally generated question: an expression over
// declared variables, a sampling strategy, and how many solution tuples to
// generate.
type Formula struct {
	Expression string
	Variables  []Variable
	Strategy   SamplingStrategy
	Count      int
	// Precision controls rounding of the evaluated output.
	Precision int
}

// SamplingStrategy selects how variable values are drawn.
type SamplingStrategy string

const (
	SampleRandom SamplingStrategy = "random"
	SampleEven   SamplingStrategy = "even"
)

// DefaultSolutionCount is used when a formula question does not declare one.
const DefaultSolutionCount = 10

// Question is the normalized representation of one quiz question.
type Question struct {
	Name              string
	Type              QuestionType
	Points            float64
	Body              string
	Answers           []Answer
	CorrectFeedback   string
	IncorrectFeedback string
	// Formula is set only for TypeFormula questions.
	Formula *Formula
}

// Document is a fully parsed quiz: quiz-level settings plus the ordered
// question list.
type Document struct {
	Title     string
	Meta      interfaces.SyncMeta
	Questions []Question
}
