package quiz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceAny      = regexp.MustCompile(`^(:::+)`)
	answerOpen    = regexp.MustCompile(`^(:::+)\s*\{\.answer(.*?)\}\s*$`)
	variableOpen  = regexp.MustCompile(`^(:::+)\s*\{\.variable(.*?)\}\s*$`)
	answerPresent = regexp.MustCompile(`(?m)^:::+\s*\{\.answer`)
	checkItem     = regexp.MustCompile(`^(\s*)-\s*\[([ xX])\]\s*(.*)$`)
	subBullet     = regexp.MustCompile(`^-\s+(.*)$`)
)

// feedback fence names, written without class syntax.
const (
	correctFeedbackDiv   = "correct-comment"
	incorrectFeedbackDiv = "incorrect-comment"
)

// parseQuestionBlock turns one raw fenced block into a Question. Missing or
// malformed pieces get defaults; a block never fails the document.
func parseQuestionBlock(block rawBlock, index int) Question {
	a := parseAttrs(block.attrs)

	q := Question{
		Name:   a.str("name", fmt.Sprintf("Question %d", index+1)),
		Type:   NormalizeType(a.str("type", "")),
		Points: a.float("points", 1),
	}

	content := block.content
	q.CorrectFeedback, content = extractNamedDiv(content, correctFeedbackDiv)
	q.IncorrectFeedback, content = extractNamedDiv(content, incorrectFeedbackDiv)

	if q.Type == TypeFormula {
		var variables []rawBlock
		variables, content = extractClassDivs(content, variableOpen)
		q.Formula = buildFormula(a, variables)
	}

	if answerPresent.MatchString(content) {
		parseRichAnswers(content, &q)
	} else {
		parseChecklistAnswers(content, &q)
	}

	if q.Type == TypeNumeric {
		attachNumericSpecs(&q)
	}
	return q
}

// parseRichAnswers handles fenced `.answer` sub-blocks. Everything before
// the first answer fence is the question body.
func parseRichAnswers(content string, q *Question) {
	if loc := answerPresent.FindStringIndex(content); loc != nil {
		q.Body = trimBlankEdges(content[:loc[0]])
	} else {
		q.Body = trimBlankEdges(content)
	}

	divs, _ := extractClassDivs(content, answerOpen)
	for _, div := range divs {
		a := parseAttrs(div.attrs)
		answer := Answer{
			HTML:    div.content,
			Correct: a.bool("correct") || strings.Contains(div.attrs, ".correct"),
			Comment: a.str("comment", ""),
			Numeric: numericFromAttrs(a),
		}
		q.Answers = append(q.Answers, answer)
	}
}

// parseChecklistAnswers handles `- [x]` / `- [ ]` list items. An indented
// sub-bullet under an item carries its per-answer comment.
func parseChecklistAnswers(content string, q *Question) {
	lines := strings.Split(content, "\n")

	first := -1
	for i, line := range lines {
		if checkItem.MatchString(line) {
			first = i
			break
		}
	}
	if first < 0 {
		q.Body = trimBlankEdges(content)
		return
	}

	q.Body = trimBlankEdges(strings.Join(lines[:first], "\n"))

	var current *Answer
	for _, line := range lines[first:] {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, ":::") {
			break
		}
		if m := checkItem.FindStringSubmatch(line); m != nil {
			q.Answers = append(q.Answers, Answer{
				Text:    strings.TrimSpace(m[3]),
				Correct: strings.EqualFold(m[2], "x"),
			})
			current = &q.Answers[len(q.Answers)-1]
			continue
		}
		if current == nil {
			continue
		}
		if m := subBullet.FindStringSubmatch(stripped); m != nil {
			current.Comment = strings.TrimSpace(m[1])
		}
	}
}

// attachNumericSpecs backfills acceptance criteria for checklist-style
// numeric answers whose text is a bare number.
func attachNumericSpecs(q *Question) {
	for i := range q.Answers {
		answer := &q.Answers[i]
		if answer.Numeric != nil || answer.Text == "" {
			continue
		}
		if value, err := strconv.ParseFloat(strings.TrimSpace(answer.Text), 64); err == nil {
			answer.Numeric = &NumericSpec{Exact: &value}
		}
	}
}

// numericFromAttrs reads the numeric acceptance fields off an answer fence.
// Returns nil when none are declared.
func numericFromAttrs(a attrs) *NumericSpec {
	spec := &NumericSpec{
		Exact:     a.floatPtr("exact"),
		Margin:    a.floatPtr("margin"),
		Precision: a.intPtr("precision"),
		Start:     a.floatPtr("start"),
		End:       a.floatPtr("end"),
	}
	if spec.Exact == nil {
		spec.Exact = a.floatPtr("value")
	}
	if spec.Exact == nil && spec.Margin == nil && spec.Precision == nil && spec.Start == nil && spec.End == nil {
		return nil
	}
	return spec
}

// buildFormula assembles the formula declaration from question attributes
// and `.variable` sub-blocks.
func buildFormula(a attrs, variables []rawBlock) *Formula {
	f := &Formula{
		Expression: a.str("formula", ""),
		Strategy:   SampleRandom,
		Count:      a.int("count", DefaultSolutionCount),
		Precision:  a.int("precision", 0),
	}
	if a.str("strategy", "") == string(SampleEven) {
		f.Strategy = SampleEven
	}

	for _, v := range variables {
		va := parseAttrs(v.attrs)
		f.Variables = append(f.Variables, Variable{
			Name:      va.str("name", ""),
			Min:       va.float("min", 0),
			Max:       va.float("max", 0),
			Precision: va.int("precision", 0),
		})
	}
	return f
}

// extractClassDivs pulls every fenced block whose open line matches the
// given class pattern, returning the blocks and the content with those
// blocks removed. Nesting inside a block is tracked by depth.
func extractClassDivs(content string, open *regexp.Regexp) ([]rawBlock, string) {
	var divs []rawBlock
	var kept []string
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		m := open.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil {
			kept = append(kept, lines[i])
			continue
		}

		var inner []string
		depth := 1
		for i++; i < len(lines); i++ {
			stripped := strings.TrimSpace(lines[i])
			if f := fenceAny.FindStringSubmatch(stripped); f != nil {
				rest := strings.TrimSpace(stripped[len(f[1]):])
				if rest == "" {
					depth--
					if depth == 0 {
						break
					}
				} else if strings.HasPrefix(rest, "{") {
					depth++
				}
			}
			inner = append(inner, lines[i])
		}

		divs = append(divs, rawBlock{
			attrs:   strings.TrimSpace(m[2]),
			content: trimBlankEdges(stripIndent(strings.Join(inner, "\n"))),
		})
	}
	return divs, strings.Join(kept, "\n")
}

// extractNamedDiv pulls the first `::: name` fenced block, returning its
// content and the input with every occurrence removed.
func extractNamedDiv(content, name string) (string, string) {
	open := regexp.MustCompile(`^:::+\s+` + regexp.QuoteMeta(name) + `\s*$`)
	bareClose := regexp.MustCompile(`^:::+\s*$`)
	nestedOpen := regexp.MustCompile(`^:::+\s*(\{|\S)`)

	var found string
	var kept []string
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		if !open.MatchString(strings.TrimSpace(lines[i])) {
			kept = append(kept, lines[i])
			continue
		}

		var inner []string
		depth := 1
		for i++; i < len(lines); i++ {
			stripped := strings.TrimSpace(lines[i])
			if bareClose.MatchString(stripped) {
				depth--
				if depth == 0 {
					break
				}
			} else if nestedOpen.MatchString(stripped) {
				depth++
			}
			inner = append(inner, lines[i])
		}
		if found == "" {
			found = trimBlankEdges(stripIndent(strings.Join(inner, "\n")))
		}
	}
	return found, strings.Join(kept, "\n")
}
