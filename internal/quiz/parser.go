package quiz

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-coursesync/internal/markdown"
)

var (
	questionOpen = regexp.MustCompile(`^(::::+)\s*\{\.question(.*?)\}\s*$`)
	fenceStart   = regexp.MustCompile(`^(::::+)`)
)

// Parse reads a complete quiz document: quiz-level settings from the leading
// metadata block, then every fenced question block in order. Malformed
// blocks degrade to defaults instead of failing the document.
func Parse(source []byte) (*Document, error) {
	title, meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}

	doc := &Document{Title: title, Meta: meta}
	for i, block := range extractQuestionBlocks(string(body)) {
		doc.Questions = append(doc.Questions, parseQuestionBlock(block, i))
	}
	return doc, nil
}

type rawBlock struct {
	attrs   string
	content string
}

// extractQuestionBlocks scans for fences of four or more colons tagged
// {.question}. Fence nesting is tracked by depth so a question may contain
// sub-blocks of equal or greater fence length; only the close that returns
// the depth to zero terminates the question. Inner opens and closes stay
// part of the block content.
func extractQuestionBlocks(body string) []rawBlock {
	var blocks []rawBlock
	lines := strings.Split(body, "\n")

	for i := 0; i < len(lines); i++ {
		open := questionOpen.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if open == nil {
			continue
		}
		block, next := scanBlock(lines, i+1)
		block.attrs = strings.TrimSpace(open[2])
		blocks = append(blocks, block)
		i = next
	}
	return blocks
}

// scanBlock collects block content from start until the close that returns
// the depth to zero. An unterminated block consumes the rest of the input.
func scanBlock(lines []string, start int) (rawBlock, int) {
	var content []string
	depth := 1

	i := start
	for ; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if fence := fenceStart.FindStringSubmatch(stripped); fence != nil {
			rest := strings.TrimSpace(stripped[len(fence[1]):])
			if rest == "" {
				depth--
				if depth == 0 {
					break
				}
			} else if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "#") {
				depth++
			}
		}
		content = append(content, lines[i])
	}

	return rawBlock{content: stripIndent(strings.Join(content, "\n"))}, i
}

// stripIndent removes the common leading whitespace shared by all non-blank
// lines, so blocks nested under list items parse the same as top-level ones.
func stripIndent(text string) string {
	lines := strings.Split(text, "\n")

	min := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if min < 0 || indent < min {
			min = indent
		}
	}
	if min <= 0 {
		return text
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = line[min:]
	}
	return strings.Join(out, "\n")
}

// trimBlankEdges drops leading and trailing blank lines while preserving
// interior structure.
func trimBlankEdges(text string) string {
	lines := strings.Split(text, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
