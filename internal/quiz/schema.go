package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// documentSchema validates the JSON quiz format before decoding. Older quiz
// exports predate the markup format, so the sync pipeline still accepts
// them.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["questions"],
  "properties": {
    "title": {"type": "string"},
    "sync": {"type": "object"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question_name": {"type": "string"},
          "question_type": {"type": "string"},
          "points_possible": {"type": "number"},
          "question_text": {"type": "string"},
          "correct_comments": {"type": "string"},
          "incorrect_comments": {"type": "string"},
          "answers": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "answer_text": {"type": "string"},
                "answer_html": {"type": "string"},
                "answer_weight": {"type": "number"},
                "answer_comments": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("quiz-document.json", documentSchema)

type jsonDocument struct {
	Title     string              `json:"title"`
	Sync      interfaces.SyncMeta `json:"sync"`
	Questions []jsonQuestion      `json:"questions"`
}

type jsonQuestion struct {
	Name              string       `json:"question_name"`
	Type              string       `json:"question_type"`
	Points            float64      `json:"points_possible"`
	Text              string       `json:"question_text"`
	Answers           []jsonAnswer `json:"answers"`
	CorrectComments   string       `json:"correct_comments"`
	IncorrectComments string       `json:"incorrect_comments"`
}

type jsonAnswer struct {
	Text     string  `json:"answer_text"`
	HTML     string  `json:"answer_html"`
	Weight   float64 `json:"answer_weight"`
	Comments string  `json:"answer_comments"`
}

// ParseJSON decodes a quiz stored in the JSON document format, validating
// against the schema first so malformed exports fail with a useful message
// instead of half-decoding.
func ParseJSON(source []byte) (*Document, error) {
	var generic any
	if err := json.Unmarshal(source, &generic); err != nil {
		return nil, fmt.Errorf("quiz: decode json: %w", err)
	}
	if err := compiledSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("quiz: invalid document: %w", err)
	}

	var raw jsonDocument
	if err := json.Unmarshal(source, &raw); err != nil {
		return nil, fmt.Errorf("quiz: decode json: %w", err)
	}

	doc := &Document{Title: raw.Title, Meta: raw.Sync}
	for i, rq := range raw.Questions {
		q := Question{
			Name:              rq.Name,
			Type:              NormalizeType(rq.Type),
			Points:            rq.Points,
			Body:              rq.Text,
			CorrectFeedback:   rq.CorrectComments,
			IncorrectFeedback: rq.IncorrectComments,
		}
		if q.Name == "" {
			q.Name = fmt.Sprintf("Question %d", i+1)
		}
		if q.Points == 0 {
			q.Points = 1
		}
		for _, ra := range rq.Answers {
			q.Answers = append(q.Answers, Answer{
				Text:    ra.Text,
				HTML:    ra.HTML,
				Correct: ra.Weight == 100,
				Comment: ra.Comments,
			})
		}
		if q.Type == TypeNumeric {
			attachNumericSpecs(&q)
		}
		doc.Questions = append(doc.Questions, q)
	}
	return doc, nil
}

// IsJSONQuiz reports whether a file path names a JSON-format quiz document.
func IsJSONQuiz(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}
