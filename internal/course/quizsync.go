package course

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-coursesync/internal/markdown"
	"github.com/goliatone/go-coursesync/internal/quiz"
	"github.com/goliatone/go-coursesync/internal/syncengine"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// syncQuiz upserts a quiz artifact and reconciles its questions as remote
// sub-resources. Question identity is tracked by name in the sync map so a
// re-run updates items in place instead of recreating them.
func (r *Runner) syncQuiz(ctx context.Context, rn *run, path string) (Action, error) {
	doc, err := r.loadQuiz(path)
	if err != nil {
		return ActionFailed, err
	}

	title := doc.Title
	if title == "" {
		title = doc.Meta.Title
	}
	if title == "" {
		title = markdown.TitleFromFilename(path)
	}

	fingerprint := syncengine.Fingerprint(path)
	key, err := r.store.Rel(path)
	if err != nil {
		return ActionFailed, err
	}

	res, err := r.engine.Resolve(ctx, syncengine.Request{
		Path:        key,
		Type:        interfaces.ObjectQuiz,
		Title:       title,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return ActionFailed, err
	}
	if res.Skip {
		r.markQuestionRefsActive(ctx, rn, path, doc)
		return ActionSkipped, nil
	}

	fields := interfaces.ObjectFields{
		"title":     title,
		"published": doc.Meta.Published,
	}
	if doc.Meta.Points > 0 {
		fields["points_possible"] = doc.Meta.Points
	}
	if doc.Meta.DueAt != "" {
		fields["due_at"] = doc.Meta.DueAt
	}
	if doc.Meta.UnlockAt != "" {
		fields["unlock_at"] = doc.Meta.UnlockAt
	}
	if doc.Meta.LockAt != "" {
		fields["lock_at"] = doc.Meta.LockAt
	}

	obj, action, err := r.upsert(ctx, interfaces.ObjectQuiz, res.RemoteID, fields)
	if err != nil {
		return ActionFailed, err
	}

	if err := r.renderQuestions(ctx, rn, path, doc); err != nil {
		return ActionFailed, err
	}

	items, err := r.reconcileItems(ctx, obj.ID, doc.Questions, res.ItemIDs)
	if err != nil {
		return ActionFailed, err
	}

	if err := r.engine.Commit(key, obj.ID, obj.URL, fingerprint, items); err != nil {
		return ActionFailed, err
	}
	return action, nil
}

func (r *Runner) loadQuiz(path string) (*quiz.Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz %s: %w", path, err)
	}
	if quiz.IsJSONQuiz(path) {
		return quiz.ParseJSON(source)
	}
	return quiz.Parse(source)
}

// renderQuestions runs every question body, rich answer, and feedback text
// through link rewriting and the renderer, in place.
func (r *Runner) renderQuestions(ctx context.Context, rn *run, path string, doc *quiz.Document) error {
	render := func(text string) (string, error) {
		if text == "" {
			return "", nil
		}
		body, _ := rn.rewriter.Process(ctx, path, []byte(text))
		html, err := r.renderer.Render(ctx, body)
		if err != nil {
			return "", err
		}
		return string(html), nil
	}

	for qi := range doc.Questions {
		q := &doc.Questions[qi]

		var err error
		if q.Body, err = render(q.Body); err != nil {
			return fmt.Errorf("render question %q: %w", q.Name, err)
		}
		if q.CorrectFeedback, err = render(q.CorrectFeedback); err != nil {
			return fmt.Errorf("render feedback for %q: %w", q.Name, err)
		}
		if q.IncorrectFeedback, err = render(q.IncorrectFeedback); err != nil {
			return fmt.Errorf("render feedback for %q: %w", q.Name, err)
		}
		for ai := range q.Answers {
			answer := &q.Answers[ai]
			if answer.HTML == "" {
				continue
			}
			if answer.HTML, err = render(answer.HTML); err != nil {
				return fmt.Errorf("render answer of %q: %w", q.Name, err)
			}
		}
	}
	return nil
}

// markQuestionRefsActive keeps a skipped quiz's cached assets out of the
// orphan sweep: question bodies, answers, and feedback are re-run through
// reference processing, which marks cached assets active without a remote
// write when fingerprints still match.
func (r *Runner) markQuestionRefsActive(ctx context.Context, rn *run, path string, doc *quiz.Document) {
	mark := func(text string) {
		if text != "" {
			rn.rewriter.Process(ctx, path, []byte(text))
		}
	}
	for _, q := range doc.Questions {
		mark(q.Body)
		mark(q.CorrectFeedback)
		mark(q.IncorrectFeedback)
		for _, answer := range q.Answers {
			mark(answer.HTML)
		}
	}
}

// reconcileItems pushes every question to the remote quiz. Tracked questions
// are updated in place; an update failure falls back to re-creating the
// item. Tracked items whose question disappeared locally are deleted.
func (r *Runner) reconcileItems(ctx context.Context, quizID string, questions []quiz.Question, tracked map[string]string) (map[string]string, error) {
	next := make(map[string]string, len(questions))

	for i, q := range questions {
		payload, err := r.transformer.Transform(q, i+1)
		if err != nil {
			return nil, fmt.Errorf("transform question %q: %w", q.Name, err)
		}

		if itemID, ok := tracked[q.Name]; ok {
			if _, err := r.client.UpdateItem(ctx, quizID, itemID, payload); err == nil {
				next[q.Name] = itemID
				continue
			}
			r.logger.Warn("item update failed, re-creating question",
				"quiz_id", quizID, "question", q.Name)
		}

		created, err := r.client.CreateItem(ctx, quizID, payload)
		if err != nil {
			return nil, fmt.Errorf("create item for %q: %w", q.Name, err)
		}
		next[q.Name] = created.ID
	}

	for name, itemID := range tracked {
		if _, kept := next[name]; kept {
			continue
		}
		if err := r.client.DeleteItem(ctx, quizID, itemID); err != nil {
			r.logger.Warn("stale quiz item delete failed",
				"quiz_id", quizID, "question", name, "error", err)
		}
	}
	return next, nil
}
