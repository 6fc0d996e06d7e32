package course

import (
	"context"
	"fmt"

	"github.com/goliatone/go-coursesync/internal/syncengine"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// syncAssignment upserts one assignment artifact. The fingerprint is the
// composite of the source file and every local binary it references, so
// swapping an attached file re-syncs the assignment even when the markdown
// itself is untouched.
func (r *Runner) syncAssignment(ctx context.Context, rn *run, path string, doc *interfaces.Document) (Action, error) {
	refs := rn.rewriter.LocalRefs(path, doc.Body)
	fingerprint := syncengine.CompositeFingerprint(append([]string{path}, refs...)...)
	key, err := r.store.Rel(path)
	if err != nil {
		return ActionFailed, err
	}

	res, err := r.engine.Resolve(ctx, syncengine.Request{
		Path:        key,
		Type:        interfaces.ObjectAssignment,
		Title:       doc.Title,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return ActionFailed, err
	}
	if res.Skip {
		r.markRefsActive(ctx, rn, path, doc)
		return ActionSkipped, nil
	}

	body, _ := rn.rewriter.Process(ctx, path, doc.Body)
	html, err := r.renderer.Render(ctx, body)
	if err != nil {
		return ActionFailed, fmt.Errorf("render assignment %s: %w", key, err)
	}

	fields := interfaces.ObjectFields{
		"name":        doc.Title,
		"description": string(html),
		"published":   doc.Meta.Published,
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
	if len(doc.Meta.SubmissionTypes) > 0 {
		fields["submission_types"] = doc.Meta.SubmissionTypes
	}
	if len(doc.Meta.AllowedExtensions) > 0 {
		fields["allowed_extensions"] = doc.Meta.AllowedExtensions
	}

	obj, action, err := r.upsert(ctx, interfaces.ObjectAssignment, res.RemoteID, fields)
	if err != nil {
		return ActionFailed, err
	}
	if err := r.engine.Commit(key, obj.ID, obj.URL, fingerprint, nil); err != nil {
		return ActionFailed, err
	}
	return action, nil
}
