package course

import (
	"context"
	"fmt"

	"github.com/goliatone/go-coursesync/internal/syncengine"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// syncPage upserts one page artifact: change detection first, then link and
// image rewriting, rendering, and the remote write.
func (r *Runner) syncPage(ctx context.Context, rn *run, path string, doc *interfaces.Document) (Action, error) {
	refs := rn.rewriter.LocalRefs(path, doc.Body)
	fingerprint := syncengine.CompositeFingerprint(append([]string{path}, refs...)...)
	key, err := r.store.Rel(path)
	if err != nil {
		return ActionFailed, err
	}

	res, err := r.engine.Resolve(ctx, syncengine.Request{
		Path:        key,
		Type:        interfaces.ObjectPage,
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
		return ActionFailed, fmt.Errorf("render page %s: %w", key, err)
	}

	fields := interfaces.ObjectFields{
		"title":     doc.Title,
		"body":      string(html),
		"published": doc.Meta.Published,
	}

	obj, action, err := r.upsert(ctx, interfaces.ObjectPage, res.RemoteID, fields)
	if err != nil {
		return ActionFailed, err
	}
	if err := r.engine.Commit(key, obj.ID, obj.URL, fingerprint, nil); err != nil {
		return ActionFailed, err
	}
	return action, nil
}

// upsert edits the known remote object or creates a new one.
func (r *Runner) upsert(ctx context.Context, objType interfaces.ObjectType, remoteID string, fields interfaces.ObjectFields) (*interfaces.RemoteObject, Action, error) {
	if remoteID != "" {
		obj, err := r.client.EditObject(ctx, objType, remoteID, fields)
		if err != nil {
			return nil, ActionFailed, fmt.Errorf("edit %s %s: %w", objType, remoteID, err)
		}
		return obj, ActionUpdated, nil
	}
	obj, err := r.client.CreateObject(ctx, objType, fields)
	if err != nil {
		return nil, ActionFailed, fmt.Errorf("create %s: %w", objType, err)
	}
	return obj, ActionCreated, nil
}

// markRefsActive keeps a skipped artifact's cached assets out of the orphan
// sweep: every asset it references is re-marked through the cache, which is
// a no-op network-wise when fingerprints still match.
func (r *Runner) markRefsActive(ctx context.Context, rn *run, path string, doc *interfaces.Document) {
	rn.rewriter.Process(ctx, path, doc.Body)
}
