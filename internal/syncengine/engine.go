// Package syncengine decides, for every local artifact, whether a remote
// object already exists, whether it is stale, and how to reconcile drift
// between the sync map and remote reality.
package syncengine

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// CategoryDrift marks a recoverable condition where a cached remote identity
// no longer resolves. Drift is reconciled by title search and is never fatal.
var CategoryDrift = goerrors.Category("sync_drift")

// Request describes the artifact under consideration.
type Request struct {
	// Path is the store key: the artifact path relative to the content root.
	Path string
	// Type restricts the secondary title lookup to one remote collection.
	Type interfaces.ObjectType
	// Title is the exact title used for the secondary lookup.
	Title string
	// Fingerprint is the artifact's current change-detection value.
	Fingerprint int64
}

// Resolution is the engine's verdict for one artifact.
type Resolution struct {
	// RemoteID is the existing remote identity, empty when the caller must
	// create a new object.
	RemoteID string
	// ItemIDs carries previously tracked sub-resource identities (quiz
	// questions) so they can be reconciled instead of re-created.
	ItemIDs map[string]string
	// Skip is true when the stored fingerprint matches exactly; the caller
	// performs no rendering, no transformation, and no remote write.
	Skip bool
}

// Engine implements the create/update/skip/recover decision.
type Engine struct {
	client interfaces.CourseClient
	store  *syncmap.Store
	logger interfaces.Logger
}

// New constructs an engine over the given capability client and store.
func New(client interfaces.CourseClient, store *syncmap.Store, logger interfaces.Logger) *Engine {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Engine{client: client, store: store, logger: logger}
}

// Resolve looks up the artifact's remote identity and decides the action.
//
// The fingerprint comparison is exact match: any difference, in either
// direction, makes the artifact stale. When the stored identity no longer
// resolves remotely the engine logs recoverable drift and falls back to an
// exact-title search restricted by type; when both the stored identity and a
// title match exist, the stored identity wins so no duplicate is created.
func (e *Engine) Resolve(ctx context.Context, req Request) (Resolution, error) {
	record, ok := e.store.Get(req.Path)
	if !ok {
		return Resolution{}, nil
	}

	remoteID := record.ID
	if remoteID != "" {
		if _, err := e.client.GetObject(ctx, req.Type, remoteID); err != nil {
			drift := goerrors.Wrap(err, CategoryDrift, "cached remote identity no longer resolves").
				WithTextCode("SYNC_DRIFT_RECOVERED")
			e.logger.Warn("recoverable drift: cached remote object missing, falling back to title search",
				"artifact_path", req.Path, "remote_id", remoteID, "error", drift)
			remoteID = ""
		}
	}

	if remoteID != "" && record.MTime == req.Fingerprint {
		return Resolution{RemoteID: remoteID, ItemIDs: record.Items, Skip: true}, nil
	}

	if remoteID == "" {
		found, err := e.findByTitle(ctx, req.Type, req.Title)
		if err != nil {
			return Resolution{}, err
		}
		remoteID = found
	}

	return Resolution{RemoteID: remoteID, ItemIDs: record.Items}, nil
}

// Commit records a successful remote write, replacing whatever the store
// held for the path. The URL is kept so cross-references to this artifact
// resolve without a remote read.
func (e *Engine) Commit(path, remoteID, url string, fingerprint int64, items map[string]string) error {
	record := syncmap.Record{ID: remoteID, MTime: fingerprint, URL: url, Items: items}
	if err := e.store.Put(path, record); err != nil {
		return fmt.Errorf("syncengine: commit %s: %w", path, err)
	}
	return nil
}

// findByTitle scans the remote collection of the given type for an exact
// title match. Title collisions resolve to the first match in provider
// order; the behaviour is non-deterministic when the remote holds duplicate
// titles and is kept that way deliberately.
func (e *Engine) findByTitle(ctx context.Context, objType interfaces.ObjectType, title string) (string, error) {
	if title == "" {
		return "", nil
	}
	objects, err := e.client.ListObjects(ctx, objType, interfaces.ObjectFilter{SearchTerm: title})
	if err != nil {
		return "", fmt.Errorf("syncengine: list %s objects: %w", objType, err)
	}
	for _, obj := range objects {
		if obj != nil && obj.Title == title {
			return obj.ID, nil
		}
	}
	return "", nil
}
