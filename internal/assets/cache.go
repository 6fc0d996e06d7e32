// Package assets deduplicates binary uploads against the sync map and
// garbage-collects remote files the current run no longer references.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/internal/syncstate"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// The two system-managed namespaces. The orphan sweep only ever touches
// these folders; files anywhere else on the remote are out of bounds.
const (
	NamespaceImages = "synced-images"
	NamespaceFiles  = "synced-files"
)

// CategoryCleanup marks best-effort cleanup failures that are logged and
// otherwise ignored.
var CategoryCleanup = goerrors.Category("sync_cleanup")

// Cache is the upload-dedup layer for binary assets.
type Cache struct {
	client interfaces.CourseClient
	store  *syncmap.Store
	state  *syncstate.State
	logger interfaces.Logger
}

// NewCache wires the cache over the capability client, sync map store, and
// the per-run state that accumulates active asset IDs.
func NewCache(client interfaces.CourseClient, store *syncmap.Store, state *syncstate.State, logger interfaces.Logger) *Cache {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Cache{client: client, store: store, state: state, logger: logger}
}

// Upload returns the remote URL and ID for the local file, uploading only
// when the stored fingerprint is stale or the prior record has no URL. Every
// returned ID, cached or fresh, is marked active for the orphan sweep.
func (c *Cache) Upload(ctx context.Context, localPath, namespace string) (string, string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", "", fmt.Errorf("assets: stat %s: %w", localPath, err)
	}
	mtime := info.ModTime().UnixNano()

	rel, err := c.store.Rel(localPath)
	if err != nil {
		return "", "", err
	}

	if record, ok := c.store.Get(rel); ok {
		// The URL check guards against records written by a failed upload.
		if record.MTime == mtime && record.URL != "" {
			c.state.MarkActive(record.ID)
			return record.URL, record.ID, nil
		}
	}

	folder, err := c.ensureFolder(ctx, namespace)
	if err != nil {
		return "", "", err
	}

	c.logger.Info("uploading asset", "artifact_path", rel, "namespace", namespace)
	file, err := c.client.UploadBinary(ctx, folder.ID, localPath)
	if err != nil {
		return "", "", fmt.Errorf("assets: upload %s: %w", filepath.Base(localPath), err)
	}

	c.state.MarkActive(file.ID)
	if err := c.store.Put(rel, syncmap.Record{ID: file.ID, MTime: mtime, URL: file.URL}); err != nil {
		return "", "", err
	}
	return file.URL, file.ID, nil
}
