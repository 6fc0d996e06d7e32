package assets

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Sweep deletes remote files in the managed namespaces whose IDs were not
// marked active during this run. It runs once, after every artifact has been
// processed; individual failures are logged and skipped so the sweep always
// covers both namespaces.
func (c *Cache) Sweep(ctx context.Context) int {
	c.logger.Info("starting orphaned asset sweep", "active_assets", c.state.ActiveCount())

	deleted := 0
	for _, namespace := range []string{NamespaceImages, NamespaceFiles} {
		folder, err := c.ensureFolder(ctx, namespace)
		if err != nil {
			c.logger.Warn("skipping namespace during sweep", "namespace", namespace, "error", err)
			continue
		}

		files, err := c.client.ListFolderContents(ctx, folder.ID)
		if err != nil {
			c.logger.Warn("skipping namespace during sweep", "namespace", namespace, "error", err)
			continue
		}

		for _, file := range files {
			if c.state.Active(file.ID) {
				continue
			}
			c.logger.Info("deleting orphaned asset", "file", file.Name, "file_id", file.ID, "namespace", namespace)
			if err := c.client.DeleteFile(ctx, file.ID); err != nil {
				cleanup := goerrors.Wrap(err, CategoryCleanup, "orphan delete failed").
					WithTextCode("SYNC_ORPHAN_DELETE_FAILED")
				c.logger.Warn("orphan delete failed", "file_id", file.ID, "error", cleanup)
				continue
			}
			deleted++
		}
	}

	c.logger.Info("orphaned asset sweep finished", "deleted", deleted)
	return deleted
}
