package assets

import (
	"context"
	"fmt"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// ensureFolder resolves a namespace folder through the per-run index. The
// first miss triggers a single full listing; the folder is created only if
// it is still missing after that refresh, which prevents duplicate-folder
// races within one run.
func (c *Cache) ensureFolder(ctx context.Context, name string) (*interfaces.RemoteFolder, error) {
	if folder, ok := c.state.Folder(name); ok {
		return folder, nil
	}

	if !c.state.FoldersLoaded() {
		folders, err := c.client.ListFolders(ctx)
		if err != nil {
			return nil, fmt.Errorf("assets: list folders: %w", err)
		}
		for _, folder := range folders {
			c.state.PutFolder(folder)
		}
		c.state.SetFoldersLoaded()

		if folder, ok := c.state.Folder(name); ok {
			return folder, nil
		}
	}

	c.logger.Info("creating managed folder", "folder", name)
	folder, err := c.client.CreateFolder(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("assets: create folder %s: %w", name, err)
	}
	c.state.PutFolder(folder)
	return folder, nil
}
