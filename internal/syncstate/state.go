// Package syncstate holds the mutable caches scoped to a single sync run:
// the set of remote asset IDs touched so far and the memoized folder index.
// Both live on an explicit State value passed to components instead of
// package globals, so repeated runs and tests never leak state.
package syncstate

import (
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// State is the per-run context. It starts empty, accumulates during the run,
// and is discarded when the run ends; nothing here is persisted.
type State struct {
	active        map[string]struct{}
	folders       map[string]*interfaces.RemoteFolder
	foldersLoaded bool
}

// New returns an empty run context.
func New() *State {
	return &State{
		active:  map[string]struct{}{},
		folders: map[string]*interfaces.RemoteFolder{},
	}
}

// MarkActive records a remote asset ID as referenced by the current run. An
// asset reused from cache counts as active even though no upload occurred.
func (s *State) MarkActive(id string) {
	if id == "" {
		return
	}
	s.active[id] = struct{}{}
}

// Active reports whether the asset ID was touched during this run.
func (s *State) Active(id string) bool {
	_, ok := s.active[id]
	return ok
}

// ActiveCount returns the number of distinct assets marked so far.
func (s *State) ActiveCount() int {
	return len(s.active)
}

// Folder returns the cached remote folder for name, if resolved earlier in
// the run.
func (s *State) Folder(name string) (*interfaces.RemoteFolder, bool) {
	folder, ok := s.folders[FolderKey(name)]
	return folder, ok
}

// PutFolder caches a resolved folder under its normalized name.
func (s *State) PutFolder(folder *interfaces.RemoteFolder) {
	if folder == nil || folder.Name == "" {
		return
	}
	s.folders[FolderKey(folder.Name)] = folder
}

// FoldersLoaded reports whether the full remote folder listing was already
// fetched this run.
func (s *State) FoldersLoaded() bool {
	return s.foldersLoaded
}

// SetFoldersLoaded marks the folder listing as fetched so later misses skip
// the refresh and go straight to creation.
func (s *State) SetFoldersLoaded() {
	s.foldersLoaded = true
}

// FolderKey normalizes a folder name for index lookups. Slug normalization
// keeps lookups stable across case and whitespace variations of the same
// name; names the normalizer rejects fall back to simple lowercasing.
func FolderKey(name string) string {
	if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(strings.TrimSpace(name))
}
