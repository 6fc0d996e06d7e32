// Package crossref resolves links between local course artifacts into URLs on
// the remote side, creating unpublished placeholders for targets that have
// not been synced yet.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/internal/markdown"
	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// externalPrefixes mark link targets that are never local artifacts and pass
// through untouched.
var externalPrefixes = []string{"http://", "https://", "mailto:", "data:", "#"}

// stubBody is the inert content given to placeholder objects. The next sync
// run of the target artifact replaces it wholesale.
const stubBody = "<p><em>This content has not been published yet.</em></p>"

// IsExternal reports whether the target should bypass resolution entirely.
func IsExternal(target string) bool {
	for _, prefix := range externalPrefixes {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// IsArtifact reports whether the target names a syncable course artifact, as
// opposed to a plain binary attachment.
func IsArtifact(target string) bool {
	switch strings.ToLower(filepath.Ext(stripAnchor(target))) {
	case ".md", ".qmd", ".json":
		return true
	}
	return false
}

func stripAnchor(target string) string {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i]
	}
	return target
}

// Resolver turns artifact-relative links into remote URLs. Targets without a
// known mapping are looked up by title; targets absent on the remote side get
// an unpublished stub created just in time, so forward references in course
// content always land somewhere.
type Resolver struct {
	client interfaces.CourseClient
	store  *syncmap.Store
	logger interfaces.Logger
}

// NewResolver wires a resolver against the remote client and the sync map.
func NewResolver(client interfaces.CourseClient, store *syncmap.Store, logger interfaces.Logger) *Resolver {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{client: client, store: store, logger: logger}
}

// Resolve maps the link target, relative to the linking artifact, onto a
// remote URL. The returned URL is empty only when err is non-nil.
func (r *Resolver) Resolve(ctx context.Context, sourcePath, target string) (string, error) {
	cleaned := stripAnchor(target)
	abs := cleaned
	if !filepath.IsAbs(cleaned) {
		abs = filepath.Join(filepath.Dir(sourcePath), cleaned)
	}

	key, err := r.store.Rel(abs)
	if err != nil {
		return "", fmt.Errorf("crossref: locate %s: %w", target, err)
	}
	if record, ok := r.store.Get(key); ok && record.URL != "" {
		return record.URL, nil
	}

	title, objType, err := targetIdentity(abs)
	if err != nil {
		return "", fmt.Errorf("crossref: inspect %s: %w", key, err)
	}

	if obj := r.findByTitle(ctx, objType, title); obj != nil {
		r.remember(key, obj)
		return obj.URL, nil
	}

	obj, err := r.createStub(ctx, objType, title)
	if err != nil {
		return "", fmt.Errorf("crossref: stub %q: %w", title, err)
	}
	r.logger.Info("created placeholder for forward reference",
		"title", title, "object_type", string(objType), "remote_id", obj.ID)
	r.remember(key, obj)
	return obj.URL, nil
}

// remember records the mapping with a zero fingerprint so the target's own
// sync pass still sees it as out of date.
func (r *Resolver) remember(key string, obj *interfaces.RemoteObject) {
	if record, ok := r.store.Get(key); ok {
		record.ID = obj.ID
		record.URL = obj.URL
		if err := r.store.Put(key, record); err != nil {
			r.logger.Warn("sync map write failed", "artifact_path", key, "error", err)
		}
		return
	}
	if err := r.store.Put(key, syncmap.Record{ID: obj.ID, URL: obj.URL}); err != nil {
		r.logger.Warn("sync map write failed", "artifact_path", key, "error", err)
	}
}

func (r *Resolver) findByTitle(ctx context.Context, objType interfaces.ObjectType, title string) *interfaces.RemoteObject {
	matches, err := r.client.ListObjects(ctx, objType, interfaces.ObjectFilter{SearchTerm: title})
	if err != nil {
		r.logger.Warn("title lookup failed", "title", title, "error", err)
		return nil
	}
	for _, obj := range matches {
		if obj.Title == title {
			return obj
		}
	}
	return nil
}

func (r *Resolver) createStub(ctx context.Context, objType interfaces.ObjectType, title string) (*interfaces.RemoteObject, error) {
	fields := interfaces.ObjectFields{
		"title":     title,
		"body":      stubBody,
		"published": false,
	}
	return r.client.CreateObject(ctx, objType, fields)
}

// targetIdentity derives the remote title and object type of a link target
// from the artifact on disk. Quiz documents stored as JSON take their title
// from the document itself when present.
func targetIdentity(path string) (string, interfaces.ObjectType, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		title, err := jsonTitle(path)
		if err != nil {
			return "", "", err
		}
		return title, interfaces.ObjectQuiz, nil
	}

	doc, err := markdown.LoadDocument(path)
	if err != nil {
		return "", "", err
	}

	objType := interfaces.ObjectPage
	switch doc.Meta.Type {
	case "assignment":
		objType = interfaces.ObjectAssignment
	case "quiz":
		objType = interfaces.ObjectQuiz
	}
	return doc.Title, objType, nil
}

func jsonTitle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Title != "" {
		return doc.Title, nil
	}
	return markdown.TitleFromFilename(path), nil
}
