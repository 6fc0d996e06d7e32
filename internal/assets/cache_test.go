package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/internal/syncstate"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
	"github.com/goliatone/go-coursesync/pkg/testsupport"
)

type fixture struct {
	cache  *Cache
	client *testsupport.FakeCourseClient
	state  *syncstate.State
	store  *syncmap.Store
	root   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	store, err := syncmap.Open(root, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	client := testsupport.NewFakeCourseClient()
	state := syncstate.New()
	return &fixture{
		cache:  NewCache(client, store, state, nil),
		client: client,
		state:  state,
		store:  store,
		root:   root,
	}
}

func (f *fixture) writeAsset(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	if err := os.WriteFile(path, []byte("binary"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

func TestUploadCreatesFolderAndRecord(t *testing.T) {
	f := newFixture(t)
	asset := f.writeAsset(t, "diagram.png")

	url, id, err := f.cache.Upload(context.Background(), asset, NamespaceImages)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url == "" || id == "" {
		t.Fatalf("expected url and id, got %q %q", url, id)
	}
	if f.client.Uploads != 1 {
		t.Fatalf("expected one upload, got %d", f.client.Uploads)
	}
	if !f.state.Active(id) {
		t.Fatalf("uploaded asset must be marked active")
	}

	record, ok := f.store.Get("diagram.png")
	if !ok || record.URL != url || record.ID != id {
		t.Fatalf("record not stored: %#v", record)
	}
}

func TestUploadReusesCachedRecordWithoutNetwork(t *testing.T) {
	f := newFixture(t)
	asset := f.writeAsset(t, "diagram.png")

	if _, _, err := f.cache.Upload(context.Background(), asset, NamespaceImages); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	uploads := f.client.Uploads

	url, id, err := f.cache.Upload(context.Background(), asset, NamespaceImages)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if f.client.Uploads != uploads {
		t.Fatalf("unchanged asset must not re-upload")
	}
	if url == "" || !f.state.Active(id) {
		t.Fatalf("cached hit must still return url and mark the asset active")
	}
}

func TestUploadAgainAfterModification(t *testing.T) {
	f := newFixture(t)
	asset := f.writeAsset(t, "diagram.png")

	if _, _, err := f.cache.Upload(context.Background(), asset, NamespaceImages); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(asset, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, _, err := f.cache.Upload(context.Background(), asset, NamespaceImages); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if f.client.Uploads != 2 {
		t.Fatalf("modified asset must re-upload, got %d uploads", f.client.Uploads)
	}
}

func TestFolderListingFetchedOncePerRun(t *testing.T) {
	f := newFixture(t)
	f.client.SeedFolder(&interfaces.RemoteFolder{ID: "f1", Name: NamespaceImages})
	first := f.writeAsset(t, "a.png")
	second := f.writeAsset(t, "b.png")

	if _, _, err := f.cache.Upload(context.Background(), first, NamespaceImages); err != nil {
		t.Fatalf("upload a: %v", err)
	}
	if _, _, err := f.cache.Upload(context.Background(), second, NamespaceFiles); err != nil {
		t.Fatalf("upload b: %v", err)
	}

	// NamespaceImages came from the listing; only NamespaceFiles required a
	// create after the single refresh.
	if f.client.Creates != 1 {
		t.Fatalf("expected exactly one folder create, got %d", f.client.Creates)
	}
}

func TestSweepDeletesOnlyInactiveManagedFiles(t *testing.T) {
	f := newFixture(t)
	f.client.SeedFolder(&interfaces.RemoteFolder{ID: "imgs", Name: NamespaceImages})
	f.client.SeedFolder(&interfaces.RemoteFolder{ID: "files", Name: NamespaceFiles})
	f.client.SeedFile("imgs", &interfaces.RemoteFile{ID: "live", Name: "live.png"})
	f.client.SeedFile("imgs", &interfaces.RemoteFile{ID: "stale", Name: "stale.png"})
	f.client.SeedFile("files", &interfaces.RemoteFile{ID: "old", Name: "old.pdf"})

	f.state.MarkActive("live")

	deleted := f.cache.Sweep(context.Background())
	if deleted != 2 {
		t.Fatalf("expected two orphans deleted, got %d", deleted)
	}

	remaining, _ := f.client.ListFolderContents(context.Background(), "imgs")
	if len(remaining) != 1 || remaining[0].ID != "live" {
		t.Fatalf("active asset must survive the sweep: %#v", remaining)
	}
}

func TestSweepContinuesPastDeleteFailures(t *testing.T) {
	f := newFixture(t)
	f.client.SeedFolder(&interfaces.RemoteFolder{ID: "imgs", Name: NamespaceImages})
	f.client.SeedFolder(&interfaces.RemoteFolder{ID: "files", Name: NamespaceFiles})
	f.client.SeedFile("imgs", &interfaces.RemoteFile{ID: "locked", Name: "locked.png"})
	f.client.SeedFile("files", &interfaces.RemoteFile{ID: "orphan", Name: "orphan.pdf"})
	f.client.FailDeletes["locked"] = true

	deleted := f.cache.Sweep(context.Background())
	if deleted != 1 {
		t.Fatalf("sweep should delete the remaining orphan, got %d", deleted)
	}
}
