package crossref

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
	"github.com/goliatone/go-coursesync/pkg/testsupport"
)

type resolverFixture struct {
	resolver *Resolver
	client   *testsupport.FakeCourseClient
	store    *syncmap.Store
	root     string
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	root := t.TempDir()
	store, err := syncmap.Open(root, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	client := testsupport.NewFakeCourseClient()
	return &resolverFixture{
		resolver: NewResolver(client, store, nil),
		client:   client,
		store:    store,
		root:     root,
	}
}

func (f *resolverFixture) writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestResolveUsesStoredMapping(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "02_Next.md", "next\n")
	if err := f.store.Put("02_Next.md", syncmap.Record{ID: "p9", URL: "https://remote.example/page/p9"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	url, err := f.resolver.Resolve(context.Background(), source, "02_Next.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url != "https://remote.example/page/p9" {
		t.Fatalf("url = %q", url)
	}
	if f.client.Writes() != 0 {
		t.Fatalf("mapped target must not touch the remote, got %d writes", f.client.Writes())
	}
}

func TestResolveFindsExistingByTitle(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "02_Recursion.md", "---\ntitle: Recursion\n---\nbody\n")
	f.client.SeedObject(&interfaces.RemoteObject{ID: "p4", Type: interfaces.ObjectPage, Title: "Recursion"})

	url, err := f.resolver.Resolve(context.Background(), source, "02_Recursion.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url != f.client.Objects["p4"].URL {
		t.Fatalf("url = %q", url)
	}
	if f.client.Creates != 0 {
		t.Fatalf("existing target must not spawn a stub")
	}

	record, ok := f.store.Get("02_Recursion.md")
	if !ok || record.ID != "p4" {
		t.Fatalf("mapping not remembered: %#v", record)
	}
}

func TestResolveCreatesUnpublishedStub(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "09_Future_Topic.md", "---\ntitle: Future Topic\n---\nlater\n")

	url, err := f.resolver.Resolve(context.Background(), source, "09_Future_Topic.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url == "" {
		t.Fatalf("stub must yield a URL")
	}
	if f.client.Creates != 1 {
		t.Fatalf("expected one stub create, got %d", f.client.Creates)
	}
	for _, obj := range f.client.Objects {
		if obj.Published {
			t.Fatalf("stub must stay unpublished: %#v", obj)
		}
	}

	record, ok := f.store.Get("09_Future_Topic.md")
	if !ok || record.MTime != 0 {
		t.Fatalf("stub mapping must carry a zero fingerprint so the real sync still updates it: %#v", record)
	}
}

func TestResolveAssignmentTypeFromFrontmatter(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "hw/03_Essay.md", "---\ntitle: Essay\nsync:\n  type: assignment\n---\nwrite\n")

	if _, err := f.resolver.Resolve(context.Background(), source, "hw/03_Essay.md"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var stub *interfaces.RemoteObject
	for _, obj := range f.client.Objects {
		stub = obj
	}
	if stub == nil || stub.Type != interfaces.ObjectAssignment {
		t.Fatalf("stub type = %#v", stub)
	}
}

func TestResolveQuizJSONTitle(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "05_Quiz.json", `{"title": "Midterm Review", "questions": []}`)

	if _, err := f.resolver.Resolve(context.Background(), source, "05_Quiz.json"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var stub *interfaces.RemoteObject
	for _, obj := range f.client.Objects {
		stub = obj
	}
	if stub == nil || stub.Type != interfaces.ObjectQuiz || stub.Title != "Midterm Review" {
		t.Fatalf("stub = %#v", stub)
	}
}

func TestIsExternal(t *testing.T) {
	for _, target := range []string{"https://example.edu", "http://x", "mailto:a@b.c", "#section", "data:image/png;base64,AAAA"} {
		if !IsExternal(target) {
			t.Errorf("IsExternal(%q) = false", target)
		}
	}
	for _, target := range []string{"lesson.md", "../img/x.png", "files/syllabus.pdf"} {
		if IsExternal(target) {
			t.Errorf("IsExternal(%q) = true", target)
		}
	}
}

func TestAnchorStrippedBeforeLookup(t *testing.T) {
	f := newResolverFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "intro\n")
	f.writeArtifact(t, "02_Next.md", "---\ntitle: Next\n---\nbody\n")
	f.client.SeedObject(&interfaces.RemoteObject{ID: "p1", Type: interfaces.ObjectPage, Title: "Next"})

	url, err := f.resolver.Resolve(context.Background(), source, "02_Next.md#details")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if url != f.client.Objects["p1"].URL {
		t.Fatalf("url = %q", url)
	}
}
