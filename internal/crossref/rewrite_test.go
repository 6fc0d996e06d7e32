package crossref

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-coursesync/internal/assets"
	"github.com/goliatone/go-coursesync/internal/syncstate"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

type rewriteFixture struct {
	*resolverFixture
	rewriter *Rewriter
	state    *syncstate.State
}

func newRewriteFixture(t *testing.T) *rewriteFixture {
	t.Helper()
	rf := newResolverFixture(t)
	state := syncstate.New()
	cache := assets.NewCache(rf.client, rf.store, state, nil)
	return &rewriteFixture{
		resolverFixture: rf,
		rewriter:        NewRewriter(rf.resolver, cache, nil),
		state:           state,
	}
}

func TestProcessRewritesImageAndTracksRef(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "img/diagram.png", "binary")

	body := []byte("See ![the diagram](img/diagram.png) for details.")
	out, refs := f.rewriter.Process(context.Background(), source, body)

	if !strings.Contains(string(out), "![the diagram](https://remote.example/files/") {
		t.Fatalf("image not rewritten: %s", out)
	}
	if len(refs) != 1 || !strings.HasSuffix(refs[0], "img/diagram.png") {
		t.Fatalf("refs = %#v", refs)
	}
	if f.client.Uploads != 1 {
		t.Fatalf("uploads = %d", f.client.Uploads)
	}
}

func TestProcessRewritesArtifactLink(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "02_Next.md", "---\ntitle: Next\n---\nbody\n")
	f.client.SeedObject(&interfaces.RemoteObject{ID: "p1", Type: interfaces.ObjectPage, Title: "Next"})

	out, refs := f.rewriter.Process(context.Background(), source, []byte("Go to [the next lesson](02_Next.md)."))
	if !strings.Contains(string(out), "(https://remote.example/page/p1)") {
		t.Fatalf("link not rewritten: %s", out)
	}
	if len(refs) != 0 {
		t.Fatalf("artifact links are not binary refs: %#v", refs)
	}
}

func TestProcessUploadsAttachment(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "files/syllabus.pdf", "pdf")

	out, refs := f.rewriter.Process(context.Background(), source, []byte("Read the [syllabus](files/syllabus.pdf)."))
	if !strings.Contains(string(out), "[syllabus](https://remote.example/files/") {
		t.Fatalf("attachment not rewritten: %s", out)
	}
	if len(refs) != 1 {
		t.Fatalf("refs = %#v", refs)
	}
}

func TestProcessLeavesExternalLinksAlone(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")

	body := []byte(`[docs](https://example.edu/docs) and ![logo](data:image/png;base64,AAAA) and [top](#top)`)
	out, refs := f.rewriter.Process(context.Background(), source, body)
	if string(out) != string(body) {
		t.Fatalf("external references must pass through: %s", out)
	}
	if len(refs) != 0 || f.client.Writes() != 0 {
		t.Fatalf("no remote traffic expected")
	}
}

func TestProcessKeepsOriginalOnFailure(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "img/broken.png", "binary")
	f.client.FailUploads["broken.png"] = true

	body := []byte("![broken](img/broken.png) but also ![ok](img/ok.png)")
	f.writeArtifact(t, "img/ok.png", "binary")

	out, _ := f.rewriter.Process(context.Background(), source, body)
	if !strings.Contains(string(out), "(img/broken.png)") {
		t.Fatalf("failed reference must keep original text: %s", out)
	}
	if !strings.Contains(string(out), "![ok](https://remote.example/files/") {
		t.Fatalf("other references must still rewrite: %s", out)
	}
}

func TestProcessPreservesLinkTitleSuffix(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "img/pic.png", "binary")

	out, _ := f.rewriter.Process(context.Background(), source, []byte(`![pic](img/pic.png "A caption")`))
	if !strings.Contains(string(out), `"A caption")`) {
		t.Fatalf("title suffix lost: %s", out)
	}
}

func TestLocalRefsListsOnlyBinaries(t *testing.T) {
	f := newRewriteFixture(t)
	source := f.writeArtifact(t, "01_Intro.md", "x")
	f.writeArtifact(t, "img/pic.png", "binary")
	f.writeArtifact(t, "02_Next.md", "next")

	body := []byte("![p](img/pic.png) [n](02_Next.md) [ext](https://example.edu) [gone](img/missing.png)")
	refs := f.rewriter.LocalRefs(source, body)
	if len(refs) != 1 || !strings.HasSuffix(refs[0], "img/pic.png") {
		t.Fatalf("refs = %#v", refs)
	}
}
