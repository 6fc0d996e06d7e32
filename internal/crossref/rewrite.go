package crossref

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/goliatone/go-coursesync/internal/assets"
	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// inlineRef matches markdown images and links in one pass. Group 1 holds the
// optional bang that distinguishes the two, group 2 the text, group 3 the
// target, group 4 an optional title suffix.
var inlineRef = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)((?:\s+"[^"]*")?)\)`)

// Rewriter replaces artifact-relative references in a markdown body with
// remote equivalents: images and plain attachments are uploaded through the
// asset cache, links to other artifacts go through the resolver. A reference
// that cannot be rewritten keeps its original text so one broken link never
// fails the artifact.
type Rewriter struct {
	resolver *Resolver
	cache    *assets.Cache
	logger   interfaces.Logger
}

// NewRewriter wires the rewriter against the resolver and asset cache.
func NewRewriter(resolver *Resolver, cache *assets.Cache, logger interfaces.Logger) *Rewriter {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Rewriter{resolver: resolver, cache: cache, logger: logger}
}

// Process rewrites every local reference in body. It returns the rewritten
// body together with the absolute paths of local binaries it touched, which
// callers fold into the artifact's change fingerprint.
func (w *Rewriter) Process(ctx context.Context, sourcePath string, body []byte) ([]byte, []string) {
	var refs []string

	out := inlineRef.ReplaceAllFunc(body, func(match []byte) []byte {
		groups := inlineRef.FindSubmatch(match)
		bang, text, target, suffix := groups[1], groups[2], string(groups[3]), groups[4]

		if IsExternal(target) {
			return match
		}

		if len(bang) > 0 {
			url, path, err := w.uploadLocal(ctx, sourcePath, target, assets.NamespaceImages)
			if err != nil {
				w.logger.Warn("image upload failed, keeping original reference",
					"artifact_path", sourcePath, "target", target, "error", err)
				return match
			}
			refs = append(refs, path)
			return rebuild(bang, text, url, suffix)
		}

		if IsArtifact(target) {
			url, err := w.resolver.Resolve(ctx, sourcePath, target)
			if err != nil {
				w.logger.Warn("cross reference unresolved, keeping original link",
					"artifact_path", sourcePath, "target", target, "error", err)
				return match
			}
			return rebuild(bang, text, url, suffix)
		}

		url, path, err := w.uploadLocal(ctx, sourcePath, target, assets.NamespaceFiles)
		if err != nil {
			w.logger.Warn("attachment upload failed, keeping original link",
				"artifact_path", sourcePath, "target", target, "error", err)
			return match
		}
		refs = append(refs, path)
		return rebuild(bang, text, url, suffix)
	})

	return out, refs
}

// LocalRefs lists the local binaries a body references without rewriting it,
// for fingerprinting an artifact ahead of any remote traffic.
func (w *Rewriter) LocalRefs(sourcePath string, body []byte) []string {
	var refs []string
	for _, groups := range inlineRef.FindAllSubmatch(body, -1) {
		target := string(groups[3])
		if IsExternal(target) || IsArtifact(target) {
			continue
		}
		abs := target
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(filepath.Dir(sourcePath), abs)
		}
		if _, err := os.Stat(abs); err == nil {
			refs = append(refs, abs)
		}
	}
	return refs
}

func (w *Rewriter) uploadLocal(ctx context.Context, sourcePath, target, namespace string) (string, string, error) {
	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(filepath.Dir(sourcePath), abs)
	}
	url, _, err := w.cache.Upload(ctx, abs, namespace)
	if err != nil {
		return "", "", err
	}
	return url, abs, nil
}

func rebuild(bang, text []byte, url string, suffix []byte) []byte {
	out := make([]byte, 0, len(bang)+len(text)+len(url)+len(suffix)+4)
	out = append(out, bang...)
	out = append(out, '[')
	out = append(out, text...)
	out = append(out, ']', '(')
	out = append(out, url...)
	out = append(out, suffix...)
	out = append(out, ')')
	return out
}
