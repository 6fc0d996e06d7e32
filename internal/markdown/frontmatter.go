// Package markdown loads course artifacts from disk and provides renderer
// implementations that turn their bodies into HTML fragments.
package markdown

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// ParseFrontMatter extracts the metadata block and body content from the
// provided source bytes. It returns the artifact title, the sync metadata
// table, and the remaining body.
func ParseFrontMatter(source []byte) (string, interfaces.SyncMeta, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return "", interfaces.SyncMeta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta.Title, meta.Sync, body, nil
}

// LoadDocument reads a course artifact, splitting frontmatter from body and
// recording the modification time used for change detection. The artifact
// title falls back to the file name stem when the frontmatter omits it.
func LoadDocument(path string) (*interfaces.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: stat %s: %w", path, err)
	}
	return BuildDocument(path, data, info.ModTime())
}

// BuildDocument assembles a Document from raw content and modification time.
// BodyHTML is intentionally left empty so callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	title, meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = meta.Title
	}
	if title == "" {
		title = TitleFromFilename(path)
	}

	return &interfaces.Document{
		FilePath:     path,
		Title:        title,
		Meta:         meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// TitleFromFilename derives a display title from an ordering-prefixed file
// name: "03_Getting_Started.md" becomes "Getting Started".
func TitleFromFilename(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.SplitN(stem, "_", 2)
	if len(parts) == 2 && isDigits(parts[0]) {
		stem = parts[1]
	}
	return strings.ReplaceAll(stem, "_", " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type frontMatterEnvelope struct {
	Title string              `yaml:"title"`
	Sync  interfaces.SyncMeta `yaml:"sync"`
}
