package markdown

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goliatone/go-coursesync/internal/fsutil"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

var mainFragment = regexp.MustCompile(`(?s)<main[^>]*>(.*)</main>`)

// ExternalRenderer shells out to a document processor (quarto, pandoc) that
// reads a markdown file and writes a standalone HTML page next to it. The
// fragment between <main> tags is returned; the page and any sidecar
// directory the tool produced are removed afterwards.
type ExternalRenderer struct {
	command string
	args    []string
	logger  interfaces.Logger
}

// NewExternalRenderer configures the renderer with the processor command and
// any leading arguments. The input path is appended as the final argument.
func NewExternalRenderer(command string, args []string, logger interfaces.Logger) *ExternalRenderer {
	return &ExternalRenderer{command: command, args: args, logger: logger}
}

// Render writes the source into a scratch file, runs the external processor,
// and extracts the main content fragment from the produced page.
func (r *ExternalRenderer) Render(ctx context.Context, source []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "coursesync-render-*")
	if err != nil {
		return nil, fmt.Errorf("external render: scratch dir: %w", err)
	}
	defer func() {
		if rmErr := fsutil.RemoveDir(dir); rmErr != nil && r.logger != nil {
			r.logger.Warn("scratch cleanup failed", "error", rmErr)
		}
	}()

	input := filepath.Join(dir, "input.md")
	if err := os.WriteFile(input, source, 0o644); err != nil {
		return nil, fmt.Errorf("external render: write input: %w", err)
	}

	args := append(append([]string{}, r.args...), input)
	cmd := exec.CommandContext(ctx, r.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("external render: %s: %w: %s", r.command, err, strings.TrimSpace(string(out)))
	}

	page, err := os.ReadFile(filepath.Join(dir, "input.html"))
	if err != nil {
		return nil, fmt.Errorf("external render: read output: %w", err)
	}

	if match := mainFragment.FindSubmatch(page); match != nil {
		return match[1], nil
	}
	return page, nil
}
