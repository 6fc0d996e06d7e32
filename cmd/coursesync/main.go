package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	coursesync "github.com/goliatone/go-coursesync"
)

// Artifacts live in numbered module directories (01_Intro/, 02_Basics/) or
// as numbered files at the content root; everything else is scratch space.
var modulePattern = regexp.MustCompile(`^\d{2}_`)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	contentRoot   string
	courseID      string
	renderCommand string
	renderArgs    []string
	logLevel      string
	logFormat     string
	syncCalendar  bool
	seed          int64
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "coursesync",
		Short: "Push local course content to the remote course",
		Long: `coursesync mirrors a local tree of markdown pages, assignments,
quizzes, and referenced binaries onto a remote course. Remote identities are
tracked in a sync map next to the content, so unchanged artifacts are
skipped and orphaned uploads are collected after every run.

The API endpoint and token come from the COURSESYNC_API_URL and
COURSESYNC_API_TOKEN environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.contentRoot, "content-root", "C", ".", "course content directory")
	cmd.Flags().StringVar(&opts.courseID, "course-id", "", "remote course ID (defaults to course_id.txt in the content root)")
	cmd.Flags().StringVar(&opts.renderCommand, "render-command", "", "external renderer command (built-in renderer when empty)")
	cmd.Flags().StringSliceVar(&opts.renderArgs, "render-arg", nil, "extra argument for the external renderer (repeatable)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "console", "log format (console, json, pretty)")
	cmd.Flags().BoolVar(&opts.syncCalendar, "sync-calendar", false, "also sync schedule.yaml as calendar events")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "seed for formula question solution sampling")

	return cmd
}

func runSync(ctx context.Context, opts *options, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	courseID, err := resolveCourseID(opts)
	if err != nil {
		return err
	}

	cfg := coursesync.DefaultConfig()
	cfg.ContentRoot = opts.contentRoot
	cfg.API = coursesync.APIConfig{
		BaseURL:  os.Getenv("COURSESYNC_API_URL"),
		Token:    os.Getenv("COURSESYNC_API_TOKEN"),
		CourseID: courseID,
	}
	cfg.Render.Command = opts.renderCommand
	cfg.Render.Args = opts.renderArgs
	cfg.Quiz.Seed = opts.seed
	cfg.Logging.Level = opts.logLevel
	cfg.Logging.Format = opts.logFormat

	module, err := coursesync.New(cfg)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths, err = collectArtifacts(opts.contentRoot, opts.syncCalendar)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no artifacts found under %s", opts.contentRoot)
	}

	failed := 0
	for _, outcome := range module.Sync(ctx, paths) {
		rel, relErr := filepath.Rel(opts.contentRoot, outcome.Path)
		if relErr != nil {
			rel = outcome.Path
		}
		if outcome.Action == coursesync.ActionFailed {
			failed++
			fmt.Fprintf(os.Stderr, "%-8s %s: %v\n", outcome.Action, rel, outcome.Err)
			continue
		}
		fmt.Printf("%-8s %s\n", outcome.Action, rel)
	}
	if failed > 0 {
		return fmt.Errorf("%d artifact(s) failed", failed)
	}
	return nil
}

// resolveCourseID prefers the flag and falls back to course_id.txt in the
// content root.
func resolveCourseID(opts *options) (string, error) {
	if opts.courseID != "" {
		return opts.courseID, nil
	}
	data, err := os.ReadFile(filepath.Join(opts.contentRoot, "course_id.txt"))
	if err != nil {
		return "", fmt.Errorf("course ID not set: pass --course-id or create course_id.txt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// collectArtifacts walks the content root in lexical order: numbered files
// at the root, then the contents of each numbered module directory. The
// schedule is opt-in.
func collectArtifacts(root string, includeCalendar bool) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !modulePattern.MatchString(name) {
				continue
			}
			inner, err := collectModuleFiles(filepath.Join(root, name))
			if err != nil {
				return nil, err
			}
			paths = append(paths, inner...)
			continue
		}
		if modulePattern.MatchString(name) && isArtifactFile(name) {
			paths = append(paths, filepath.Join(root, name))
		}
	}

	if includeCalendar {
		schedule := filepath.Join(root, "schedule.yaml")
		if _, err := os.Stat(schedule); err == nil {
			paths = append(paths, schedule)
		}
	}
	return paths, nil
}

func collectModuleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isArtifactFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func isArtifactFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".qmd", ".json":
		return true
	}
	return false
}
