// Package coursesync keeps a local tree of course artifacts (markdown
// pages, assignments, quizzes, a calendar schedule, and the binaries they
// reference) mirrored onto a remote course. Artifacts carry their remote
// identity in a sync map next to the content, so repeated runs only touch
// what changed.
package coursesync

import (
	"context"

	"github.com/goliatone/go-coursesync/internal/course"
	"github.com/goliatone/go-coursesync/internal/courseapi"
	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/internal/logging/gologger"
	"github.com/goliatone/go-coursesync/internal/markdown"
	"github.com/goliatone/go-coursesync/internal/quiz"
	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// Outcome exports the per-artifact sync result.
type Outcome = course.Outcome

// Action exports the per-artifact sync action.
type Action = course.Action

// Record exports the stored identity mapping for one artifact.
type Record = syncmap.Record

const (
	ActionCreated = course.ActionCreated
	ActionUpdated = course.ActionUpdated
	ActionSkipped = course.ActionSkipped
	ActionFailed  = course.ActionFailed
)

// Module is the top level sync runtime: a configured store, remote client,
// renderer, and run driver bound to one course.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	store    *syncmap.Store
	runner   *course.Runner
}

// New wires a sync module from configuration. The sync map is loaded (or
// initialized) under cfg.ContentRoot; no remote call happens until Sync.
func New(cfg Config) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Focus:     cfg.Logging.Focus,
	})
	if err != nil {
		return nil, err
	}

	store, err := syncmap.Open(cfg.ContentRoot, logging.SyncMapLogger(provider))
	if err != nil {
		return nil, err
	}

	client := courseapi.New(courseapi.Config{
		BaseURL:  cfg.API.BaseURL,
		Token:    cfg.API.Token,
		CourseID: cfg.API.CourseID,
	}, logging.ModuleLogger(provider, "coursesync.api"))

	var renderer interfaces.Renderer
	if cfg.Render.Command != "" {
		renderer = markdown.NewExternalRenderer(cfg.Render.Command, cfg.Render.Args, logging.RenderLogger(provider))
	} else {
		renderer = markdown.NewGoldmarkRenderer()
	}

	runner := course.NewRunner(client, store, renderer, quiz.NewTransformer(cfg.Quiz.Seed), provider)

	return &Module{cfg: cfg, provider: provider, store: store, runner: runner}, nil
}

// Sync pushes the given artifacts to the remote course in order and sweeps
// orphaned assets afterwards. Failures are reported per artifact; one bad
// file never aborts the run.
func (m *Module) Sync(ctx context.Context, paths []string) []Outcome {
	return m.runner.Sync(ctx, paths)
}

// Store exposes the identity mapping for inspection.
func (m *Module) Store() *syncmap.Store {
	return m.store
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}
