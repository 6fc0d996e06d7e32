// Package course drives a full sync run: it classifies each discovered
// artifact, hands it to the matching handler, isolates per-artifact
// failures, and finishes with the orphan sweep.
package course

import (
	"context"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-coursesync/internal/assets"
	"github.com/goliatone/go-coursesync/internal/crossref"
	"github.com/goliatone/go-coursesync/internal/logging"
	"github.com/goliatone/go-coursesync/internal/markdown"
	"github.com/goliatone/go-coursesync/internal/quiz"
	"github.com/goliatone/go-coursesync/internal/syncengine"
	"github.com/goliatone/go-coursesync/internal/syncmap"
	"github.com/goliatone/go-coursesync/internal/syncstate"
	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

// CategoryArtifact marks failures scoped to a single artifact. The run logs
// them and moves on to the next artifact.
var CategoryArtifact = goerrors.Category("sync_artifact")

// Client is the full remote capability surface a run needs.
type Client interface {
	interfaces.CourseClient
	interfaces.QuizItemClient
}

// Action summarizes what a run did with one artifact.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionSkipped Action = "skipped"
	ActionFailed  Action = "failed"
)

// Outcome is the per-artifact result reported to the caller. A full run
// always attempts every artifact; failures appear here instead of aborting
// the run.
type Outcome struct {
	Path   string
	Action Action
	Err    error
}

// Runner owns the long-lived collaborators of a sync run. Per-run mutable
// state (active asset set, folder index) is created fresh inside Sync so
// consecutive runs never leak marks into each other.
type Runner struct {
	client         Client
	store          *syncmap.Store
	engine         *syncengine.Engine
	renderer       interfaces.Renderer
	transformer    *quiz.Transformer
	logger         interfaces.Logger
	assetsLogger   interfaces.Logger
	crossrefLogger interfaces.Logger
}

// NewRunner wires a runner over the remote client, the sync map store, and
// the renderer that turns markdown bodies into HTML fragments. Each
// collaborator logs under its own namespace; a nil provider silences all of
// them.
func NewRunner(client Client, store *syncmap.Store, renderer interfaces.Renderer, transformer *quiz.Transformer, provider interfaces.LoggerProvider) *Runner {
	return &Runner{
		client:         client,
		store:          store,
		engine:         syncengine.New(client, store, logging.EngineLogger(provider)),
		renderer:       renderer,
		transformer:    transformer,
		logger:         logging.RunnerLogger(provider),
		assetsLogger:   logging.AssetsLogger(provider),
		crossrefLogger: logging.CrossrefLogger(provider),
	}
}

// run bundles the state that lives exactly as long as one Sync call.
type run struct {
	state    *syncstate.State
	cache    *assets.Cache
	rewriter *crossref.Rewriter
}

func (r *Runner) newRun() *run {
	state := syncstate.New()
	cache := assets.NewCache(r.client, r.store, state, r.assetsLogger)
	resolver := crossref.NewResolver(r.client, r.store, r.crossrefLogger)
	return &run{
		state:    state,
		cache:    cache,
		rewriter: crossref.NewRewriter(resolver, cache, r.crossrefLogger),
	}
}

// Sync processes every artifact in order, fully resolving one before the
// next begins, then collects orphaned assets. It returns one outcome per
// artifact plus one per calendar schedule.
func (r *Runner) Sync(ctx context.Context, paths []string) []Outcome {
	rn := r.newRun()
	outcomes := make([]Outcome, 0, len(paths))

	for _, path := range paths {
		action, err := r.syncOne(ctx, rn, path)
		if err != nil {
			err = goerrors.Wrap(err, CategoryArtifact, "artifact sync failed").
				WithTextCode("SYNC_ARTIFACT_FAILED")
			logging.WithArtifactContext(r.logger, path, "", string(ActionFailed)).
				Warn("artifact failed, continuing with next", "error", err)
			outcomes = append(outcomes, Outcome{Path: path, Action: ActionFailed, Err: err})
			continue
		}
		logging.WithArtifactContext(r.logger, path, "", string(action)).
			Info("artifact processed")
		outcomes = append(outcomes, Outcome{Path: path, Action: action})
	}

	deleted := rn.cache.Sweep(ctx)
	if deleted > 0 {
		r.logger.Info("orphan sweep removed assets", "deleted", deleted)
	}
	return outcomes
}

func (r *Runner) syncOne(ctx context.Context, rn *run, path string) (Action, error) {
	switch {
	case quiz.IsJSONQuiz(path):
		return r.syncQuiz(ctx, rn, path)
	case isSchedule(path):
		return r.syncCalendar(ctx, path)
	}

	doc, err := markdown.LoadDocument(path)
	if err != nil {
		return ActionFailed, err
	}

	switch doc.Meta.Type {
	case "quiz", "new_quiz":
		return r.syncQuiz(ctx, rn, path)
	case "assignment":
		return r.syncAssignment(ctx, rn, path, doc)
	default:
		return r.syncPage(ctx, rn, path, doc)
	}
}

func isSchedule(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return base == "schedule.yaml" || base == "schedule.yml"
}
