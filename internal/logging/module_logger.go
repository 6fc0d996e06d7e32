package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-coursesync/pkg/interfaces"
)

const (
	rootModule     = "coursesync"
	engineModule   = "coursesync.engine"
	assetsModule   = "coursesync.assets"
	crossrefModule = "coursesync.crossref"
	renderModule   = "coursesync.render"
	runnerModule   = "coursesync.runner"
	syncmapModule  = "coursesync.syncmap"
)

const (
	fieldArtifactPath = "artifact_path"
	fieldObjectType   = "object_type"
	fieldSyncAction   = "sync_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// EngineLogger returns the logger namespace reserved for change detection.
func EngineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, engineModule)
}

// AssetsLogger returns the logger namespace reserved for the asset cache and
// orphan collector.
func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

// CrossrefLogger returns the logger namespace reserved for reference
// resolution.
func CrossrefLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, crossrefModule)
}

// RenderLogger returns the logger namespace reserved for renderer adapters.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// RunnerLogger returns the logger namespace reserved for the sync run driver.
func RunnerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, runnerModule)
}

// SyncMapLogger returns the logger namespace reserved for the sync map store.
func SyncMapLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, syncmapModule)
}

// WithArtifactContext enriches the provided logger with common sync fields
// such as the artifact path, object type, and sync action. Empty values are
// ignored.
func WithArtifactContext(logger interfaces.Logger, path, objectType, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldArtifactPath] = trimmed
	}
	if trimmed := strings.TrimSpace(objectType); trimmed != "" {
		fields[fieldObjectType] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldSyncAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so components can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
