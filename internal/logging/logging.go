package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-featuredocs/pkg/interfaces"
)

const (
	rootModule     = "featuredocs"
	rendererModule = "featuredocs.renderer"
	gherkinModule  = "featuredocs.gherkin"
	siteModule     = "featuredocs.site"
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

// PluginLogger returns the logger namespace reserved for the plugin hooks.
func PluginLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// RendererLogger returns the logger namespace reserved for feature rendering.
func RendererLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rendererModule)
}

// GherkinLogger returns the logger namespace reserved for the parser runner.
func GherkinLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, gherkinModule)
}

// SiteLogger returns the logger namespace reserved for the host site harness.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
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
