package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cargo-ebuild/pkg/observability"
)

// logHooks reports pipeline, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installLogHooks registers logHooks for all event kinds.
func installLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnResolveStart(_ context.Context, resolver, manifest string) {
	h.logger.Debug("resolve started", "resolver", resolver, "manifest", manifest)
}

func (h *logHooks) OnResolveComplete(_ context.Context, resolver string, packageCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolve failed", "resolver", resolver, "duration", duration, "error", err)
		return
	}
	h.logger.Debug("resolve finished", "resolver", resolver, "packages", packageCount, "duration", duration)
}

func (h *logHooks) OnClassify(_ context.Context, crateCount, warningCount int) {
	h.logger.Debug("classified", "crates", crateCount, "warnings", warningCount)
}

func (h *logHooks) OnRenderStart(_ context.Context, path string) {
	h.logger.Debug("render started", "path", path)
}

func (h *logHooks) OnRenderComplete(_ context.Context, path string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "path", path, "error", err)
		return
	}
	h.logger.Debug("render finished", "path", path, "duration", duration)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", statusCode, "duration", duration)
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
