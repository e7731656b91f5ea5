package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports conversion events to the CLI logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnConvertStart(_ context.Context, from, to, dir string) {
	h.logger.Debug("converting", "from", from, "to", to, "dir", dir)
}

func (h *logHooks) OnConvertComplete(_ context.Context, dir string, entries int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion failed", "dir", dir, "err", err)
		return
	}
	h.logger.Debug("converted", "dir", dir, "entries", entries, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnBundledSkip(_ context.Context, dir, pkg string) {
	h.logger.Debug("skipping bundled dependency", "dir", dir, "package", pkg)
}

func (h *logHooks) OnRead(_ context.Context, path string, entries int, d time.Duration) {
	h.logger.Debug("read", "path", path, "entries", entries, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnWrite(_ context.Context, path string, entries int) {
	h.logger.Debug("wrote", "path", path, "entries", entries)
}
