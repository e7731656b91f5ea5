// Package observability provides hooks for conversion metrics and logging.
//
// The conversion packages stay free of any logging or metrics backend.
// They emit events through hooks; the binary registers implementations at
// startup and everything else sees the no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConvertHooks(&myConvertHooks{})
//	    observability.SetFileHooks(&myFileHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Convert().OnConvertStart(ctx, "yarn.lock", "package-lock.json", dir)
//	// ... convert ...
//	observability.Convert().OnConvertComplete(ctx, dir, entries, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Convert Hooks
// =============================================================================

// ConvertHooks receives events from lockfile conversions.
type ConvertHooks interface {
	// OnConvertStart marks the start of a conversion of the project in dir.
	OnConvertStart(ctx context.Context, from, to, dir string)

	// OnConvertComplete marks its end; entries counts the records written.
	OnConvertComplete(ctx context.Context, dir string, entries int, duration time.Duration, err error)

	// OnBundledSkip reports an installed package left out of the output
	// because the source lockfile does not know it.
	OnBundledSkip(ctx context.Context, dir, pkg string)
}

// =============================================================================
// File Hooks
// =============================================================================

// FileHooks receives events from lockfile reads and writes.
type FileHooks interface {
	// OnRead records a lockfile or installed tree being loaded.
	OnRead(ctx context.Context, path string, entries int, duration time.Duration)

	// OnWrite records a lockfile being written.
	OnWrite(ctx context.Context, path string, entries int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnConvertStart(context.Context, string, string, string) {}
func (NoopConvertHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopConvertHooks) OnBundledSkip(context.Context, string, string) {}

// NoopFileHooks is a no-op implementation of FileHooks.
type NoopFileHooks struct{}

func (NoopFileHooks) OnRead(context.Context, string, int, time.Duration) {}
func (NoopFileHooks) OnWrite(context.Context, string, int)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	convertHooks ConvertHooks = NoopConvertHooks{}
	fileHooks    FileHooks    = NoopFileHooks{}
	hooksMu      sync.RWMutex
)

// SetConvertHooks registers custom conversion hooks.
// This should be called once at application startup before any conversion.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetFileHooks registers custom file hooks.
func SetFileHooks(h FileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fileHooks = h
	}
}

// Convert returns the registered conversion hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// File returns the registered file hooks.
func File() FileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fileHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	convertHooks = NoopConvertHooks{}
	fileHooks = NoopFileHooks{}
}
