// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about store mutations, snapshot
// persistence, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps the engine packages dependency-free from observability
// frameworks and avoids import cycles: hooks are registered by main, not
// by libraries.
//
// # Usage
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the configurator state store.
type StoreHooks interface {
	// OnCommit records a successfully committed mutation.
	OnCommit(op string, duration time.Duration)

	// OnReject records a rejected mutation and its error code.
	OnReject(op string, code string)

	// OnNotify records a subscriber fan-out after a commit.
	OnNotify(op string, subscribers int)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from persisted-snapshot stores.
type StorageHooks interface {
	// OnSave records a snapshot write.
	OnSave(ctx context.Context, backend, project string, err error)

	// OnLoad records a snapshot read.
	OnLoad(ctx context.Context, backend, project string, err error)

	// OnDelete records a snapshot removal.
	OnDelete(ctx context.Context, backend, project string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the JSON API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnCommit(string, time.Duration) {}
func (NoopStoreHooks) OnReject(string, string)        {}
func (NoopStoreHooks) OnNotify(string, int)           {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnSave(context.Context, string, string, error)   {}
func (NoopStorageHooks) OnLoad(context.Context, string, string, error)   {}
func (NoopStorageHooks) OnDelete(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	storeHooks   StoreHooks   = NoopStoreHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any mutations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any snapshot I/O.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	storeHooks = NoopStoreHooks{}
	storageHooks = NoopStorageHooks{}
	httpHooks = NoopHTTPHooks{}
}
