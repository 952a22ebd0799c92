package litefs

import (
	"sync"

	"github.com/absfs/absfs"
)

// WorkerID identifies a FUSE host's dispatch worker. Go has no portable
// goroutine-local storage, so unlike the original's thread-local façade,
// the host binding is responsible for handing back a stable WorkerID
// (typically its own worker-pool slot index or goroutine-pinned handle)
// on every call; ThreadCache keys its lazily-built façades by that ID.
type WorkerID uint64

// ThreadCache implements §4.J: it lazily constructs one Facade per
// worker, reusing the mount's immutable parameters, and tears a façade
// down explicitly via Close rather than relying on thread-exit, since Go
// has no destructor hook equivalent to the source's thread-local dtor.
type ThreadCache struct {
	mu       sync.Mutex
	host     absfs.FileSystem
	cfg      FSConfig
	facades  map[WorkerID]*Facade
}

// NewThreadCache binds a cache to the mount's root host filesystem and
// parameters; no façade is built until the first GetOrCreate.
func NewThreadCache(host absfs.FileSystem, cfg FSConfig) *ThreadCache {
	return &ThreadCache{
		host:    host,
		cfg:     cfg,
		facades: make(map[WorkerID]*Facade),
	}
}

// GetOrCreate returns the façade for id, constructing and caching one on
// first use.
func (tc *ThreadCache) GetOrCreate(id WorkerID) (*Facade, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if fa, ok := tc.facades[id]; ok {
		return fa, nil
	}
	fa, err := New(tc.host, tc.cfg)
	if err != nil {
		return nil, err
	}
	tc.facades[id] = fa
	return fa, nil
}

// Close tears down the façade for id, called when the host reports that
// worker has exited.
func (tc *ThreadCache) Close(id WorkerID) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.facades, id)
}

// CloseAll tears down every cached façade, called at mount shutdown.
func (tc *ThreadCache) CloseAll() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.facades = make(map[WorkerID]*Facade)
}

// Len reports the number of currently cached façades, mainly for tests.
func (tc *ThreadCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.facades)
}
