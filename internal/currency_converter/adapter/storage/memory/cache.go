package memory

import (
	"github.com/langowen/currency_converter/internal/entities"
	"github.com/pkg/errors"
	"sync"
)

// Cache holds the last published snapshot. Published snapshots are never
// mutated, so readers only need the lock long enough to read the pointer
// and index into it.
type Cache struct {
	mu       sync.RWMutex
	snapshot *entities.Snapshot
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace publishes snapshot, fully replacing the previous one.
func (c *Cache) Replace(snapshot *entities.Snapshot) error {
	const op = "storage.memory.Replace"

	if snapshot == nil || len(snapshot.Matrix) == 0 {
		return errors.Wrap(entities.ErrBuild, op)
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	return nil
}

// Lookup returns the factor converting src into tgt.
func (c *Cache) Lookup(src, tgt entities.Code) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return 0, entities.ErrNotFound
	}

	factor, ok := c.snapshot.Matrix[src][tgt]
	if !ok {
		return 0, entities.ErrNotFound
	}

	return factor, nil
}

// SnapshotFor returns a copy of every target factor for src.
func (c *Cache) SnapshotFor(src entities.Code) (map[entities.Code]float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, entities.ErrNotFound
	}

	row, ok := c.snapshot.Matrix[src]
	if !ok {
		return nil, entities.ErrNotFound
	}

	out := make(map[entities.Code]float64, len(row))
	for code, factor := range row {
		out[code] = factor
	}

	return out, nil
}

// Current returns the published snapshot. Callers must treat it as read-only.
func (c *Cache) Current() (*entities.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot, c.snapshot != nil
}

func (c *Cache) Ready() bool {
	_, ok := c.Current()
	return ok
}
