package jellyfin

import "sync/atomic"

// SnapshotCell holds the library snapshot shared by every reader in
// the process. Replacement is a single pointer swap, so readers always
// observe either the previous complete snapshot or the next one, never
// a partially built value.
type SnapshotCell struct {
	p atomic.Pointer[Snapshot]
}

// Load returns the current snapshot, or nil before the first sync.
func (c *SnapshotCell) Load() *Snapshot { return c.p.Load() }

// Swap replaces the current snapshot atomically.
func (c *SnapshotCell) Swap(snap *Snapshot) { c.p.Store(snap) }
