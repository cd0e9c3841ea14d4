// Package blockheight holds the process-wide block-height cell fed by the
// host's block_added notification (component I). Grounded on the
// atomic.Value / atomic uint32 pattern daemon/lnd.go uses for its bestHeight
// cell.
package blockheight

import "sync/atomic"

// Cell is a shared, concurrency-safe block height. Its zero value reads as
// height 0, which is never a valid mainnet height, so callers can tell an
// unset cell apart from a genuinely low one if that ever matters.
type Cell struct {
	height uint32
}

// New returns a Cell initialized to height.
func New(height uint32) *Cell {
	c := &Cell{}
	c.Set(height)
	return c
}

// Set stores height, overwriting any previous value.
func (c *Cell) Set(height uint32) {
	atomic.StoreUint32(&c.height, height)
}

// Get returns the most recently observed height.
func (c *Cell) Get() uint32 {
	return atomic.LoadUint32(&c.height)
}
