// Package clock provides the block height source of the ledger. Request
// expiry is measured in blocks, so every height used by the contracts comes
// from a Clock.
package clock

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock returns the current block height.
type Clock interface {
	Height() uint64
}

// Manual is a clock whose height only changes when told to. It is used by
// tests and by deployments that import heights from an external chain.
type Manual struct {
	height atomic.Uint64
}

// NewManual returns a manual clock at the given height.
func NewManual(height uint64) *Manual {
	m := &Manual{}
	m.height.Store(height)
	return m
}

func (m *Manual) Height() uint64          { return m.height.Load() }
func (m *Manual) Set(height uint64)       { m.height.Store(height) }
func (m *Manual) Advance(n uint64) uint64 { return m.height.Add(n) }

var _ Clock = (*Manual)(nil)

// Block is a clock that produces one block every interval once started.
type Block struct {
	Manual
	interval time.Duration
}

// NewBlock returns a block clock starting at height and ticking every
// interval.
func NewBlock(height uint64, interval time.Duration) *Block {
	b := &Block{interval: interval}
	b.height.Store(height)
	return b
}

// Interval returns the block time.
func (b *Block) Interval() time.Duration {
	return b.interval
}

// Run advances the height every interval until ctx is done. onBlock, if not
// nil, is called with every new height.
func (b *Block) Run(ctx context.Context, onBlock func(uint64)) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := b.Advance(1)
			if onBlock != nil {
				onBlock(h)
			}
		}
	}
}
