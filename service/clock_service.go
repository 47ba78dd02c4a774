package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/vocdoni/zkgate/clock"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/metrics"
	"github.com/vocdoni/zkgate/storage"
)

// ClockService produces the blocks of a block clock, persists the height
// and reports it to the metrics.
type ClockService struct {
	clock   *clock.Block
	storage *storage.Storage
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewClock creates a new ClockService driving clk. If stg is not nil every
// new height is saved in it.
func NewClock(clk *clock.Block, stg *storage.Storage) *ClockService {
	return &ClockService{clock: clk, storage: stg}
}

// Start begins producing blocks. It returns an error if the service is
// already running.
func (cs *ClockService) Start(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.cancel != nil {
		return fmt.Errorf("service already running")
	}
	if cs.clock.Interval() <= 0 {
		return fmt.Errorf("invalid block interval %s", cs.clock.Interval())
	}

	ctx, cs.cancel = context.WithCancel(ctx)
	cs.done = make(chan struct{})
	metrics.SetBlockHeight(cs.clock.Height())
	log.Infow("starting block clock", "height", cs.clock.Height(), "interval", cs.clock.Interval().String())
	go func(done chan struct{}) {
		defer close(done)
		cs.clock.Run(ctx, cs.onBlock)
	}(cs.done)
	return nil
}

func (cs *ClockService) onBlock(h uint64) {
	metrics.SetBlockHeight(h)
	log.Debugw("new block", "height", h)
	if cs.storage == nil {
		return
	}
	if err := cs.storage.SaveHeight(h); err != nil {
		log.Warnw("could not save block height", "height", h, "error", err.Error())
	}
}

// Stop halts block production and waits for the clock to stop.
func (cs *ClockService) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.cancel != nil {
		cs.cancel()
		<-cs.done
		cs.cancel = nil
	}
}
