// Package storage is the host ledger the contracts run on. Every state
// changing call is executed inside a single database write transaction which
// is committed only if the call succeeds, so a failed call leaves no trace.
// Calls are serialized: at most one write transaction is open at any time.
//
// The following key prefixes are used:
//   - 'ev/' for the event log
//   - 'lm/' for ledger metadata (event sequence, block height)
//   - 'nc/' for the account nonces of signed API calls
//
// Contracts choose their own prefixes for their state.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/clock"
	"github.com/vocdoni/zkgate/log"
	"go.vocdoni.io/dvote/db"
)

var (
	// ErrNotFound is returned when an artifact does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned when a write is attempted inside View.
	ErrReadOnly = errors.New("read-only transaction")
)

// Storage is the host ledger. It owns the database, the block clock and the
// directory of deployed contracts.
type Storage struct {
	db        db.Database
	clock     clock.Clock
	directory *Directory

	writeLock sync.Mutex
	hooksLock sync.RWMutex
	hooks     []func(*Event)
}

// New creates a new Storage instance on top of the given database. If clk is
// nil a manual clock starting at height zero is used.
func New(database db.Database, clk clock.Clock) *Storage {
	if clk == nil {
		clk = clock.NewManual(0)
	}
	return &Storage{
		db:        database,
		clock:     clk,
		directory: NewDirectory(),
	}
}

// DB returns the underlying database.
func (s *Storage) DB() db.Database {
	return s.db
}

// Clock returns the block clock of the ledger.
func (s *Storage) Clock() clock.Clock {
	return s.clock
}

// Directory returns the directory of deployed contracts.
func (s *Storage) Directory() *Directory {
	return s.directory
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("error closing database", "err", err)
	}
}

// OnEvent registers fn to be called, after commit, with every event emitted
// by a successful call.
func (s *Storage) OnEvent(fn func(*Event)) {
	s.hooksLock.Lock()
	defer s.hooksLock.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Execute runs fn as a call from caller at the current block height. The
// changes made through the transaction are committed if fn returns nil and
// discarded otherwise. The error returned by fn is returned unchanged.
func (s *Storage) Execute(caller common.Address, fn func(tx *Tx) error) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx := newTx(s.db.WriteTx(), caller, s.clock.Height(), false)
	if err := fn(tx); err != nil {
		tx.wtx.Discard()
		return err
	}
	if err := tx.commitEvents(); err != nil {
		tx.wtx.Discard()
		return fmt.Errorf("store events: %w", err)
	}
	if err := tx.wtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.dispatch(tx.events)
	return nil
}

// View runs fn on a read-only transaction. Writes fail with ErrReadOnly and
// nothing is ever committed.
func (s *Storage) View(fn func(tx *Tx) error) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx := newTx(s.db.WriteTx(), common.Address{}, s.clock.Height(), true)
	defer tx.wtx.Discard()
	return fn(tx)
}

func (s *Storage) dispatch(events []*Event) {
	s.hooksLock.RLock()
	defer s.hooksLock.RUnlock()
	for _, ev := range events {
		log.Infow("event", "seq", ev.Seq, "height", ev.Height,
			"contract", ev.Contract, "name", ev.Name, "attrs", ev.Attrs)
		for _, fn := range s.hooks {
			fn(ev)
		}
	}
}
