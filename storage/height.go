package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var keyHeight = []byte("height")

// SaveHeight persists h as the last block height produced by the clock, so
// that a restarted node resumes from it.
func (s *Storage) SaveHeight(h uint64) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), ledgerPrefix)
	defer wTx.Discard()
	if err := wTx.Set(keyHeight, Uint64Key(h)); err != nil {
		return err
	}
	return wTx.Commit()
}

// SavedHeight returns the last height stored by SaveHeight, or zero if none
// was ever stored.
func (s *Storage) SavedHeight() (uint64, error) {
	v, err := prefixeddb.NewPrefixedReader(s.db, ledgerPrefix).Get(keyHeight)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("invalid stored height of %d bytes", len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}
