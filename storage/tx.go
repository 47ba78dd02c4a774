package storage

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// Tx is the context of a single call on the ledger. It exposes the caller,
// the block height the call is executed at, and read-your-writes access to
// the state. Nested calls into other contracts share the same Tx, so their
// effects are committed or discarded together with the outer call.
type Tx struct {
	wtx      db.WriteTx
	caller   common.Address
	height   uint64
	readOnly bool
	events   []*Event
}

func newTx(wtx db.WriteTx, caller common.Address, height uint64, readOnly bool) *Tx {
	return &Tx{wtx: wtx, caller: caller, height: height, readOnly: readOnly}
}

// Caller returns the identity that originated the call.
func (tx *Tx) Caller() common.Address {
	return tx.caller
}

// Height returns the block height of the call.
func (tx *Tx) Height() uint64 {
	return tx.height
}

// ReadOnly reports whether the transaction rejects writes.
func (tx *Tx) ReadOnly() bool {
	return tx.readOnly
}

// WriteTx returns the transaction scoped to prefix. It is meant for
// libraries that work directly on a db.WriteTx, such as merkle trees.
// Callers must not Commit or Discard it.
func (tx *Tx) WriteTx(prefix []byte) db.WriteTx {
	return prefixeddb.NewPrefixedWriteTx(tx.wtx, prefix)
}

// Get returns the raw value stored at prefix+key, or ErrNotFound.
func (tx *Tx) Get(prefix, key []byte) ([]byte, error) {
	v, err := prefixeddb.NewPrefixedReader(tx.wtx, prefix).Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Has reports whether prefix+key exists.
func (tx *Tx) Has(prefix, key []byte) (bool, error) {
	_, err := tx.Get(prefix, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Set stores a raw value at prefix+key.
func (tx *Tx) Set(prefix, key, value []byte) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	return prefixeddb.NewPrefixedWriteTx(tx.wtx, prefix).Set(key, value)
}

// Delete removes prefix+key.
func (tx *Tx) Delete(prefix, key []byte) error {
	if tx.readOnly {
		return ErrReadOnly
	}
	return prefixeddb.NewPrefixedWriteTx(tx.wtx, prefix).Delete(key)
}

// GetArtifact decodes the artifact stored at prefix+key into out. It returns
// ErrNotFound if there is none.
func (tx *Tx) GetArtifact(prefix, key []byte, out any) error {
	data, err := tx.Get(prefix, key)
	if err != nil {
		return err
	}
	if err := DecodeArtifact(data, out); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// SetArtifact encodes and stores a at prefix+key.
func (tx *Tx) SetArtifact(prefix, key []byte, a any) error {
	data, err := EncodeArtifact(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return tx.Set(prefix, key, data)
}

// Iterate calls fn with every key (without prefix) and value under prefix,
// until fn returns false.
func (tx *Tx) Iterate(prefix []byte, fn func(key, value []byte) bool) error {
	return prefixeddb.NewPrefixedReader(tx.wtx, prefix).Iterate(nil, fn)
}
