package requests

import (
	"errors"
	"fmt"

	"github.com/vocdoni/zkgate/storage"
)

var (
	statePrefix      = []byte("rq/s/")
	requestPrefix    = []byte("rq/r/")
	commitmentPrefix = []byte("rq/c/")
	nullifierPrefix  = []byte("rq/n/")

	stateKey  = []byte("state")
	usedValue = []byte{1}
)

// store gives typed access to the controller state inside a transaction.
// It owns the request records and their commitment and nullifier indexes.
type store struct {
	tx *storage.Tx
}

func (s store) state() (*state, error) {
	st := &state{}
	if err := s.tx.GetArtifact(statePrefix, stateKey, st); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

func (s store) setState(st *state) error {
	return s.tx.SetArtifact(statePrefix, stateKey, st)
}

func (s store) request(id uint64) (*Request, error) {
	r := &Request{}
	if err := s.tx.GetArtifact(requestPrefix, storage.Uint64Key(id), r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRequestNotFound.Withf("request %d", id)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return r, nil
}

func (s store) setRequest(r *Request) error {
	return s.tx.SetArtifact(requestPrefix, storage.Uint64Key(r.ID), r)
}

func (s store) requestIDByCommitment(commitment []byte) (uint64, error) {
	var id uint64
	if err := s.tx.GetArtifact(commitmentPrefix, commitment, &id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, ErrRequestNotFound.Withf("commitment %x", commitment)
		}
		return 0, fmt.Errorf("get commitment: %w", err)
	}
	return id, nil
}

func (s store) commitmentUsed(commitment []byte) (bool, error) {
	return s.tx.Has(commitmentPrefix, commitment)
}

func (s store) nullifierUsed(nullifier []byte) (bool, error) {
	return s.tx.Has(nullifierPrefix, nullifier)
}

// insert persists a new request and indexes its commitment and nullifier.
func (s store) insert(r *Request) error {
	if err := s.setRequest(r); err != nil {
		return err
	}
	if err := s.tx.SetArtifact(commitmentPrefix, r.Commitment, r.ID); err != nil {
		return err
	}
	return s.tx.Set(nullifierPrefix, r.NullifierHash, usedValue)
}

// remove deletes a request together with both of its index entries, so its
// commitment and nullifier can be used again.
func (s store) remove(r *Request) error {
	if err := s.tx.Delete(requestPrefix, storage.Uint64Key(r.ID)); err != nil {
		return err
	}
	if err := s.tx.Delete(commitmentPrefix, r.Commitment); err != nil {
		return err
	}
	return s.tx.Delete(nullifierPrefix, r.NullifierHash)
}
