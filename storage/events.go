package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	eventPrefix    = []byte("ev/")
	ledgerPrefix   = []byte("lm/")
	keyNextEventID = []byte("nextEvent")
)

// Event is a record emitted by a contract on a successful state change.
// Events of failed calls are discarded with the rest of the call.
type Event struct {
	Seq      uint64            `json:"seq" cbor:"1,keyasint"`
	Height   uint64            `json:"height" cbor:"2,keyasint"`
	Contract string            `json:"contract" cbor:"3,keyasint"`
	Name     string            `json:"name" cbor:"4,keyasint"`
	Attrs    map[string]string `json:"attrs,omitempty" cbor:"5,keyasint,omitempty"`
}

// Emit records an event. attrs is a list of alternating key/value pairs.
func (tx *Tx) Emit(contract, name string, attrs ...string) {
	ev := &Event{Height: tx.height, Contract: contract, Name: name}
	if len(attrs) > 0 {
		ev.Attrs = make(map[string]string, len(attrs)/2)
		for i := 0; i+1 < len(attrs); i += 2 {
			ev.Attrs[attrs[i]] = attrs[i+1]
		}
	}
	tx.events = append(tx.events, ev)
}

// Events returns the events emitted so far in this transaction.
func (tx *Tx) Events() []*Event {
	return tx.events
}

// commitEvents assigns sequence numbers and appends the pending events to
// the log, inside the same write transaction as the state changes.
func (tx *Tx) commitEvents() error {
	if len(tx.events) == 0 {
		return nil
	}
	next, err := tx.nextEventSeq()
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(tx.wtx, eventPrefix)
	for _, ev := range tx.events {
		ev.Seq = next
		data, err := EncodeArtifact(ev)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		if err := wTx.Set(Uint64Key(next), data); err != nil {
			return err
		}
		next++
	}
	return prefixeddb.NewPrefixedWriteTx(tx.wtx, ledgerPrefix).Set(keyNextEventID, Uint64Key(next))
}

func (tx *Tx) nextEventSeq() (uint64, error) {
	v, err := tx.Get(ledgerPrefix, keyNextEventID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

// Events returns up to limit committed events starting at sequence number
// from, in emission order. A non positive limit returns all of them.
func (s *Storage) Events(from uint64, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = math.MaxInt
	}
	events := []*Event{}
	var decodeErr error
	rd := prefixeddb.NewPrefixedReader(s.db, eventPrefix)
	if err := rd.Iterate(nil, func(k, v []byte) bool {
		if binary.BigEndian.Uint64(k) < from {
			return true
		}
		ev := &Event{}
		if err := DecodeArtifact(v, ev); err != nil {
			decodeErr = err
			return false
		}
		events = append(events, ev)
		return len(events) < limit
	}); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode event: %w", decodeErr)
	}
	return events, nil
}
