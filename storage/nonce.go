package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var noncePrefix = []byte("nc/")

// ErrInvalidNonce is returned by UseNonce when the nonce is not the next one
// of the account.
var ErrInvalidNonce = errors.New("invalid nonce")

// Nonce returns the next nonce of addr. Accounts start at zero.
func (s *Storage) Nonce(addr common.Address) (uint64, error) {
	var n uint64
	err := s.View(func(tx *Tx) error {
		var err error
		n, err = nonce(tx, addr)
		return err
	})
	return n, err
}

// UseNonce consumes nonce for addr. It fails with ErrInvalidNonce unless
// nonce is exactly the next nonce of the account, so every nonce is accepted
// once and in order.
func (s *Storage) UseNonce(addr common.Address, n uint64) error {
	return s.Execute(addr, func(tx *Tx) error {
		next, err := nonce(tx, addr)
		if err != nil {
			return err
		}
		if n != next {
			return fmt.Errorf("%w: got %d, expected %d", ErrInvalidNonce, n, next)
		}
		return tx.Set(noncePrefix, addr.Bytes(), Uint64Key(next+1))
	})
}

func nonce(tx *Tx, addr common.Address) (uint64, error) {
	v, err := tx.Get(noncePrefix, addr.Bytes())
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("invalid stored nonce of %d bytes", len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}
