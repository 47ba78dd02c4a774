package requests

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/storage"
)

func (c *Controller) view(fn func(s store, st *state) error) error {
	return c.stg.View(func(tx *storage.Tx) error {
		s := store{tx}
		st, err := s.state()
		if err != nil {
			return err
		}
		return fn(s, st)
	})
}

// Request returns a live request, or ErrRequestNotFound.
func (c *Controller) Request(id uint64) (*Request, error) {
	var r *Request
	err := c.view(func(s store, _ *state) error {
		var err error
		r, err = s.request(id)
		return err
	})
	return r, err
}

// RequestIDByCommitment returns the id of the live request holding
// commitment, or ErrRequestNotFound.
func (c *Controller) RequestIDByCommitment(commitment []byte) (uint64, error) {
	var id uint64
	err := c.view(func(s store, _ *state) error {
		var err error
		id, err = s.requestIDByCommitment(commitment)
		return err
	})
	return id, err
}

// IsNullifierUsed reports whether a live request holds nullifier.
func (c *Controller) IsNullifierUsed(nullifier []byte) (bool, error) {
	var used bool
	err := c.view(func(s store, _ *state) error {
		var err error
		used, err = s.nullifierUsed(nullifier)
		return err
	})
	return used, err
}

// NextRequestID returns the id the next submitted request will get.
func (c *Controller) NextRequestID() (uint64, error) {
	st, err := c.state()
	if err != nil {
		return 0, err
	}
	return st.NextRequestID, nil
}

// RequestCount returns the number of live requests.
func (c *Controller) RequestCount() (uint64, error) {
	st, err := c.state()
	if err != nil {
		return 0, err
	}
	return st.RequestCount, nil
}

// Admin returns the admin identity.
func (c *Controller) Admin() (common.Address, error) {
	st, err := c.state()
	if err != nil {
		return common.Address{}, err
	}
	return st.Admin, nil
}

// ProofVerifier returns the address of the linked proof verifier, or
// ErrProofVerifierNotSet.
func (c *Controller) ProofVerifier() (common.Address, error) {
	st, err := c.state()
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := st.ProofVerifier.Get()
	if !ok {
		return common.Address{}, ErrProofVerifierNotSet
	}
	return addr, nil
}

// IdentityManager returns the address of the identity manager, or
// ErrIdentityManagerNotSet.
func (c *Controller) IdentityManager() (common.Address, error) {
	st, err := c.state()
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := st.IdentityManager.Get()
	if !ok {
		return common.Address{}, ErrIdentityManagerNotSet
	}
	return addr, nil
}

func (c *Controller) state() (*state, error) {
	var out *state
	err := c.view(func(_ store, st *state) error {
		out = st
		return nil
	})
	return out, err
}
