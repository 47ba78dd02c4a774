// Package requests implements the request lifecycle controller. Requests are
// admitted only if the linked proof verifier confirms their proof; from then
// on an admin drives them through a fixed set of status transitions until
// they reach a terminal status, are withdrawn, or expire and get purged.
package requests

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/metrics"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/validate"
)

// ContractName identifies the contract in events and metrics.
const ContractName = "requests"

// ProofVerifier is the capability the controller expects from the contract
// configured as proof verifier. It is called inside the transaction of the
// submission. An error means the call itself failed; false is a negative
// verdict.
type ProofVerifier interface {
	VerifyProof(tx *storage.Tx, proofHash []byte, publicSignals []types.HexBytes) (bool, error)
}

// Controller is the request lifecycle contract.
type Controller struct {
	stg *storage.Storage
}

// New deploys the controller on stg with admin as its admin identity. If the
// controller state already exists it is kept and admin is ignored.
func New(stg *storage.Storage, admin common.Address) (*Controller, error) {
	if err := stg.Execute(admin, func(tx *storage.Tx) error {
		exists, err := tx.Has(statePrefix, stateKey)
		if err != nil || exists {
			return err
		}
		return store{tx}.setState(&state{Admin: admin})
	}); err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}
	return &Controller{stg: stg}, nil
}

func (c *Controller) call(caller common.Address, op string, fn func(s store, st *state) error) error {
	start := time.Now()
	err := c.stg.Execute(caller, func(tx *storage.Tx) error {
		s := store{tx}
		st, err := s.state()
		if err != nil {
			return err
		}
		return fn(s, st)
	})
	metrics.ObserveCall(ContractName, op, start, err)
	if err != nil {
		log.Debugw("call rejected", "contract", ContractName, "op", op, "caller", caller.Hex(), "err", err.Error())
	}
	return err
}

func checkAdmin(s store, st *state) error {
	if s.tx.Caller() != st.Admin {
		return ErrNotAuthorized.Withf("caller %s", s.tx.Caller().Hex())
	}
	return nil
}

// SubmitRequest admits a new pending request and returns its id.
func (c *Controller) SubmitRequest(caller common.Address, sub *Submission) (uint64, error) {
	var id uint64
	err := c.call(caller, "submitRequest", func(s store, st *state) error {
		if st.RequestCount >= types.MaxRequests {
			return ErrMaxRequestsReached
		}
		switch {
		case !validate.Hash(sub.Commitment):
			return ErrInvalidCommitment
		case !validate.Hash(sub.NullifierHash):
			return ErrInvalidNullifier
		case !validate.Hash(sub.ProofHash):
			return ErrInvalidProofHash
		case !validate.Hash(sub.MetadataHash):
			return ErrInvalidMetadataHash
		}
		if !sub.RequestType.Valid() {
			return ErrInvalidRequestType.Withf("%q", sub.RequestType)
		}
		used, err := s.nullifierUsed(sub.NullifierHash)
		if err != nil {
			return err
		}
		if used {
			return ErrReplayAttack.Withf("nullifier %s", sub.NullifierHash)
		}
		if used, err = s.commitmentUsed(sub.Commitment); err != nil {
			return err
		}
		if used {
			return ErrReplayAttack.Withf("commitment %s", sub.Commitment)
		}
		if !validate.PublicInputs(sub.PublicSignals) {
			return ErrInvalidPublicSignals
		}
		if err := c.verify(s.tx, st, sub); err != nil {
			return err
		}

		now := s.tx.Height()
		r := &Request{
			ID:            st.NextRequestID,
			Commitment:    sub.Commitment,
			NullifierHash: sub.NullifierHash,
			ProofHash:     sub.ProofHash,
			MetadataHash:  sub.MetadataHash,
			RequestType:   sub.RequestType,
			Status:        StatusPending,
			CreatedAt:     now,
			ExpiresAt:     now + types.RequestExpiryBlocks,
		}
		if err := s.insert(r); err != nil {
			return err
		}
		st.NextRequestID++
		st.RequestCount++
		if err := s.setState(st); err != nil {
			return err
		}
		id = r.ID
		s.tx.Emit(ContractName, "request-submitted",
			"requestId", strconv.FormatUint(r.ID, 10),
			"requestType", string(r.RequestType),
			"commitment", r.Commitment.String(),
			"expiresAt", strconv.FormatUint(r.ExpiresAt, 10))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// verify calls the configured proof verifier. A verifier that cannot be
// reached fails with ErrProofVerifierCallFailed, a negative verdict with
// ErrVerificationFailed.
func (c *Controller) verify(tx *storage.Tx, st *state, sub *Submission) error {
	addr, ok := st.ProofVerifier.Get()
	if !ok {
		return ErrProofVerifierNotSet
	}
	contract, ok := c.stg.Directory().Resolve(addr)
	if !ok {
		return ErrProofVerifierCallFailed.Withf("no contract at %s", addr.Hex())
	}
	pv, ok := contract.(ProofVerifier)
	if !ok {
		return ErrProofVerifierCallFailed.Withf("contract at %s is not a proof verifier", addr.Hex())
	}
	valid, err := pv.VerifyProof(tx, sub.ProofHash, sub.PublicSignals)
	if err != nil {
		return ErrProofVerifierCallFailed.Withf("%v", err)
	}
	if !valid {
		return ErrVerificationFailed.Withf("proof %s", sub.ProofHash)
	}
	return nil
}

// UpdateRequestStatus moves a request to a new status. Notes, if not nil,
// replace the verifier notes; otherwise the previous notes are kept.
func (c *Controller) UpdateRequestStatus(caller common.Address, id uint64, status Status, notes *string) error {
	return c.call(caller, "updateRequestStatus", func(s store, st *state) error {
		r, err := s.request(id)
		if err != nil {
			return err
		}
		if err := checkAdmin(s, st); err != nil {
			return err
		}
		if r.Expired(s.tx.Height()) {
			return ErrRequestExpired.Withf("request %d expired at %d", id, r.ExpiresAt)
		}
		if !CanTransition(r.Status, status) {
			return ErrInvalidStatusTransition.Withf("%s to %s", r.Status, status)
		}
		if notes != nil {
			if !validate.Text(*notes, types.MaxNotesLen) {
				return ErrInvalidNotes
			}
			r.VerifierNotes = *notes
		}
		from := r.Status
		r.Status = status
		if err := s.setRequest(r); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "request-status-updated",
			"requestId", strconv.FormatUint(id, 10),
			"from", string(from),
			"to", string(status))
		return nil
	})
}

// WithdrawRequest deletes a pending, non expired request identified by its
// commitment. Knowing the commitment is what entitles the caller to it.
func (c *Controller) WithdrawRequest(caller common.Address, commitment types.HexBytes) error {
	return c.call(caller, "withdrawRequest", func(s store, st *state) error {
		id, err := s.requestIDByCommitment(commitment)
		if err != nil {
			return err
		}
		r, err := s.request(id)
		if err != nil {
			return err
		}
		if r.Status != StatusPending {
			return ErrInvalidStatusTransition.Withf("request %d is %s", id, r.Status)
		}
		if r.Expired(s.tx.Height()) {
			return ErrRequestExpired.Withf("request %d expired at %d", id, r.ExpiresAt)
		}
		if err := c.purge(s, st, r); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "request-withdrawn", "requestId", strconv.FormatUint(id, 10))
		return nil
	})
}

// AdminWithdrawStuckRequest deletes an expired request, whatever its status.
func (c *Controller) AdminWithdrawStuckRequest(caller common.Address, id uint64) error {
	return c.call(caller, "adminWithdrawStuckRequest", func(s store, st *state) error {
		if err := checkAdmin(s, st); err != nil {
			return err
		}
		r, err := s.request(id)
		if err != nil {
			return err
		}
		if !r.Expired(s.tx.Height()) {
			return ErrRequestNotExpired.Withf("request %d expires at %d", id, r.ExpiresAt)
		}
		if err := c.purge(s, st, r); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "request-purged",
			"requestId", strconv.FormatUint(id, 10),
			"status", string(r.Status))
		return nil
	})
}

func (c *Controller) purge(s store, st *state, r *Request) error {
	if err := s.remove(r); err != nil {
		return err
	}
	st.RequestCount--
	return s.setState(st)
}

// TransferAdmin hands the admin role to another identity, effective
// immediately.
func (c *Controller) TransferAdmin(caller, admin common.Address) error {
	return c.call(caller, "transferAdmin", func(s store, st *state) error {
		if err := checkAdmin(s, st); err != nil {
			return err
		}
		previous := st.Admin
		st.Admin = admin
		if err := s.setState(st); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "admin-transferred", "from", previous.Hex(), "to", admin.Hex())
		return nil
	})
}

// SetProofVerifier links the contract deployed at addr as proof verifier.
// It can only be done once.
func (c *Controller) SetProofVerifier(caller, addr common.Address) error {
	return c.call(caller, "setProofVerifier", func(s store, st *state) error {
		if err := checkAdmin(s, st); err != nil {
			return err
		}
		var ok bool
		if st.ProofVerifier, ok = st.ProofVerifier.Set(addr); !ok {
			return ErrProofVerifierAlreadySet
		}
		if err := s.setState(st); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "proof-verifier-set", "address", addr.Hex())
		return nil
	})
}

// SetIdentityManager records the identity manager contract. It can only be
// done once.
func (c *Controller) SetIdentityManager(caller, addr common.Address) error {
	return c.call(caller, "setIdentityManager", func(s store, st *state) error {
		if err := checkAdmin(s, st); err != nil {
			return err
		}
		var ok bool
		if st.IdentityManager, ok = st.IdentityManager.Set(addr); !ok {
			return ErrIdentityManagerAlreadySet
		}
		if err := s.setState(st); err != nil {
			return err
		}
		s.tx.Emit(ContractName, "identity-manager-set", "address", addr.Hex())
		return nil
	})
}
