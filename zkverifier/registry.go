package zkverifier

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/validate"
)

// SetGovernance sets the governance identity. It can only be done once.
func (v *Verifier) SetGovernance(caller, governance common.Address) error {
	return v.call(caller, "setGovernance", func(tx *storage.Tx) error {
		st, err := loadState(tx)
		if err != nil {
			return err
		}
		var ok bool
		if st.Governance, ok = st.Governance.Set(governance); !ok {
			return ErrGovernanceAlreadySet
		}
		if err := saveState(tx, st); err != nil {
			return err
		}
		tx.Emit(ContractName, "governance-set", "governance", governance.Hex())
		return nil
	})
}

// checkGovernance fails with ErrNotAuthorized unless the caller of tx is the
// governance identity. It always fails while governance is unset.
func checkGovernance(tx *storage.Tx, st *state) error {
	gov, ok := st.Governance.Get()
	if !ok || gov != tx.Caller() {
		return ErrNotAuthorized.Withf("caller %s", tx.Caller().Hex())
	}
	return nil
}

func checkKeyMaterial(m *types.KeyMaterial) error {
	if field := validate.KeyMaterial(m.Alpha, m.Beta, m.Gamma, m.Delta, types.HexBytesList(m.IC)); field != "" {
		return ErrInvalidBufferLength.Withf("%s", field)
	}
	if !validate.ListLen(m.IC, types.ICLength) {
		return ErrInvalidListLength.Withf("ic has %d elements, expected %d", len(m.IC), types.ICLength)
	}
	return nil
}

// AddVerificationKey registers a new circuit with its verification key and
// returns its id. Circuit ids must be allocated in increasing order; gaps
// are allowed but an id below the next free one is rejected, and so is the
// largest uint64, after which no id would be free.
func (v *Verifier) AddVerificationKey(caller common.Address, k *NewKey) (uint64, error) {
	err := v.call(caller, "addVerificationKey", func(tx *storage.Tx) error {
		st, err := loadState(tx)
		if err != nil {
			return err
		}
		if err := checkGovernance(tx, st); err != nil {
			return err
		}
		if st.CircuitCount >= types.MaxCircuits {
			return ErrMaxCircuitsExceeded
		}
		if err := checkKeyMaterial(&k.Material); err != nil {
			return err
		}
		if !k.CircuitType.Valid() {
			return ErrInvalidCircuitType.Withf("%q", k.CircuitType)
		}
		exists, err := tx.Has(keyPrefix, storage.Uint64Key(k.CircuitID))
		if err != nil {
			return err
		}
		if exists {
			return ErrKeyAlreadyExists.Withf("circuit %d", k.CircuitID)
		}
		if k.CircuitID < st.NextCircuitID {
			return ErrInvalidCircuitID.Withf("circuit %d is below the next id %d", k.CircuitID, st.NextCircuitID)
		}
		// the next id is k.CircuitID+1, which must not wrap back to zero
		if k.CircuitID == math.MaxUint64 {
			return ErrInvalidCircuitID.Withf("circuit %d leaves no next id", k.CircuitID)
		}
		if !validate.Text(k.Description, types.MaxDescriptionLen) {
			return ErrInvalidDescription
		}

		vk := &VerificationKey{
			CircuitID:    k.CircuitID,
			Material:     k.Material,
			CircuitType:  k.CircuitType,
			RegisteredAt: tx.Height(),
			UpdatedBy:    tx.Caller(),
		}
		meta := &CircuitMetadata{
			InputSize:   k.InputSize,
			OutputSize:  k.OutputSize,
			Description: k.Description,
			Active:      true,
		}
		if err := tx.SetArtifact(keyPrefix, storage.Uint64Key(k.CircuitID), vk); err != nil {
			return err
		}
		if err := tx.SetArtifact(metadataPrefix, storage.Uint64Key(k.CircuitID), meta); err != nil {
			return err
		}
		st.NextCircuitID = k.CircuitID + 1
		st.CircuitCount++
		if err := saveState(tx, st); err != nil {
			return err
		}
		tx.Emit(ContractName, "key-added",
			"circuitId", strconv.FormatUint(k.CircuitID, 10),
			"circuitType", string(k.CircuitType),
			"inputSize", strconv.FormatUint(k.InputSize, 10))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return k.CircuitID, nil
}

// UpdateVerificationKey replaces the key material of an existing circuit.
// The circuit type and metadata are preserved.
func (v *Verifier) UpdateVerificationKey(caller common.Address, circuitID uint64, m *types.KeyMaterial) error {
	return v.call(caller, "updateVerificationKey", func(tx *storage.Tx) error {
		vk, err := getKey(tx, circuitID)
		if err != nil {
			return err
		}
		st, err := loadState(tx)
		if err != nil {
			return err
		}
		if err := checkGovernance(tx, st); err != nil {
			return err
		}
		if err := checkKeyMaterial(m); err != nil {
			return err
		}
		vk.Material = *m
		vk.RegisteredAt = tx.Height()
		vk.UpdatedBy = tx.Caller()
		if err := tx.SetArtifact(keyPrefix, storage.Uint64Key(circuitID), vk); err != nil {
			return err
		}
		tx.Emit(ContractName, "key-updated", "circuitId", strconv.FormatUint(circuitID, 10))
		return nil
	})
}

// DeactivateCircuit disables a circuit for good. Deactivating an inactive
// circuit succeeds without effect.
func (v *Verifier) DeactivateCircuit(caller common.Address, circuitID uint64) error {
	return v.call(caller, "deactivateCircuit", func(tx *storage.Tx) error {
		st, err := loadState(tx)
		if err != nil {
			return err
		}
		if err := checkGovernance(tx, st); err != nil {
			return err
		}
		if circuitID >= st.NextCircuitID {
			return ErrInvalidCircuitID.Withf("circuit %d", circuitID)
		}
		meta, err := getMetadata(tx, circuitID)
		if err != nil {
			return err
		}
		if !meta.Active {
			return nil
		}
		meta.Active = false
		if err := tx.SetArtifact(metadataPrefix, storage.Uint64Key(circuitID), meta); err != nil {
			return err
		}
		tx.Emit(ContractName, "circuit-deactivated", "circuitId", strconv.FormatUint(circuitID, 10))
		return nil
	})
}

func getKey(tx *storage.Tx, circuitID uint64) (*VerificationKey, error) {
	vk := &VerificationKey{}
	if err := tx.GetArtifact(keyPrefix, storage.Uint64Key(circuitID), vk); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCircuitNotFound.Withf("circuit %d", circuitID)
		}
		return nil, fmt.Errorf("get key: %w", err)
	}
	return vk, nil
}

func getMetadata(tx *storage.Tx, circuitID uint64) (*CircuitMetadata, error) {
	meta := &CircuitMetadata{}
	if err := tx.GetArtifact(metadataPrefix, storage.Uint64Key(circuitID), meta); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCircuitNotFound.Withf("circuit %d", circuitID)
		}
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return meta, nil
}

// VerificationKey returns the key of a circuit, or ErrCircuitNotFound.
func (v *Verifier) VerificationKey(circuitID uint64) (*VerificationKey, error) {
	var vk *VerificationKey
	err := v.stg.View(func(tx *storage.Tx) error {
		var err error
		vk, err = getKey(tx, circuitID)
		return err
	})
	return vk, err
}

// CircuitMetadata returns the metadata of a circuit, or ErrCircuitNotFound.
func (v *Verifier) CircuitMetadata(circuitID uint64) (*CircuitMetadata, error) {
	var meta *CircuitMetadata
	err := v.stg.View(func(tx *storage.Tx) error {
		var err error
		meta, err = getMetadata(tx, circuitID)
		return err
	})
	return meta, err
}

// IsCircuitActive reports whether a circuit exists and is active.
func (v *Verifier) IsCircuitActive(circuitID uint64) (bool, error) {
	meta, err := v.CircuitMetadata(circuitID)
	if errors.Is(err, ErrCircuitNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return meta.Active, nil
}

// CircuitCount returns the number of registered circuits.
func (v *Verifier) CircuitCount() (uint64, error) {
	st, err := v.state()
	if err != nil {
		return 0, err
	}
	return st.CircuitCount, nil
}

// NextCircuitID returns the lowest id a new circuit can be registered with.
func (v *Verifier) NextCircuitID() (uint64, error) {
	st, err := v.state()
	if err != nil {
		return 0, err
	}
	return st.NextCircuitID, nil
}

// Governance returns the governance identity and whether it is set.
func (v *Verifier) Governance() (common.Address, bool, error) {
	st, err := v.state()
	if err != nil {
		return common.Address{}, false, err
	}
	gov, ok := st.Governance.Get()
	return gov, ok, nil
}

func (v *Verifier) state() (*state, error) {
	var st *state
	err := v.stg.View(func(tx *storage.Tx) error {
		var err error
		st, err = loadState(tx)
		return err
	})
	return st, err
}
