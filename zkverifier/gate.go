package zkverifier

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
	"github.com/vocdoni/zkgate/validate"
)

// ProofHash returns the keccak256 hash of a‖b‖c. Receipts are indexed by it.
func ProofHash(proof *types.ProofTuple) types.HexBytes {
	return ethcrypto.Keccak256(proof.Bytes())
}

// InputsDigest returns the poseidon hash of the number of inputs followed by
// every input reduced into the BN254 scalar field.
func InputsDigest(inputs []types.HexBytes) (types.HexBytes, error) {
	if len(inputs) > types.MaxPublicInputs {
		return nil, fmt.Errorf("too many inputs: %d", len(inputs))
	}
	elems := make([]*big.Int, 0, len(inputs)+1)
	elems = append(elems, big.NewInt(int64(len(inputs))))
	for _, in := range inputs {
		elems = append(elems, util.BytesToFF(in))
	}
	h, err := poseidon.Hash(elems)
	if err != nil {
		return nil, fmt.Errorf("poseidon: %w", err)
	}
	return util.LeftPad32(h.Bytes()), nil
}

// admit runs the checks shared by both gate entry points, in order: the
// circuit exists and is active, it has the expected type and the proof
// tuple has the right shape.
func admit(tx *storage.Tx, circuitID uint64, want CircuitType, proof *types.ProofTuple) (*VerificationKey, *CircuitMetadata, error) {
	vk, err := getKey(tx, circuitID)
	if err != nil {
		return nil, nil, err
	}
	meta, err := getMetadata(tx, circuitID)
	if err != nil {
		return nil, nil, err
	}
	// inactive circuits are reported exactly as missing ones
	if !meta.Active {
		return nil, nil, ErrCircuitNotFound.Withf("circuit %d", circuitID)
	}
	if vk.CircuitType != want {
		return nil, nil, ErrInvalidCircuitType.Withf("circuit %d is %s", circuitID, vk.CircuitType)
	}
	if proof == nil || !validate.ProofTuple(proof.A, proof.B, proof.C) {
		return nil, nil, ErrInvalidProofStructure
	}
	return vk, meta, nil
}

func checkInputs(meta *CircuitMetadata, inputs []types.HexBytes) error {
	if uint64(len(inputs)) != meta.InputSize {
		return ErrInvalidPublicInputs.Withf("got %d inputs, circuit expects %d", len(inputs), meta.InputSize)
	}
	if !validate.PublicInputs(inputs) {
		return ErrInvalidPublicInputs.Withf("inputs must be at most %d elements of %d bytes",
			types.MaxPublicInputs, types.PublicInputSize)
	}
	return nil
}

func (v *Verifier) pair(vk *VerificationKey, proof *types.ProofTuple, inputs []types.HexBytes) error {
	ok, err := v.pairing.Verify(&vk.Material, proof, inputs)
	if err != nil {
		return ErrVerificationFailed.Withf("circuit %d: %v", vk.CircuitID, err)
	}
	if !ok {
		return ErrVerificationFailed.Withf("circuit %d", vk.CircuitID)
	}
	return nil
}

func storeReceipt(tx *storage.Tx, vk *VerificationKey, proof *types.ProofTuple, inputs []types.HexBytes) (types.HexBytes, error) {
	digest, err := InputsDigest(inputs)
	if err != nil {
		return nil, err
	}
	hash := ProofHash(proof)
	r := &Receipt{
		CircuitID:    vk.CircuitID,
		CircuitType:  vk.CircuitType,
		InputsDigest: digest,
		Height:       tx.Height(),
	}
	if err := tx.SetArtifact(receiptPrefix, hash, r); err != nil {
		return nil, err
	}
	return hash, nil
}

// VerifyGroth16Proof admits a groth16 proof. On success the nullifier is
// consumed for good, so the same nullifier can never be admitted again, and
// a receipt of the proof is stored.
func (v *Verifier) VerifyGroth16Proof(caller common.Address, circuitID uint64, proof *types.ProofTuple,
	publicInputs []types.HexBytes, nullifier, signal types.HexBytes,
) (bool, error) {
	err := v.call(caller, "verifyGroth16Proof", func(tx *storage.Tx) error {
		vk, meta, err := admit(tx, circuitID, CircuitTypeGroth16, proof)
		if err != nil {
			return err
		}
		if !validate.Hash(nullifier) {
			return ErrInvalidBufferLength.Withf("nullifier")
		}
		if !validate.Hash(signal) {
			return ErrInvalidBufferLength.Withf("signal")
		}
		if err := checkInputs(meta, publicInputs); err != nil {
			return err
		}
		used, err := isNullifierUsed(tx, nullifier)
		if err != nil {
			return err
		}
		if used {
			return ErrProofAlreadyUsed.Withf("nullifier %s", nullifier)
		}
		// the nullifier is only burnt after the proof verifies
		if err := v.pair(vk, proof, publicInputs); err != nil {
			return err
		}
		if err := v.consumeNullifier(tx, nullifier); err != nil {
			return err
		}
		hash, err := storeReceipt(tx, vk, proof, publicInputs)
		if err != nil {
			return err
		}
		tx.Emit(ContractName, "proof-verified",
			"circuitId", strconv.FormatUint(circuitID, 10),
			"circuitType", string(CircuitTypeGroth16),
			"proofHash", hash.String(),
			"nullifier", nullifier.String(),
			"signal", signal.String())
		return nil
	})
	return err == nil, err
}

// VerifySnarkProof admits a proof of a snark circuit. Unlike
// VerifyGroth16Proof it consumes no nullifier: the same proof is admitted
// every time it is presented, and callers must enforce single use through
// the commitment.
func (v *Verifier) VerifySnarkProof(caller common.Address, circuitID uint64, proof *types.ProofTuple,
	publicInputs []types.HexBytes, commitment types.HexBytes,
) (bool, error) {
	err := v.call(caller, "verifySnarkProof", func(tx *storage.Tx) error {
		vk, meta, err := admit(tx, circuitID, CircuitTypeSnark, proof)
		if err != nil {
			return err
		}
		if !validate.Hash(commitment) {
			return ErrInvalidBufferLength.Withf("commitment")
		}
		if err := checkInputs(meta, publicInputs); err != nil {
			return err
		}
		if err := v.pair(vk, proof, publicInputs); err != nil {
			return err
		}
		hash, err := storeReceipt(tx, vk, proof, publicInputs)
		if err != nil {
			return err
		}
		tx.Emit(ContractName, "proof-verified",
			"circuitId", strconv.FormatUint(circuitID, 10),
			"circuitType", string(CircuitTypeSnark),
			"proofHash", hash.String(),
			"commitment", commitment.String())
		return nil
	})
	return err == nil, err
}

// VerifyProof reports whether a proof with the given hash was admitted by
// the gate with exactly publicSignals as public inputs. It runs inside the
// caller's transaction and never modifies state, so it can be used as the
// linked proof verifier of other contracts.
func (v *Verifier) VerifyProof(tx *storage.Tx, proofHash []byte, publicSignals []types.HexBytes) (bool, error) {
	r := &Receipt{}
	if err := tx.GetArtifact(receiptPrefix, proofHash, r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	digest, err := InputsDigest(publicSignals)
	if err != nil {
		return false, err
	}
	return bytes.Equal(digest, r.InputsDigest), nil
}

// Receipt returns the receipt of an admitted proof, or storage.ErrNotFound.
func (v *Verifier) Receipt(proofHash []byte) (*Receipt, error) {
	r := &Receipt{}
	if err := v.stg.View(func(tx *storage.Tx) error {
		return tx.GetArtifact(receiptPrefix, proofHash, r)
	}); err != nil {
		return nil, err
	}
	return r, nil
}
