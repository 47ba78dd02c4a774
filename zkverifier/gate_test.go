package zkverifier

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
)

func TestGroth16SingleConsumption(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 5))
	c.Assert(err, qt.IsNil)

	nullifier := hash32()
	ok, err := env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(5), nullifier, hash32())
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	used, err := env.v.IsNullifierUsed(nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(used, qt.IsTrue)

	// a different, valid proof with the same nullifier is refused before
	// reaching the pairing check
	calls := env.pairing.calls
	ok, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(5), nullifier, hash32())
	c.Assert(ok, qt.IsFalse)
	c.Assert(types.ErrorCode(err), qt.Equals, uint32(1013))
	c.Assert(env.pairing.calls, qt.Equals, calls)
}

func TestGroth16FailedProofKeepsNullifier(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 2))
	c.Assert(err, qt.IsNil)
	root, err := env.v.NullifierRoot()
	c.Assert(err, qt.IsNil)

	nullifier := hash32()
	env.pairing.valid = false
	_, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(2), nullifier, hash32())
	c.Assert(err, qt.ErrorIs, ErrVerificationFailed)

	env.pairing.valid, env.pairing.err = true, errors.New("point not on curve")
	_, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(2), nullifier, hash32())
	c.Assert(err, qt.ErrorIs, ErrVerificationFailed)

	used, err := env.v.IsNullifierUsed(nullifier)
	c.Assert(err, qt.IsNil)
	c.Assert(used, qt.IsFalse)
	after, err := env.v.NullifierRoot()
	c.Assert(err, qt.IsNil)
	c.Assert(after, qt.DeepEquals, root)

	env.pairing.err = nil
	ok, err := env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(2), nullifier, hash32())
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
}

func TestGroth16CheckOrder(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 3))
	c.Assert(err, qt.IsNil)
	_, err = env.v.AddVerificationKey(governance, newKey(1, CircuitTypeSnark, 3))
	c.Assert(err, qt.IsNil)

	short := randomProof()
	short.B = short.B[:32]

	tests := []struct {
		name      string
		circuitID uint64
		proof     *types.ProofTuple
		inputs    []types.HexBytes
		nullifier types.HexBytes
		signal    types.HexBytes
		want      *types.Error
	}{
		{"unknown circuit", 7, short, nil, nil, nil, ErrCircuitNotFound},
		{"snark circuit", 1, short, nil, nil, nil, ErrInvalidCircuitType},
		{"short proof", 0, short, nil, nil, nil, ErrInvalidProofStructure},
		{"missing proof", 0, nil, nil, nil, nil, ErrInvalidProofStructure},
		{"short nullifier", 0, randomProof(), nil, hash32()[:31], hash32(), ErrInvalidBufferLength},
		{"short signal", 0, randomProof(), nil, hash32(), hash32()[:8], ErrInvalidBufferLength},
		{"too few inputs", 0, randomProof(), randomInputs(2), hash32(), hash32(), ErrInvalidPublicInputs},
		{"too many inputs", 0, randomProof(), randomInputs(4), hash32(), hash32(), ErrInvalidPublicInputs},
		{"short input", 0, randomProof(), append(randomInputs(2), make([]byte, 31)), hash32(), hash32(), ErrInvalidPublicInputs},
	}
	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			ok, err := env.v.VerifyGroth16Proof(stranger, tc.circuitID, tc.proof, tc.inputs, tc.nullifier, tc.signal)
			c.Assert(ok, qt.IsFalse)
			c.Assert(err, qt.ErrorIs, tc.want)
		})
	}
	c.Assert(env.pairing.calls, qt.Equals, 0)
}

func TestDeactivatedCircuitIsNotFound(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 1))
	c.Assert(err, qt.IsNil)
	c.Assert(env.v.DeactivateCircuit(governance, 0), qt.IsNil)

	// the active check precedes the type check
	_, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(1), hash32(), hash32())
	c.Assert(err, qt.ErrorIs, ErrCircuitNotFound)
	_, err = env.v.VerifySnarkProof(stranger, 0, randomProof(), randomInputs(1), hash32())
	c.Assert(err, qt.ErrorIs, ErrCircuitNotFound)
}

func TestSnarkProofConsumesNothing(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeSnark, 2))
	c.Assert(err, qt.IsNil)

	_, err = env.v.VerifySnarkProof(stranger, 0, randomProof(), randomInputs(2), hash32()[:16])
	c.Assert(err, qt.ErrorIs, ErrInvalidBufferLength)
	_, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(2), hash32(), hash32())
	c.Assert(err, qt.ErrorIs, ErrInvalidCircuitType)

	root, err := env.v.NullifierRoot()
	c.Assert(err, qt.IsNil)

	// the same proof is admitted every time it is presented
	proof, inputs, commitment := randomProof(), randomInputs(2), hash32()
	for i := 0; i < 2; i++ {
		ok, err := env.v.VerifySnarkProof(stranger, 0, proof, inputs, commitment)
		c.Assert(err, qt.IsNil)
		c.Assert(ok, qt.IsTrue)
	}
	after, err := env.v.NullifierRoot()
	c.Assert(err, qt.IsNil)
	c.Assert(after, qt.DeepEquals, root)
	used, err := env.v.IsNullifierUsed(commitment)
	c.Assert(err, qt.IsNil)
	c.Assert(used, qt.IsFalse)
}

func TestReceipts(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 3))
	c.Assert(err, qt.IsNil)

	proof, inputs := randomProof(), randomInputs(3)
	_, err = env.v.VerifyGroth16Proof(stranger, 0, proof, inputs, hash32(), hash32())
	c.Assert(err, qt.IsNil)

	hash := ProofHash(proof)
	r, err := env.v.Receipt(hash)
	c.Assert(err, qt.IsNil)
	c.Assert(r.CircuitID, qt.Equals, uint64(0))
	c.Assert(r.Height, qt.Equals, uint64(100))

	check := func(proofHash []byte, signals []types.HexBytes) bool {
		var ok bool
		c.Assert(env.stg.View(func(tx *storage.Tx) error {
			var err error
			ok, err = env.v.VerifyProof(tx, proofHash, signals)
			return err
		}), qt.IsNil)
		return ok
	}
	c.Assert(check(hash, inputs), qt.IsTrue)
	c.Assert(check(hash, inputs[:2]), qt.IsFalse)
	c.Assert(check(hash, randomInputs(3)), qt.IsFalse)
	c.Assert(check(hash32(), inputs), qt.IsFalse)

	_, err = env.v.Receipt(hash32())
	c.Assert(err, qt.ErrorIs, storage.ErrNotFound)
}

func TestGateEvents(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 1))
	c.Assert(err, qt.IsNil)
	_, err = env.v.AddVerificationKey(stranger, newKey(1, CircuitTypeGroth16, 1))
	c.Assert(err, qt.IsNotNil)
	_, err = env.v.VerifyGroth16Proof(stranger, 0, randomProof(), randomInputs(1), hash32(), hash32())
	c.Assert(err, qt.IsNil)

	events, err := env.stg.Events(0, 0)
	c.Assert(err, qt.IsNil)
	names := []string{}
	for _, ev := range events {
		c.Assert(ev.Contract, qt.Equals, ContractName)
		names = append(names, ev.Name)
	}
	// failed calls leave no event
	c.Assert(names, qt.DeepEquals, []string{"governance-set", "key-added", "proof-verified"})
}
