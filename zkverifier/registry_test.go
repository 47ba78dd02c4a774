package zkverifier

import (
	"math"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
	"go.vocdoni.io/dvote/db/metadb"
)

func TestGovernanceIsSetOnce(t *testing.T) {
	c := qt.New(t)
	v, err := New(storage.New(metadb.NewTest(t), nil), &stubPairing{})
	c.Assert(err, qt.IsNil)

	_, ok, err := v.Governance()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	// nothing can be registered before governance exists
	_, err = v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 1))
	c.Assert(err, qt.ErrorIs, ErrNotAuthorized)

	c.Assert(v.SetGovernance(stranger, governance), qt.IsNil)
	for _, attempt := range [][2]common.Address{
		{governance, governance},
		{stranger, stranger},
		{governance, stranger},
	} {
		err := v.SetGovernance(attempt[0], attempt[1])
		c.Assert(err, qt.ErrorIs, ErrGovernanceAlreadySet)
	}
	gov, ok, err := v.Governance()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(gov, qt.Equals, governance)
}

func TestAddVerificationKey(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	// non governance callers are rejected whatever the arguments
	_, err := env.v.AddVerificationKey(stranger, newKey(0, CircuitTypeGroth16, 5))
	c.Assert(types.ErrorCode(err), qt.Equals, uint32(1000))

	id, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 5))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(0))

	vk, err := env.v.VerificationKey(0)
	c.Assert(err, qt.IsNil)
	c.Assert(vk.CircuitType, qt.Equals, CircuitTypeGroth16)
	c.Assert(vk.RegisteredAt, qt.Equals, uint64(100))
	c.Assert(vk.UpdatedBy, qt.Equals, governance)

	meta, err := env.v.CircuitMetadata(0)
	c.Assert(err, qt.IsNil)
	c.Assert(meta.Active, qt.IsTrue)
	c.Assert(meta.InputSize, qt.Equals, uint64(5))

	_, err = env.v.AddVerificationKey(governance, newKey(0, CircuitTypeGroth16, 5))
	c.Assert(err, qt.ErrorIs, ErrKeyAlreadyExists)

	// ids may skip values but never go back
	_, err = env.v.AddVerificationKey(governance, newKey(5, CircuitTypeSnark, 2))
	c.Assert(err, qt.IsNil)
	_, err = env.v.AddVerificationKey(governance, newKey(3, CircuitTypeSnark, 2))
	c.Assert(err, qt.ErrorIs, ErrInvalidCircuitID)

	count, err := env.v.CircuitCount()
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, uint64(2))
	next, err := env.v.NextCircuitID()
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, uint64(6))

	_, err = env.v.VerificationKey(3)
	c.Assert(err, qt.ErrorIs, ErrCircuitNotFound)
	active, err := env.v.IsCircuitActive(3)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.IsFalse)
}

func TestLargestCircuitIDIsRejected(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	_, err := env.v.AddVerificationKey(governance, newKey(5, CircuitTypeGroth16, 1))
	c.Assert(err, qt.IsNil)

	_, err = env.v.AddVerificationKey(governance, newKey(math.MaxUint64, CircuitTypeGroth16, 1))
	c.Assert(err, qt.ErrorIs, ErrInvalidCircuitID)
	_, err = env.v.VerificationKey(math.MaxUint64)
	c.Assert(err, qt.ErrorIs, ErrCircuitNotFound)

	// the counters did not move, so ids below the next one stay closed
	next, err := env.v.NextCircuitID()
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, uint64(6))
	count, err := env.v.CircuitCount()
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, uint64(1))
	_, err = env.v.AddVerificationKey(governance, newKey(0, CircuitTypeSnark, 1))
	c.Assert(err, qt.ErrorIs, ErrInvalidCircuitID)

	c.Assert(env.v.DeactivateCircuit(governance, 5), qt.IsNil)
	c.Assert(env.v.DeactivateCircuit(governance, math.MaxUint64), qt.ErrorIs, ErrInvalidCircuitID)

	// the largest id that still leaves a next one is accepted
	_, err = env.v.AddVerificationKey(governance, newKey(math.MaxUint64-1, CircuitTypeSnark, 1))
	c.Assert(err, qt.IsNil)
	next, err = env.v.NextCircuitID()
	c.Assert(err, qt.IsNil)
	c.Assert(next, qt.Equals, uint64(math.MaxUint64))
	_, err = env.v.AddVerificationKey(governance, newKey(math.MaxUint64, CircuitTypeSnark, 1))
	c.Assert(err, qt.ErrorIs, ErrInvalidCircuitID)
}

func TestAddVerificationKeyValidation(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(k *NewKey)
		want   *types.Error
	}{
		{"short alpha", func(k *NewKey) { k.Material.Alpha = k.Material.Alpha[:31] }, ErrInvalidBufferLength},
		{"long beta", func(k *NewKey) { k.Material.Beta = append(k.Material.Beta, 0) }, ErrInvalidBufferLength},
		{"short gamma", func(k *NewKey) { k.Material.Gamma = nil }, ErrInvalidBufferLength},
		{"short delta", func(k *NewKey) { k.Material.Delta = k.Material.Delta[:32] }, ErrInvalidBufferLength},
		{"short ic element", func(k *NewKey) { k.Material.IC[4] = k.Material.IC[4][:16] }, ErrInvalidBufferLength},
		{"nine ic elements", func(k *NewKey) { k.Material.IC = k.Material.IC[:9] }, ErrInvalidListLength},
		{"eleven ic elements", func(k *NewKey) {
			k.Material.IC = append(k.Material.IC, util.RandomBytes(types.ICElementSize))
		}, ErrInvalidListLength},
		{"unknown type", func(k *NewKey) { k.CircuitType = "plonk" }, ErrInvalidCircuitType},
		{"long description", func(k *NewKey) { k.Description = strings.Repeat("x", types.MaxDescriptionLen+1) }, ErrInvalidDescription},
	}
	for _, tc := range tests {
		c.Run(tc.name, func(c *qt.C) {
			k := newKey(0, CircuitTypeGroth16, 1)
			tc.mutate(k)
			_, err := env.v.AddVerificationKey(governance, k)
			c.Assert(err, qt.ErrorIs, tc.want)
		})
	}

	// nothing was stored by the failed calls
	count, err := env.v.CircuitCount()
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, uint64(0))

	k := newKey(0, CircuitTypeGroth16, 1)
	k.Description = strings.Repeat("x", types.MaxDescriptionLen)
	_, err = env.v.AddVerificationKey(governance, k)
	c.Assert(err, qt.IsNil)
}

func TestMaxCircuits(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	for i := uint64(0); i < types.MaxCircuits; i++ {
		_, err := env.v.AddVerificationKey(governance, newKey(i, CircuitTypeGroth16, 1))
		c.Assert(err, qt.IsNil)
	}
	_, err := env.v.AddVerificationKey(governance, newKey(types.MaxCircuits, CircuitTypeGroth16, 1))
	c.Assert(types.ErrorCode(err), qt.Equals, uint32(1007))
}

func TestUpdateVerificationKey(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	m := randomMaterial()
	c.Assert(env.v.UpdateVerificationKey(governance, 0, &m), qt.ErrorIs, ErrCircuitNotFound)

	_, err := env.v.AddVerificationKey(governance, newKey(0, CircuitTypeSnark, 3))
	c.Assert(err, qt.IsNil)

	c.Assert(env.v.UpdateVerificationKey(stranger, 0, &m), qt.ErrorIs, ErrNotAuthorized)

	bad := randomMaterial()
	bad.IC = bad.IC[:2]
	c.Assert(env.v.UpdateVerificationKey(governance, 0, &bad), qt.ErrorIs, ErrInvalidListLength)

	env.clock.Advance(10)
	c.Assert(env.v.UpdateVerificationKey(governance, 0, &m), qt.IsNil)

	vk, err := env.v.VerificationKey(0)
	c.Assert(err, qt.IsNil)
	c.Assert(vk.Material, qt.DeepEquals, m)
	c.Assert(vk.CircuitType, qt.Equals, CircuitTypeSnark)
	c.Assert(vk.RegisteredAt, qt.Equals, uint64(110))
}

func TestDeactivateCircuit(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv(t)

	c.Assert(env.v.DeactivateCircuit(governance, 0), qt.ErrorIs, ErrInvalidCircuitID)

	_, err := env.v.AddVerificationKey(governance, newKey(2, CircuitTypeGroth16, 1))
	c.Assert(err, qt.IsNil)

	c.Assert(env.v.DeactivateCircuit(stranger, 2), qt.ErrorIs, ErrNotAuthorized)
	// below the next id but never registered
	c.Assert(env.v.DeactivateCircuit(governance, 1), qt.ErrorIs, ErrCircuitNotFound)
	c.Assert(env.v.DeactivateCircuit(governance, 3), qt.ErrorIs, ErrInvalidCircuitID)

	c.Assert(env.v.DeactivateCircuit(governance, 2), qt.IsNil)
	active, err := env.v.IsCircuitActive(2)
	c.Assert(err, qt.IsNil)
	c.Assert(active, qt.IsFalse)

	c.Assert(env.v.DeactivateCircuit(governance, 2), qt.IsNil)

	// the key is kept and can still be read
	_, err = env.v.VerificationKey(2)
	c.Assert(err, qt.IsNil)
}
