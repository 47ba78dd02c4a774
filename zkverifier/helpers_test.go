package zkverifier

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkgate/clock"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
	"go.vocdoni.io/dvote/db/metadb"
)

var (
	governance = common.HexToAddress("0x0000000000000000000000000000000000009999")
	stranger   = common.HexToAddress("0x0000000000000000000000000000000000000bad")
)

// stubPairing returns a fixed verdict and counts its calls.
type stubPairing struct {
	valid bool
	err   error
	calls int
}

func (p *stubPairing) Verify(_ *types.KeyMaterial, _ *types.ProofTuple, _ []types.HexBytes) (bool, error) {
	p.calls++
	return p.valid, p.err
}

type testEnv struct {
	stg     *storage.Storage
	clock   *clock.Manual
	pairing *stubPairing
	v       *Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	c := qt.New(t)
	clk := clock.NewManual(100)
	stg := storage.New(metadb.NewTest(t), clk)
	pairing := &stubPairing{valid: true}
	v, err := New(stg, pairing)
	c.Assert(err, qt.IsNil)
	c.Assert(v.SetGovernance(stranger, governance), qt.IsNil)
	return &testEnv{stg: stg, clock: clk, pairing: pairing, v: v}
}

func randomMaterial() types.KeyMaterial {
	m := types.KeyMaterial{
		Alpha: util.RandomBytes(types.AlphaSize),
		Beta:  util.RandomBytes(types.BetaSize),
		Gamma: util.RandomBytes(types.GammaSize),
		Delta: util.RandomBytes(types.DeltaSize),
	}
	for i := 0; i < types.ICLength; i++ {
		m.IC = append(m.IC, util.RandomBytes(types.ICElementSize))
	}
	return m
}

func newKey(id uint64, typ CircuitType, inputSize uint64) *NewKey {
	return &NewKey{
		CircuitID:   id,
		Material:    randomMaterial(),
		CircuitType: typ,
		InputSize:   inputSize,
		OutputSize:  1,
		Description: "age over 18",
	}
}

func randomProof() *types.ProofTuple {
	return &types.ProofTuple{
		A: util.RandomBytes(types.ProofASize),
		B: util.RandomBytes(types.ProofBSize),
		C: util.RandomBytes(types.ProofCSize),
	}
}

func randomInputs(n int) []types.HexBytes {
	inputs := make([]types.HexBytes, n)
	for i := range inputs {
		inputs[i] = util.RandomBytes(types.PublicInputSize)
	}
	return inputs
}

func hash32() types.HexBytes {
	return util.RandomBytes(types.HashSize)
}
