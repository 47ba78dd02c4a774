package requests_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/zkgate/requests"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
	"github.com/vocdoni/zkgate/zkverifier"
	"go.vocdoni.io/dvote/db/metadb"
)

type acceptAll struct{}

func (acceptAll) Verify(*types.KeyMaterial, *types.ProofTuple, []types.HexBytes) (bool, error) {
	return true, nil
}

func TestGateAsLinkedVerifier(t *testing.T) {
	c := qt.New(t)
	deployer := common.HexToAddress("0x00000000000000000000000000000000000000d0")
	user := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	stg := storage.New(metadb.NewTest(t), nil)
	gate, err := zkverifier.New(stg, acceptAll{})
	c.Assert(err, qt.IsNil)
	ctrl, err := requests.New(stg, deployer)
	c.Assert(err, qt.IsNil)
	gateAddr := stg.Directory().Deploy(deployer, gate)
	c.Assert(ctrl.SetProofVerifier(deployer, gateAddr), qt.IsNil)

	c.Assert(gate.SetGovernance(deployer, deployer), qt.IsNil)
	material := types.KeyMaterial{
		Alpha: util.RandomBytes(types.AlphaSize),
		Beta:  util.RandomBytes(types.BetaSize),
		Gamma: util.RandomBytes(types.GammaSize),
		Delta: util.RandomBytes(types.DeltaSize),
	}
	for i := 0; i < types.ICLength; i++ {
		material.IC = append(material.IC, util.RandomBytes(types.ICElementSize))
	}
	_, err = gate.AddVerificationKey(deployer, &zkverifier.NewKey{
		CircuitID:   0,
		Material:    material,
		CircuitType: zkverifier.CircuitTypeGroth16,
		InputSize:   2,
	})
	c.Assert(err, qt.IsNil)

	proof := &types.ProofTuple{
		A: util.RandomBytes(types.ProofASize),
		B: util.RandomBytes(types.ProofBSize),
		C: util.RandomBytes(types.ProofCSize),
	}
	signals := []types.HexBytes{util.RandomBytes(32), util.RandomBytes(32)}
	sub := &requests.Submission{
		Commitment:    util.RandomBytes(32),
		NullifierHash: util.RandomBytes(32),
		ProofHash:     zkverifier.ProofHash(proof),
		RequestType:   requests.RequestTypeAid,
		MetadataHash:  util.RandomBytes(32),
		PublicSignals: signals,
	}

	// the proof has not gone through the gate yet
	_, err = ctrl.SubmitRequest(user, sub)
	c.Assert(err, qt.ErrorIs, requests.ErrVerificationFailed)

	_, err = gate.VerifyGroth16Proof(user, 0, proof, signals, util.RandomBytes(32), util.RandomBytes(32))
	c.Assert(err, qt.IsNil)

	// signals that differ from the verified inputs are refused
	tampered := *sub
	tampered.PublicSignals = []types.HexBytes{signals[1], signals[0]}
	_, err = ctrl.SubmitRequest(user, &tampered)
	c.Assert(err, qt.ErrorIs, requests.ErrVerificationFailed)

	id, err := ctrl.SubmitRequest(user, sub)
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(0))

	// a controller on another ledger can not resolve the gate address
	other, err := requests.New(storage.New(metadb.NewTest(t), nil), deployer)
	c.Assert(err, qt.IsNil)
	c.Assert(other.SetProofVerifier(deployer, gateAddr), qt.IsNil)
	_, err = other.SubmitRequest(user, sub)
	c.Assert(err, qt.ErrorIs, requests.ErrProofVerifierCallFailed)
}
