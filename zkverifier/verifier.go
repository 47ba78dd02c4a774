// Package zkverifier implements the circuit registry and the proof gate.
// The registry holds the Groth16 verification keys of the circuits, managed
// by a single governance identity. The gate admits a proof only if it
// verifies against the key of an active circuit and, for groth16 circuits,
// its nullifier has never been consumed before.
//
// Admitted proofs leave a receipt, keyed by the hash of the proof, which
// other contracts query through VerifyProof.
package zkverifier

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zkgate/log"
	"github.com/vocdoni/zkgate/metrics"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// ContractName identifies the contract in events and metrics.
const ContractName = "zkverifier"

var (
	statePrefix         = []byte("zk/s/")
	keyPrefix           = []byte("zk/k/")
	metadataPrefix      = []byte("zk/m/")
	nullifierPrefix     = []byte("zk/n/")
	receiptPrefix       = []byte("zk/r/")
	nullifierTreePrefix = []byte("zk/t/")

	stateKey = []byte("state")
)

// PairingVerifier checks a Groth16 proof against a verification key. It
// returns false for a well formed proof that does not verify, and an error
// when the inputs cannot be decoded.
type PairingVerifier interface {
	Verify(key *types.KeyMaterial, proof *types.ProofTuple, publicInputs []types.HexBytes) (bool, error)
}

// Verifier is the registry and gate contract.
type Verifier struct {
	stg        *storage.Storage
	pairing    PairingVerifier
	nullifiers *arbo.Tree
}

// New deploys the contract on stg, creating its state if it does not exist
// yet. Governance starts unset.
func New(stg *storage.Storage, pairing PairingVerifier) (*Verifier, error) {
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(stg.DB(), nullifierTreePrefix),
		MaxLevels:    NullifierTreeLevels,
		HashFunction: arbo.HashFunctionSha256,
	})
	if err != nil {
		return nil, fmt.Errorf("nullifier tree: %w", err)
	}
	v := &Verifier{
		stg:        stg,
		pairing:    pairing,
		nullifiers: tree,
	}
	if err := stg.Execute(common.Address{}, func(tx *storage.Tx) error {
		exists, err := tx.Has(statePrefix, stateKey)
		if err != nil || exists {
			return err
		}
		return tx.SetArtifact(statePrefix, stateKey, &state{})
	}); err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}
	return v, nil
}

// call executes fn as a contract call from caller.
func (v *Verifier) call(caller common.Address, op string, fn func(tx *storage.Tx) error) error {
	start := time.Now()
	err := v.stg.Execute(caller, fn)
	metrics.ObserveCall(ContractName, op, start, err)
	if err != nil {
		log.Debugw("call rejected", "contract", ContractName, "op", op, "caller", caller.Hex(), "err", err.Error())
	}
	return err
}

func loadState(tx *storage.Tx) (*state, error) {
	st := &state{}
	if err := tx.GetArtifact(statePrefix, stateKey, st); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

func saveState(tx *storage.Tx, st *state) error {
	return tx.SetArtifact(statePrefix, stateKey, st)
}
