package zkverifier

import (
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/zkgate/storage"
	"github.com/vocdoni/zkgate/types"
	"github.com/vocdoni/zkgate/util"
)

// NullifierTreeLevels is the depth of the nullifier tree, enough to use the
// 32 byte nullifiers as keys.
const NullifierTreeLevels = 256

// NullifierProof is a merkle proof of a nullifier against the nullifier tree
// root. Exists is false for a proof of non inclusion.
type NullifierProof struct {
	Root      types.HexBytes `json:"root"`
	Nullifier types.HexBytes `json:"nullifier"`
	Value     types.HexBytes `json:"value"`
	Siblings  types.HexBytes `json:"siblings"`
	Exists    bool           `json:"exists"`
}

func isNullifierUsed(tx *storage.Tx, nullifier []byte) (bool, error) {
	return tx.Has(nullifierPrefix, nullifier)
}

// consumeNullifier marks the nullifier as used and adds it to the tree, with
// the current height as leaf value. A nullifier is never removed.
func (v *Verifier) consumeNullifier(tx *storage.Tx, nullifier []byte) error {
	height := storage.Uint64Key(tx.Height())
	if err := tx.Set(nullifierPrefix, nullifier, height); err != nil {
		return err
	}
	return v.nullifiers.AddWithTx(tx.WriteTx(nullifierTreePrefix), nullifier, util.LeftPad32(height))
}

// IsNullifierUsed reports whether the gate already consumed nullifier.
func (v *Verifier) IsNullifierUsed(nullifier []byte) (bool, error) {
	var used bool
	err := v.stg.View(func(tx *storage.Tx) error {
		var err error
		used, err = isNullifierUsed(tx, nullifier)
		return err
	})
	return used, err
}

// NullifierRoot returns the root of the nullifier tree.
func (v *Verifier) NullifierRoot() (types.HexBytes, error) {
	var root []byte
	err := v.stg.View(func(tx *storage.Tx) error {
		var err error
		root, err = v.nullifiers.RootWithTx(tx.WriteTx(nullifierTreePrefix))
		return err
	})
	return root, err
}

// NullifierProof returns a merkle proof of the (non) inclusion of nullifier
// in the nullifier tree. Root and proof are read from the same snapshot, so
// Exists reports whether the nullifier is used at that root.
func (v *Verifier) NullifierProof(nullifier []byte) (*NullifierProof, error) {
	p := &NullifierProof{Nullifier: nullifier}
	err := v.stg.View(func(tx *storage.Tx) error {
		wTx := tx.WriteTx(nullifierTreePrefix)
		root, err := v.nullifiers.RootWithTx(wTx)
		if err != nil {
			return err
		}
		_, value, siblings, exists, err := v.nullifiers.GenProofWithTx(wTx, nullifier)
		if err != nil {
			return err
		}
		p.Root, p.Value, p.Siblings, p.Exists = root, value, siblings, exists
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CheckNullifierProof verifies an inclusion proof returned by
// NullifierProof.
func CheckNullifierProof(p *NullifierProof) (bool, error) {
	if !p.Exists {
		return false, nil
	}
	return arbo.CheckProof(arbo.HashFunctionSha256, p.Nullifier, p.Value, p.Root, p.Siblings)
}
