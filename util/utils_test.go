package util

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	qt "github.com/frankban/quicktest"
)

func TestBigToFF(t *testing.T) {
	c := qt.New(t)

	c.Assert(bn254ScalarField.Cmp(ecc.BN254.ScalarField()), qt.Equals, 0)
	c.Assert(BigToFF(big.NewInt(7)).Int64(), qt.Equals, int64(7))
	c.Assert(BigToFF(new(big.Int).Set(bn254ScalarField)).Sign(), qt.Equals, 0)

	over := new(big.Int).Add(bn254ScalarField, big.NewInt(5))
	c.Assert(BigToFF(over).Int64(), qt.Equals, int64(5))

	neg := big.NewInt(-1)
	want := new(big.Int).Sub(bn254ScalarField, big.NewInt(1))
	c.Assert(BigToFF(neg).Cmp(want), qt.Equals, 0)

	all := make([]byte, 32)
	for i := range all {
		all[i] = 0xff
	}
	c.Assert(BytesToFF(all).Cmp(bn254ScalarField), qt.Equals, -1)
}

func TestLeftPad32(t *testing.T) {
	c := qt.New(t)

	c.Assert(LeftPad32([]byte{1, 2}), qt.HasLen, 32)
	c.Assert(LeftPad32([]byte{1, 2})[30:], qt.DeepEquals, []byte{1, 2})
	long := RandomBytes(40)
	c.Assert(LeftPad32(long), qt.DeepEquals, long[8:])
	c.Assert(TrimHex("0xabcd"), qt.Equals, "abcd")
	c.Assert(TrimHex("abcd"), qt.Equals, "abcd")
	c.Assert(RandomHex(16), qt.HasLen, 32)
}
