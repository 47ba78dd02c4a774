package ethereum

import (
	"encoding/hex"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSignKeysGeneration(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)

	pub, priv := s.HexString()
	c.Assert(pub, qt.Not(qt.Equals), "")
	c.Assert(priv, qt.Not(qt.Equals), "")

	// Test key import
	imported := NewSignKeys()
	c.Assert(imported.AddHexKey(priv), qt.IsNil)

	importedPub, importedPriv := imported.HexString()
	c.Assert(importedPub, qt.Equals, pub)
	c.Assert(importedPriv, qt.Equals, priv)
}

func TestEthereumSigning(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	s := NewSignKeys()
	c.Assert(s.AddHexKey("0xfad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19"), qt.IsNil)

	_, priv := s.HexString()
	c.Assert(priv, qt.Equals, "fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19")

	// signatures are deterministic and carry a raw recovery id
	sig1, err := s.SignEthereum([]byte("POST /requests"))
	c.Assert(err, qt.IsNil)
	sig2, err := s.SignEthereum([]byte("POST /requests"))
	c.Assert(err, qt.IsNil)
	c.Assert(sig1, qt.DeepEquals, sig2)
	c.Assert(sig1, qt.HasLen, SignatureLength)
	c.Assert(sig1[64] <= 1, qt.IsTrue)

	// a wallet style recovery id recovers the same address
	wallet := append([]byte{}, sig1...)
	wallet[64] += 27
	addr, err := AddrFromSignature([]byte("POST /requests"), wallet)
	c.Assert(err, qt.IsNil)
	c.Assert(addr, qt.Equals, s.Address())

	_, err = AddrFromSignature([]byte("POST /requests"), sig1[:64])
	c.Assert(err, qt.IsNotNil)

	_, err = NewSignKeys().SignEthereum([]byte("x"))
	c.Assert(err, qt.IsNotNil)
	c.Assert(HashRaw([]byte("x")), qt.HasLen, 32)
	c.Assert(hex.EncodeToString(Hash(nil)), qt.Not(qt.Equals), hex.EncodeToString(HashRaw(nil)))
}

func TestAddressRecovery(t *testing.T) {
	c := qt.New(t)
	t.Parallel()

	testCases := []struct {
		name    string
		message []byte
	}{
		{
			name:    "simple message",
			message: []byte("POST /circuits"),
		},
		{
			name:    "different message",
			message: []byte("DELETE /requests/3"),
		},
	}

	// Generate keys
	s := NewSignKeys()
	c.Assert(s.Generate(), qt.IsNil)

	// Get address from public key
	expectedAddr, err := AddrFromPublicKey(s.PublicKey())
	c.Assert(err, qt.IsNil)
	c.Assert(expectedAddr.String(), qt.Equals, s.AddressString())

	// Test address recovery from signatures of different messages
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := qt.New(t)

			signature, err := s.SignEthereum(tc.message)
			c.Assert(err, qt.IsNil)

			recoveredAddr, err := AddrFromSignature(tc.message, signature)
			c.Assert(err, qt.IsNil)
			c.Assert(recoveredAddr, qt.Equals, expectedAddr)
		})
	}
}
