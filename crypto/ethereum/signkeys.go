// Package ethereum implements the secp256k1 identities used to authenticate
// callers of the contracts. A caller is identified by its Ethereum address,
// recovered from a signature over the request payload.
package ethereum

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/vocdoni/zkgate/util"
)

const (
	// SignatureLength is the size of a signature: R, S and the recovery id.
	SignatureLength = ethcrypto.SignatureLength
	// SigningPrefix is prepended to every message before hashing, following
	// the personal_sign convention.
	SigningPrefix = "\x19Ethereum Signed Message:\n"
)

// SignKeys holds a secp256k1 key pair.
type SignKeys struct {
	Public  ecdsa.PublicKey
	Private ecdsa.PrivateKey
}

// NewSignKeys returns an empty SignKeys.
func NewSignKeys() *SignKeys {
	return &SignKeys{}
}

// Generate creates a new random key pair.
func (k *SignKeys) Generate() error {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return err
	}
	k.Private = *key
	k.Public = key.PublicKey
	return nil
}

// AddHexKey imports a hex encoded private key, with or without 0x prefix.
func (k *SignKeys) AddHexKey(privHex string) error {
	key, err := ethcrypto.HexToECDSA(util.TrimHex(privHex))
	if err != nil {
		return fmt.Errorf("invalid private key: %w", err)
	}
	k.Private = *key
	k.Public = key.PublicKey
	return nil
}

// HexString returns the compressed public key and the private key, both hex
// encoded without prefix.
func (k *SignKeys) HexString() (string, string) {
	if k.Private.D == nil {
		return "", ""
	}
	return hex.EncodeToString(k.PublicKey()), hex.EncodeToString(ethcrypto.FromECDSA(&k.Private))
}

// PublicKey returns the compressed public key.
func (k *SignKeys) PublicKey() []byte {
	if k.Public.X == nil {
		return nil
	}
	return ethcrypto.CompressPubkey(&k.Public)
}

// Address returns the Ethereum address of the key pair.
func (k *SignKeys) Address() common.Address {
	if k.Public.X == nil {
		return common.Address{}
	}
	return ethcrypto.PubkeyToAddress(k.Public)
}

// AddressString returns the checksummed address.
func (k *SignKeys) AddressString() string {
	return k.Address().String()
}

// SignEthereum signs message with the personal_sign prefix. The recovery id
// of the returned signature is 0 or 1.
func (k *SignKeys) SignEthereum(message []byte) ([]byte, error) {
	if k.Private.D == nil {
		return nil, errors.New("no private key available")
	}
	return ethcrypto.Sign(Hash(message), &k.Private)
}

// AddrFromSignature recovers the address that signed message.
func AddrFromSignature(message, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length %d", len(signature))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	// accept the 27/28 recovery id produced by wallets
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(Hash(message), sig)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// AddrFromPublicKey returns the address of a compressed or uncompressed
// public key.
func AddrFromPublicKey(pub []byte) (common.Address, error) {
	var (
		pk  *ecdsa.PublicKey
		err error
	)
	if len(pub) == 33 {
		pk, err = ethcrypto.DecompressPubkey(pub)
	} else {
		pk, err = ethcrypto.UnmarshalPubkey(pub)
	}
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pk), nil
}

// Hash returns the keccak256 of message prefixed with SigningPrefix and its
// length.
func Hash(message []byte) []byte {
	return HashRaw([]byte(fmt.Sprintf("%s%d%s", SigningPrefix, len(message), message)))
}

// HashRaw returns the keccak256 of data.
func HashRaw(data []byte) []byte {
	return ethcrypto.Keccak256(data)
}
