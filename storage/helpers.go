package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoding mode: %v", err))
	}
	return em
}()

// EncodeArtifact encodes a using the deterministic cbor encoding, so equal
// values always produce equal bytes.
func EncodeArtifact(a any) ([]byte, error) {
	return encMode.Marshal(a)
}

// DecodeArtifact decodes data into out.
func DecodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// Uint64Key encodes n as an 8 byte big endian key, so keys iterate in
// numeric order.
func Uint64Key(n uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, n)
}
