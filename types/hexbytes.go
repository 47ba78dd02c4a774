package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// HexBytes is a []byte which encodes as hexadecimal in json, as opposed to
// the base64 default. The 0x prefix is optional when decoding.
type HexBytes []byte

// String returns the 0x prefixed hexadecimal representation.
func (b HexBytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// Hex returns the hexadecimal representation without prefix.
func (b HexBytes) Hex() string {
	return hex.EncodeToString(b)
}

// MarshalJSON implements json.Marshaler.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := HexStringToHexBytes(s)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// HexStringToHexBytes decodes a hex string, with or without the 0x prefix.
func HexStringToHexBytes(s string) (HexBytes, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}
	return b, nil
}

// HexBytesList converts a list of HexBytes to a list of plain byte slices.
func HexBytesList(l []HexBytes) [][]byte {
	out := make([][]byte, len(l))
	for i := range l {
		out[i] = l[i]
	}
	return out
}
