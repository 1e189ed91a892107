package domain

import (
	"encoding/hex"

	"go.trai.ch/zerr"
)

// HashSize is the width, in bytes, of a DataHash. 16 bytes (128 bits) meets
// the spec's "128 bits or larger" requirement while staying compact enough
// to use as a map key by value.
const HashSize = 16

// DataHash is a fixed-width content digest. The zero value denotes
// "invalid/unset" per spec §3.1.
type DataHash [HashSize]byte

// ZeroHash is the invalid/unset sentinel.
var ZeroHash = DataHash{}

// IsValid reports whether the hash is non-zero.
func (h DataHash) IsValid() bool {
	return h != ZeroHash
}

// AsText renders the hash as canonical lowercase hex.
func (h DataHash) AsText() string {
	return hex.EncodeToString(h[:])
}

// String satisfies fmt.Stringer for logging and error metadata.
func (h DataHash) String() string {
	return h.AsText()
}

// Less orders two hashes by their byte representation. Used where a
// deterministic but otherwise arbitrary ordering is needed (e.g. sorting
// discovered-dependency sets for canonical JSON).
func (h DataHash) Less(other DataHash) bool {
	for i := range h {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// DataHashFromText parses a canonical hex digest produced by AsText.
func DataHashFromText(s string) (DataHash, error) {
	var h DataHash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, zerr.With(zerr.Wrap(err, "failed to decode data hash hex text"), "text", s)
	}
	if len(decoded) != HashSize {
		return h, zerr.With(zerr.New("data hash text has wrong length"), "text", s)
	}
	copy(h[:], decoded)
	return h, nil
}
