package domain

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashBytes computes a DataHash over arbitrary bytes. xxhash64 produces 8
// bytes of digest; it is mirrored into the low half of the 16-byte
// DataHash and the high half is derived from hashing the digest again so
// that the full width is used (cheap insurance against accidental
// collisions when DataHash values are compared byte-for-byte).
func HashBytes(b []byte) DataHash {
	var h DataHash
	sum := xxhash.Sum64(b)
	binary.BigEndian.PutUint64(h[0:8], sum)
	sum2 := xxhash.Sum64(h[0:8])
	binary.BigEndian.PutUint64(h[8:16], sum2)
	return h
}

// HashJSON hashes the canonical JSON encoding of a SimpleDependency. This
// is the "key hash" of spec §C8/§GLOSSARY: hash(json(deps)).
func HashJSON(dep *SimpleDependency) (DataHash, error) {
	data, err := dep.CanonicalJSON()
	if err != nil {
		return ZeroHash, err
	}
	return HashBytes(data), nil
}

// hashInt64s combines a sorted slice of int64 timestamps into one
// DataHash, used by FileDateCache.WildcardFileTimesHash.
func hashInt64s(vals []int64) DataHash {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(buf[i*8:i*8+8], uint64(v))
	}
	return HashBytes(buf)
}
