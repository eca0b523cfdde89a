package hash

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ContentKey normalizes a recorded content hash so that values exported by
// different tools compare equal regardless of case or stray whitespace.
func ContentKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Sum returns the hex-encoded xxHash of data.
func Sum(data []byte) string {
	h := xxhash.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// XXHashFunc is a custom hash function adapter for go-merkletree
// It converts []byte input to xxHash []byte output
func XXHashFunc(data []byte) ([]byte, error) {
	sum := xxhash.Sum64(data)

	// Convert uint64 to []byte in big-endian format
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return buf, nil
}
