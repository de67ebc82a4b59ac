package balancer

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/William-Gardner-Biotech/SRA-Dispatch/types"
)

// Fingerprint returns a stable 64-bit hash of the ordered group memberships.
//
// Two runs with the same fingerprint wrote the same members to the same group
// indexes in the same order. Group weights and writer references are not
// part of the hash.
//
// Returns:
//   - uint64: xxh3 hash (0 for no groups)
func Fingerprint(groups []types.Group) uint64 {
	if len(groups) == 0 {
		return 0
	}

	h := xxh3.New()
	var buf [8]byte
	for _, g := range groups {
		binary.LittleEndian.PutUint64(buf[:], uint64(g.Index)) //nolint:gosec // index is positive
		_, _ = h.Write(buf[:])

		for _, id := range g.Members {
			binary.LittleEndian.PutUint64(buf[:], uint64(len(id)))
			_, _ = h.Write(buf[:])
			_, _ = h.WriteString(id)
		}
	}

	return h.Sum64()
}
