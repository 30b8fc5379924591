package slug

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// CollisionSuffix computes the 6-hex-character disambiguation suffix
// appended to a slug when a sibling already produced the same slug. It
// hashes "parentSID|slug|childIndex" with FNV-1a 64-bit and truncates to
// the low 24 bits.
//
// The only requirement on the hash is that it be deterministic across runs
// and platforms; a cryptographic hash would add cost without adding
// anything the suffix needs.
func CollisionSuffix(parentSID, candidateSlug string, childIndex int) string {
	h := fnv.New64a()
	h.Write([]byte(parentSID))
	h.Write([]byte("|"))
	h.Write([]byte(candidateSlug))
	h.Write([]byte("|"))
	h.Write([]byte(strconv.Itoa(childIndex)))
	sum := h.Sum64()
	low24 := sum & 0xFFFFFF
	return fmt.Sprintf("%06x", low24)
}
