// Package ring implements the consistent hash ring used to extract an
// agent's subset of a partitioned resource list.
package ring

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// DefaultVirtualNodes is the number of virtual nodes placed on the ring per
// member. Higher counts give a more even split of resources across members.
const DefaultVirtualNodes = 100

// Ring maps resource keys to group members using consistent hashing.
//
// Given the same member set, every agent builds an identical ring, so
// subset extraction is deterministic across the fleet: each resource is
// owned by exactly one member.
type Ring struct {
	// nodes contains all virtual nodes, sorted by position
	nodes []virtualNode

	// members holds the unique member list present on the ring
	members []string
}

// virtualNode is one position on the ring owned by a member.
type virtualNode struct {
	hash   uint64
	member string
}

// New builds a ring from the given members with virtualNodes positions per
// member. Duplicate members are ignored; member order does not affect the
// resulting ring.
func New(members []string, virtualNodes int) *Ring {
	if virtualNodes <= 0 {
		virtualNodes = DefaultVirtualNodes
	}

	r := &Ring{
		nodes:   make([]virtualNode, 0, len(members)*virtualNodes),
		members: make([]string, 0, len(members)),
	}

	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		r.members = append(r.members, m)
		r.addMember(m, virtualNodes)
	}

	slices.SortFunc(r.nodes, func(a, b virtualNode) int {
		if a.hash < b.hash {
			return -1
		}
		if a.hash > b.hash {
			return 1
		}

		return 0
	})

	return r
}

// Owner returns the member responsible for the given key, or "" when the
// ring is empty.
//
// Uses binary search for the first virtual node at or past the key's hash,
// wrapping to the first node when the key hashes past every node.
func (r *Ring) Owner(key string) string {
	if len(r.nodes) == 0 {
		return ""
	}

	h := xxh3.HashString(key)
	idx, _ := slices.BinarySearchFunc(r.nodes, h, func(node virtualNode, target uint64) int {
		if node.hash < target {
			return -1
		}
		if node.hash > target {
			return 1
		}

		return 0
	})
	if idx >= len(r.nodes) {
		idx = 0
	}

	return r.nodes[idx].member
}

// Members returns the unique members on the ring.
func (r *Ring) Members() []string {
	return append([]string(nil), r.members...)
}

// Size returns the total number of virtual nodes on the ring.
func (r *Ring) Size() int {
	return len(r.nodes)
}

// addMember places virtualNodes positions for one member, folding the vnode
// index into the member hash so positions stay stable across rebuilds.
func (r *Ring) addMember(member string, virtualNodes int) {
	base := xxh3.HashString(member)
	for i := range virtualNodes {
		var ib [8]byte
		binary.LittleEndian.PutUint64(ib[:], uint64(i)) //nolint:gosec // vnode index is small and non-negative
		r.nodes = append(r.nodes, virtualNode{
			hash:   xxh3.HashSeed(ib[:], base),
			member: member,
		})
	}
}
