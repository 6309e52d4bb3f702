// Package hashutil provides the stable hashing helpers used to derive
// partition group identifiers.
package hashutil

import (
	"slices"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/yanheven/ceilometer-1/types"
)

// HashOfSet returns a stable, order-independent hash of a resource set,
// rendered as a hex string suitable for embedding in a group id.
//
// Set membership, not order, defines group identity: two pipelines listing
// the same resources in different order land in the same partition group.
// Duplicates are ignored.
func HashOfSet(resources []types.Resource) string {
	uniq := make([]string, 0, len(resources))
	seen := make(map[types.Resource]struct{}, len(resources))
	for _, r := range resources {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		uniq = append(uniq, string(r))
	}
	slices.Sort(uniq)

	h := xxh3.New()
	for _, r := range uniq {
		// Length-prefix each element so {"ab","c"} and {"a","bc"}
		// hash differently.
		_, _ = h.WriteString(strconv.Itoa(len(r)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(r)
	}

	return strconv.FormatUint(h.Sum64(), 16)
}
