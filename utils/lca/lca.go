// Package lca implements the lowest-common-ancestor split over namespace
// paths used to resolve explicit cross-scope bindings. Namespace paths
// are ordered sequences of mangled step names; the LCA is purely a
// prefix operation on those sequences, never a graph traversal.
package lca

// Partition splits A relative to B: common is the longest prefix shared
// element-wise by A and B, and tail is A with that prefix removed.
// Partition(B, A) yields the same common prefix (LCA symmetry) --
// callers that need both sides should call Partition twice and may
// assert the two `common` results agree.
func Partition(a, b []string) (common, tail []string) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	common = append([]string{}, a[:i]...)
	tail = append([]string{}, a[i:]...)
	return common, tail
}

// Symmetric partitions both A relative to B and B relative to A, and
// panics if their common prefixes disagree -- this would indicate a
// compiler bug (an internal invariant violation, the "LCA invariant
// violation" fatal case), since prefix equality is inherently
// symmetric.
func Symmetric(a, b []string) (commonA, tailA, tailB []string) {
	commonA, tailA = Partition(a, b)
	commonB, tb := Partition(b, a)
	if !equal(commonA, commonB) {
		panic("lca: partition invariant violated: Partition(a,b).common != Partition(b,a).common")
	}
	return commonA, tailA, tb
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
