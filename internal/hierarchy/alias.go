package hierarchy

import "sort"

// CompressTargets rewrites a target set as the minimal list of group aliases
// plus leftover leaf targets that exactly reconstructs it. The walk descends
// from the root and emits a group as soon as all of its leaves are covered,
// so a set equal to a whole family collapses to that family's name. Output
// order is lexicographic and deterministic.
func CompressTargets(ts TargetSet) []string {
	remaining := ts.Clone()
	names := make([]string, 0, len(ts))
	compressInto(Root, remaining, &names)

	// Targets outside the tree entirely can never alias.
	names = append(names, remaining.Sorted()...)
	sort.Strings(names)
	return names
}

func compressInto(group string, remaining TargetSet, names *[]string) {
	leaves := leavesOf[group]
	if len(leaves) > 0 && remaining.ContainsAll(leaves) {
		*names = append(*names, group)
		for leaf := range leaves {
			delete(remaining, leaf)
		}
		return
	}

	for _, child := range groupChildren[group] {
		if IsGroup(child) {
			compressInto(child, remaining, names)
			continue
		}
		if remaining[child] {
			*names = append(*names, child)
			delete(remaining, child)
		}
	}
}

// ExpandAlias resolves a rendered name back into leaf targets: group names
// expand to their membership, anything else is taken as a literal target.
func ExpandAlias(name string) TargetSet {
	if IsGroup(name) {
		return Targets(name)
	}
	return NewTargetSet(name)
}
