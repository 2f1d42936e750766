// Package hierarchy models the static target-group tree used to compress
// target sets into group aliases and to find the nearest relatives of a
// target. The tree is fixed at compile time and safe for concurrent reads.
package hierarchy

import "sort"

const Root = "all"

// groupChildren lists the direct children (groups or leaf targets) of every
// group. Leaf targets are the names that never appear as keys here.
var groupChildren = map[string][]string{
	Root:            {"js", "native", "wasmJs", "wasmWasi"},
	"native":        {"androidNative", "apple", "linux", "mingw"},
	"androidNative": {"androidNativeArm32", "androidNativeArm64", "androidNativeX64", "androidNativeX86"},
	"apple":         {"ios", "macos", "tvos", "watchos"},
	"ios":           {"iosArm64", "iosSimulatorArm64", "iosX64"},
	"macos":         {"macosArm64", "macosX64"},
	"tvos":          {"tvosArm64", "tvosSimulatorArm64", "tvosX64"},
	"watchos":       {"watchosArm32", "watchosArm64", "watchosDeviceArm64", "watchosSimulatorArm64", "watchosX64"},
	"linux":         {"linuxArm64", "linuxX64"},
	"mingw":         {"mingwX64"},
}

// detachedParents maps target names absent from the tree to the group they
// would belong to. Lookup is by name only, never by tree containment.
var detachedParents = map[string]string{
	"iosArm32":      "ios",
	"linuxArm32":    "linux",
	"linuxArm32Hfp": "linux",
	"linuxMips32":   "linux",
	"linuxMipsel32": "linux",
	"mingwX86":      "mingw",
	"wasm32":        "native",
	"watchosX86":    "watchos",
}

var (
	parentOf = buildParents()
	leavesOf = buildLeaves()
)

func buildParents() map[string]string {
	out := make(map[string]string)
	for group, children := range groupChildren {
		for _, child := range children {
			out[child] = group
		}
	}
	return out
}

func buildLeaves() map[string]TargetSet {
	out := make(map[string]TargetSet, len(groupChildren))
	var collect func(name string) TargetSet
	collect = func(name string) TargetSet {
		children, ok := groupChildren[name]
		if !ok {
			return NewTargetSet(name)
		}
		if cached, done := out[name]; done {
			return cached
		}
		leaves := make(TargetSet)
		for _, child := range children {
			leaves.Union(collect(child))
		}
		out[name] = leaves
		return leaves
	}
	for group := range groupChildren {
		collect(group)
	}
	return out
}

// Targets returns the transitive leaf-target membership of a group. Unknown
// names yield an empty set.
func Targets(group string) TargetSet {
	leaves, ok := leavesOf[group]
	if !ok {
		return make(TargetSet)
	}
	return leaves.Clone()
}

// Parent returns the immediate ancestor group of a group or target. Names
// outside the tree fall back to the detached-leaf table; the root and fully
// unknown names have no parent.
func Parent(name string) (string, bool) {
	if parent, ok := parentOf[name]; ok {
		return parent, true
	}
	if parent, ok := detachedParents[name]; ok {
		return parent, true
	}
	return "", false
}

// IsGroup reports whether name is a non-leaf node of the tree.
func IsGroup(name string) bool {
	_, ok := groupChildren[name]
	return ok
}

// GroupNames returns every non-leaf name, sorted.
func GroupNames() []string {
	out := make([]string, 0, len(groupChildren))
	for group := range groupChildren {
		out = append(out, group)
	}
	sort.Strings(out)
	return out
}
