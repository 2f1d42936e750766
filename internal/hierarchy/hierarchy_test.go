package hierarchy

import "testing"

func TestTargetsReturnsTransitiveLeaves(t *testing.T) {
	linux := Targets("linux")
	if !linux.Equal(NewTargetSet("linuxArm64", "linuxX64")) {
		t.Fatalf("unexpected linux leaves: %s", linux)
	}

	apple := Targets("apple")
	for _, leaf := range []string{"iosArm64", "macosX64", "tvosArm64", "watchosArm32"} {
		if !apple.Has(leaf) {
			t.Fatalf("expected apple to contain %s, got %s", leaf, apple)
		}
	}
	if apple.Has("ios") {
		t.Fatalf("expected apple leaves to exclude group names, got %s", apple)
	}
}

func TestTargetsOfUnknownGroupIsEmpty(t *testing.T) {
	if unknown := Targets("jvm"); len(unknown) != 0 {
		t.Fatalf("expected empty set for unknown group, got %s", unknown)
	}
}

func TestTargetsReturnsACopy(t *testing.T) {
	first := Targets("linux")
	first.Add("mutated")
	if Targets("linux").Has("mutated") {
		t.Fatalf("Targets must not expose shared state")
	}
}

func TestParentWalksTheTree(t *testing.T) {
	steps := []struct{ name, parent string }{
		{"iosArm64", "ios"},
		{"ios", "apple"},
		{"apple", "native"},
		{"native", Root},
	}
	for _, step := range steps {
		parent, ok := Parent(step.name)
		if !ok || parent != step.parent {
			t.Fatalf("Parent(%s) = %q, %v; want %q", step.name, parent, ok, step.parent)
		}
	}

	if _, ok := Parent(Root); ok {
		t.Fatalf("the root must not have a parent")
	}
}

func TestParentOfDetachedLeaves(t *testing.T) {
	parent, ok := Parent("linuxArm32")
	if !ok || parent != "linux" {
		t.Fatalf("Parent(linuxArm32) = %q, %v; want linux", parent, ok)
	}
	parent, ok = Parent("mingwX86")
	if !ok || parent != "mingw" {
		t.Fatalf("Parent(mingwX86) = %q, %v; want mingw", parent, ok)
	}
	if _, ok := Parent("jvm"); ok {
		t.Fatalf("fully unknown names must have no parent")
	}
}

func TestGroupNamesListsOnlyGroups(t *testing.T) {
	groups := NewTargetSet(GroupNames()...)
	for _, group := range []string{Root, "native", "apple", "ios", "linux"} {
		if !groups.Has(group) {
			t.Fatalf("expected group list to contain %s", group)
		}
	}
	if groups.Has("iosArm64") {
		t.Fatalf("leaf targets must not appear in the group list")
	}
}
