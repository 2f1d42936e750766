package manifest

import (
	"reflect"
	"testing"
)

func TestLoadMissingManifestIsEmpty(t *testing.T) {
	m, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Dumps) != 0 || m.Version != CurrentVersion {
		t.Fatalf("unexpected empty manifest: %+v", m)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest()
	m.SetDumpHash("linuxX64.abi", "aaaa")
	m.SetDumpHash("mingwX64.abi", "bbbb")
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.Dumps, m.Dumps) {
		t.Fatalf("round trip changed dumps: %v vs %v", loaded.Dumps, m.Dumps)
	}
}

func TestChangedAndMissing(t *testing.T) {
	m := NewManifest()
	m.SetDumpHash("a.abi", "aaaa")
	m.SetDumpHash("b.abi", "bbbb")

	current := map[string]string{
		"a.abi": "aaaa",
		"c.abi": "cccc",
	}

	if changed := m.Changed(current); !reflect.DeepEqual(changed, []string{"c.abi"}) {
		t.Fatalf("unexpected changed set: %v", changed)
	}
	if missing := m.Missing(current); !reflect.DeepEqual(missing, []string{"b.abi"}) {
		t.Fatalf("unexpected missing set: %v", missing)
	}

	current["a.abi"] = "dddd"
	if changed := m.Changed(current); !reflect.DeepEqual(changed, []string{"a.abi", "c.abi"}) {
		t.Fatalf("unexpected changed set after modification: %v", changed)
	}
}
