package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benedekh/binary-compatibility-validator/internal/manifest"
)

func TestMergeCommonSpecificFlow(t *testing.T) {
	dir := t.TempDir()
	arm64 := writeFile(t, dir, "linuxArm64.abi", "class example/Foo\n    fun bar()\n")
	x64 := writeFile(t, dir, "linuxX64.abi", "class example/Foo\n    fun bar()\n    fun baz()\n")
	mergedPath := filepath.Join(dir, "merged.abi")

	mustRun(t, "merge", "linuxArm64="+arm64, "linuxX64="+x64, "-o", mergedPath)

	merged := readFile(t, mergedPath)
	want := `// Klib ABI merged dump
// Targets: [linuxArm64, linuxX64]
class example/Foo // [linuxArm64, linuxX64]
    fun bar() // [linuxArm64, linuxX64]
    fun baz() // [linuxX64]
`
	if merged != want {
		t.Fatalf("unexpected merged dump:\n%s\nwant:\n%s", merged, want)
	}

	commonPath := filepath.Join(dir, "common.abi")
	mustRun(t, "common", mergedPath, "-o", commonPath)
	common := readFile(t, commonPath)
	if !strings.Contains(common, "fun bar()") || strings.Contains(common, "fun baz()") {
		t.Fatalf("unexpected common dump:\n%s", common)
	}

	specificPath := filepath.Join(dir, "linuxX64-only.abi")
	mustRun(t, "specific", "linuxX64", mergedPath, "-o", specificPath)
	specific := readFile(t, specificPath)
	wantSpecific := `// Klib ABI dump
class example/Foo
    fun bar()
    fun baz()
`
	if specific != wantSpecific {
		t.Fatalf("unexpected specific dump:\n%s\nwant:\n%s", specific, wantSpecific)
	}
}

func TestMergeWithAliasesCompressesTargets(t *testing.T) {
	dir := t.TempDir()
	arm64 := writeFile(t, dir, "linuxArm64.abi", "class example/Foo\n")
	x64 := writeFile(t, dir, "linuxX64.abi", "class example/Foo\n")
	mergedPath := filepath.Join(dir, "merged.abi")

	mustRun(t, "merge", "linuxArm64="+arm64, "linuxX64="+x64, "-o", mergedPath, "--aliases")

	if merged := readFile(t, mergedPath); !strings.Contains(merged, "// Targets: [linux]") {
		t.Fatalf("expected the linux alias in the merged dump:\n%s", merged)
	}
}

func TestMergeRejectsMalformedArguments(t *testing.T) {
	if err := runCLI("merge", "not-a-pair"); err == nil {
		t.Fatalf("expected an error for a malformed target=dump argument")
	}
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	reference := writeFile(t, dir, "reference.abi", "class example/Foo\n    fun bar()\n")
	same := writeFile(t, dir, "same.abi", "class example/Foo\r\n    fun bar()\r\n")
	changed := writeFile(t, dir, "changed.abi", "class example/Foo\n    fun qux()\n")

	if err := runCLI("diff", same, reference); err != nil {
		t.Fatalf("dumps differing only in line endings must match: %v", err)
	}
	if err := runCLI("diff", changed, reference); err == nil {
		t.Fatalf("expected a changed dump to be reported")
	}

	missing := filepath.Join(dir, "missing.abi")
	err := runCLI("diff", changed, missing)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected a distinct error for a missing reference, got %v", err)
	}
}

func TestDiffEmptyReference(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.abi", "")
	candidate := writeFile(t, dir, "candidate.abi", "class example/Foo\n")

	// An empty reference is a real file, not a missing one. It still counts
	// as a difference against a non-empty candidate.
	err := runCLI("diff", candidate, empty)
	if err == nil || strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected a plain difference for an empty reference, got %v", err)
	}

	alsoEmpty := writeFile(t, dir, "also-empty.abi", "")
	if err := runCLI("diff", alsoEmpty, empty); err != nil {
		t.Fatalf("two empty dumps must match: %v", err)
	}
}

func TestInferCommand(t *testing.T) {
	dir := t.TempDir()
	arm64 := writeFile(t, dir, "linuxArm64.abi", "class example/Foo\n    fun bar()\n")
	x64 := writeFile(t, dir, "linuxX64.abi", "class example/Foo\n    fun bar()\n    fun onlyX64()\n")
	outPath := filepath.Join(dir, "linuxArm32.abi")

	mustRun(t, "infer", "linuxArm32", "linuxArm64="+arm64, "linuxX64="+x64, "-o", outPath)

	inferred := readFile(t, outPath)
	if !strings.Contains(inferred, "fun bar()") || strings.Contains(inferred, "onlyX64") {
		t.Fatalf("unexpected inferred dump:\n%s", inferred)
	}
}

func TestInferFailsForUnrelatedTarget(t *testing.T) {
	dir := t.TempDir()
	x64 := writeFile(t, dir, "linuxX64.abi", "class example/Foo\n")
	outPath := filepath.Join(dir, "jvm.abi")

	if err := runCLI("infer", "jvm", "linuxX64="+x64, "-o", outPath); err == nil {
		t.Fatalf("expected inference to fail for a target with no relatives")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("no output file may be produced on inference failure")
	}
}

func TestStatusTracksDumpDrift(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "linuxX64.abi", "class example/Foo\n")

	mustRun(t, "status", dir, "--update")
	if _, err := os.Stat(filepath.Join(dir, manifest.ManifestFile)); err != nil {
		t.Fatalf("expected the manifest to be written: %v", err)
	}

	loaded, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("manifest.Load failed: %v", err)
	}
	if len(loaded.Dumps) != 1 {
		t.Fatalf("expected one tracked dump, got %v", loaded.Dumps)
	}

	// Plain status runs stay informational even when dumps drift.
	writeFile(t, dir, "linuxX64.abi", "class example/Changed\n")
	mustRun(t, "status", dir)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	writeFile(t, srcDir, "greeter.kt", `package sample

class Greeter {
    fun greet(name: String): String = name
    private fun hidden() {}
}
`)
	outPath := filepath.Join(dir, "linuxX64.abi")

	mustRun(t, "extract", srcDir, "--target", "linuxX64", "-o", outPath)

	dump := readFile(t, outPath)
	if !strings.Contains(dump, "class sample/Greeter") {
		t.Fatalf("expected the extracted dump to contain Greeter:\n%s", dump)
	}
	if strings.Contains(dump, "hidden") {
		t.Fatalf("private members must not be extracted:\n%s", dump)
	}
}

func TestExtractRequiresTarget(t *testing.T) {
	if err := runCLI("extract", t.TempDir()); err == nil {
		t.Fatalf("expected an error when --target is missing")
	}
}

func runCLI(args ...string) error {
	root := NewRootCommand("test")
	root.SilenceErrors = true
	root.SetArgs(args)
	return root.Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCLI(args...); err != nil {
		t.Fatalf("abi %s failed: %v", strings.Join(args, " "), err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
