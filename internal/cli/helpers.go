package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/fileutil"
	"github.com/benedekh/binary-compatibility-validator/internal/merger"
)

// parseDumpArgs reads target=path pairs from the command line.
func parseDumpArgs(args []string) (map[string]string, error) {
	dumps := make(map[string]string, len(args))
	for _, arg := range args {
		target, path, ok := strings.Cut(arg, "=")
		target = strings.TrimSpace(target)
		path = strings.TrimSpace(path)
		if !ok || target == "" || path == "" {
			return nil, fmt.Errorf("expected <target>=<dump>, got %q", arg)
		}
		if _, dup := dumps[target]; dup {
			return nil, fmt.Errorf("target %q given more than once", target)
		}
		dumps[target] = path
	}
	return dumps, nil
}

// buildMerger adds every dump in sorted target order. The merge result does
// not depend on the order, sorting just keeps error reporting stable.
func buildMerger(dumps map[string]string) (*merger.Merger, error) {
	targets := make([]string, 0, len(dumps))
	for target := range dumps {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	m := merger.NewMerger()
	for _, target := range targets {
		if err := addDumpFile(m, target, dumps[target]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func addDumpFile(m *merger.Merger, target, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.AddIndividualDump(target, f); err != nil {
		return fmt.Errorf("failed to add dump %s for %s: %w", path, target, err)
	}
	return nil
}

func loadMergedDump(path string) (*merger.Merger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := merger.NewMerger()
	if err := m.LoadMergedDump(f); err != nil {
		return nil, fmt.Errorf("failed to load merged dump %s: %w", path, err)
	}
	return m, nil
}

// writeOutput renders to stdout for "-", otherwise to the given file,
// leaving an unchanged file untouched.
func writeOutput(path string, render func(io.Writer) error) error {
	if path == "" || path == "-" {
		return render(os.Stdout)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return fileutil.WriteIfChanged(path, buf.Bytes())
}

func outputFlag(cmd *cobra.Command) (string, error) {
	value, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", fmt.Errorf("failed to read --output flag: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}
