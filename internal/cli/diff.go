package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/fileutil"
)

const maxReportedDiffs = 20

func RunDiff(cmd *cobra.Command, args []string) error {
	candidatePath, referencePath := args[0], args[1]

	candidate, err := os.ReadFile(candidatePath)
	if err != nil {
		return err
	}

	reference, err := os.ReadFile(referencePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("reference dump %s does not exist; commit the current dump to create it", referencePath)
		}
		return err
	}
	if len(reference) == 0 {
		fmt.Fprintf(os.Stderr, "note: reference dump %s is empty\n", referencePath)
	}

	// Dumps are compared as text, so checked-out line endings never count
	// as a difference.
	candidateLines := splitLines(fileutil.NormalizeLineEndings(candidate))
	referenceLines := splitLines(fileutil.NormalizeLineEndings(reference))

	diffs := 0
	maxLen := len(candidateLines)
	if len(referenceLines) > maxLen {
		maxLen = len(referenceLines)
	}
	for i := 0; i < maxLen && diffs < maxReportedDiffs; i++ {
		var candidateLine, referenceLine string
		if i < len(candidateLines) {
			candidateLine = candidateLines[i]
		}
		if i < len(referenceLines) {
			referenceLine = referenceLines[i]
		}
		if candidateLine == referenceLine {
			continue
		}
		diffs++
		fmt.Printf("line %d:\n", i+1)
		if i < len(referenceLines) {
			fmt.Printf("  -%s\n", referenceLine)
		}
		if i < len(candidateLines) {
			fmt.Printf("  +%s\n", candidateLine)
		}
	}

	if diffs > 0 {
		return fmt.Errorf("ABI dump %s differs from reference %s", candidatePath, referencePath)
	}
	fmt.Println("dumps match")
	return nil
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	lines := bytes.Split(data, []byte("\n"))
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = string(line)
	}
	return out
}
