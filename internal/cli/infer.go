package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/infer"
	"github.com/benedekh/binary-compatibility-validator/internal/merger"
)

func RunInfer(cmd *cobra.Command, args []string) error {
	target := args[0]

	dumps, err := parseDumpArgs(args[1:])
	if err != nil {
		return err
	}
	if _, supported := dumps[target]; supported {
		return fmt.Errorf("target %q has its own dump, nothing to infer", target)
	}

	imagePath, err := cmd.Flags().GetString("image")
	if err != nil {
		return fmt.Errorf("failed to read --image flag: %w", err)
	}
	output, err := outputFlag(cmd)
	if err != nil {
		return err
	}

	inferred, err := infer.InferDump(infer.Options{
		Target:         target,
		SupportedDumps: dumps,
		ImagePath:      imagePath,
		Diagnostics:    os.Stderr,
	})
	if err != nil {
		return err
	}

	return writeOutput(output, func(w io.Writer) error {
		return inferred.Dump(w, merger.DumpFormat{IncludeTargets: false})
	})
}
