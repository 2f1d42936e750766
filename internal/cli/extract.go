package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/fileutil"
	"github.com/benedekh/binary-compatibility-validator/internal/filters"
	"github.com/benedekh/binary-compatibility-validator/internal/reader"
)

type extractSummary struct {
	Target       string `json:"target"`
	SourceDir    string `json:"source_dir"`
	Output       string `json:"output"`
	Declarations int    `json:"declarations"`
}

func RunExtract(cmd *cobra.Command, args []string) error {
	srcDir := args[0]

	target, err := cmd.Flags().GetString("target")
	if err != nil {
		return fmt.Errorf("failed to read --target flag: %w", err)
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("--target is required")
	}

	filtersPath, err := cmd.Flags().GetString("filters")
	if err != nil {
		return fmt.Errorf("failed to read --filters flag: %w", err)
	}
	output, err := outputFlag(cmd)
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	dumpFilters := &filters.Filters{}
	if strings.TrimSpace(filtersPath) != "" {
		dumpFilters, err = filters.Load(filtersPath)
		if err != nil {
			return err
		}
	}

	decls, err := reader.New().ReadDirectory(srcDir, dumpFilters)
	if err != nil {
		return err
	}

	if err := writeOutput(output, func(w io.Writer) error {
		return reader.Render(w, decls)
	}); err != nil {
		return err
	}

	if asJSON {
		return fileutil.PrintJSON(extractSummary{
			Target:       target,
			SourceDir:    srcDir,
			Output:       output,
			Declarations: countDeclarations(decls),
		})
	}
	return nil
}

func countDeclarations(decls []reader.Declaration) int {
	count := 0
	for _, decl := range decls {
		count += 1 + countDeclarations(decl.Children)
	}
	return count
}
