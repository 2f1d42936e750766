package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/merger"
)

func RunMerge(cmd *cobra.Command, args []string) error {
	dumps, err := parseDumpArgs(args)
	if err != nil {
		return err
	}
	output, err := outputFlag(cmd)
	if err != nil {
		return err
	}
	aliases, err := boolFlag(cmd, "aliases")
	if err != nil {
		return err
	}

	m, err := buildMerger(dumps)
	if err != nil {
		return err
	}

	return writeOutput(output, func(w io.Writer) error {
		return m.Dump(w, merger.DumpFormat{IncludeTargets: true, UseGroupAliases: aliases})
	})
}

func RunCommon(cmd *cobra.Command, args []string) error {
	output, err := outputFlag(cmd)
	if err != nil {
		return err
	}
	aliases, err := boolFlag(cmd, "aliases")
	if err != nil {
		return err
	}

	m, err := loadMergedDump(args[0])
	if err != nil {
		return err
	}
	m.RetainCommonAbi()

	return writeOutput(output, func(w io.Writer) error {
		return m.Dump(w, merger.DumpFormat{IncludeTargets: m.Annotated(), UseGroupAliases: aliases})
	})
}

func RunSpecific(cmd *cobra.Command, args []string) error {
	target, dumpPath := args[0], args[1]

	output, err := outputFlag(cmd)
	if err != nil {
		return err
	}

	m, err := loadMergedDump(dumpPath)
	if err != nil {
		return err
	}
	m.RetainTargetSpecificAbi(target)

	return writeOutput(output, func(w io.Writer) error {
		return m.Dump(w, merger.DumpFormat{IncludeTargets: false})
	})
}
