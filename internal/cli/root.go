package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "abi",
		Short: "Validate that a library's public ABI only changes intentionally",
		Long: `abi produces deterministic textual dumps of a library's public binary
interface per compilation target, merges them into one multi-target
document, and compares new dumps against committed references.`,
		SilenceUsage: true,
	}

	extractCmd := &cobra.Command{
		Use:   "extract <src-dir>",
		Short: "Extract a single-target ABI dump from Kotlin sources",
		Args:  cobra.ExactArgs(1),
		RunE:  RunExtract,
	}
	extractCmd.Flags().String("target", "", "Compilation target the dump belongs to")
	extractCmd.Flags().String("filters", "", "Path to an abi-filters.yaml config")
	extractCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	extractCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	mergeCmd := &cobra.Command{
		Use:   "merge <target>=<dump> ...",
		Short: "Merge single-target dumps into one multi-target dump",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunMerge,
	}
	mergeCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	mergeCmd.Flags().Bool("aliases", false, "Compress target lists into hierarchy group aliases")

	commonCmd := &cobra.Command{
		Use:   "common <merged-dump>",
		Short: "Keep only declarations shared by every target",
		Args:  cobra.ExactArgs(1),
		RunE:  RunCommon,
	}
	commonCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")
	commonCmd.Flags().Bool("aliases", false, "Compress target lists into hierarchy group aliases")

	specificCmd := &cobra.Command{
		Use:   "specific <target> <merged-dump>",
		Short: "Project a merged dump down to one target's ABI",
		Args:  cobra.ExactArgs(2),
		RunE:  RunSpecific,
	}
	specificCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")

	inferCmd := &cobra.Command{
		Use:   "infer <target> <supported>=<dump> ...",
		Short: "Infer a dump for a target this host cannot compile for",
		Args:  cobra.MinimumNArgs(2),
		RunE:  RunInfer,
	}
	inferCmd.Flags().String("image", "", "Previously merged dump with target-specific declarations")
	inferCmd.Flags().StringP("output", "o", "-", "Output file, - for stdout")

	diffCmd := &cobra.Command{
		Use:   "diff <candidate> <reference>",
		Short: "Compare a dump against its committed reference",
		Args:  cobra.ExactArgs(2),
		RunE:  RunDiff,
	}

	statusCmd := &cobra.Command{
		Use:   "status [dump-dir]",
		Short: "Report dump files that drifted since the last recorded state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("update", false, "Record the current dump hashes")
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("abi %s\n", version)
		},
	}

	rootCmd.AddCommand(
		extractCmd,
		mergeCmd,
		commonCmd,
		specificCmd,
		inferCmd,
		diffCmd,
		statusCmd,
		versionCmd,
	)

	return rootCmd
}
