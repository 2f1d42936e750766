package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benedekh/binary-compatibility-validator/internal/fileutil"
	"github.com/benedekh/binary-compatibility-validator/internal/manifest"
)

// DumpExtension is the conventional suffix for dump files tracked by status.
const DumpExtension = ".abi"

type statusSummary struct {
	DumpDir string   `json:"dump_dir"`
	Tracked int      `json:"tracked"`
	Changed []string `json:"changed"`
	Missing []string `json:"missing"`
	Updated bool     `json:"updated"`
}

func RunStatus(cmd *cobra.Command, args []string) error {
	dumpDir := "."
	if len(args) > 0 {
		dumpDir = args[0]
	}

	update, err := boolFlag(cmd, "update")
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	hashes, err := fileutil.ScanDumpHashes(dumpDir, DumpExtension)
	if err != nil {
		return err
	}

	m, err := manifest.Load(dumpDir)
	if err != nil {
		return err
	}

	summary := statusSummary{
		DumpDir: dumpDir,
		Tracked: len(hashes),
		Changed: m.Changed(hashes),
		Missing: m.Missing(hashes),
		Updated: update,
	}

	if update {
		m.Dumps = make(map[string]string, len(hashes))
		for path, hash := range hashes {
			m.SetDumpHash(path, hash)
		}
		if err := m.Save(dumpDir); err != nil {
			return err
		}
	}

	if asJSON {
		return fileutil.PrintJSON(summary)
	}

	if len(summary.Changed) == 0 && len(summary.Missing) == 0 {
		fmt.Printf("%d dump(s) tracked, no drift\n", summary.Tracked)
		return nil
	}
	for _, path := range summary.Changed {
		fmt.Printf("changed: %s\n", path)
	}
	for _, path := range summary.Missing {
		fmt.Printf("missing: %s\n", path)
	}
	return nil
}
