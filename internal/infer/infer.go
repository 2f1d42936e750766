// Package infer reconstructs a plausible ABI dump for a target the current
// host cannot compile for, by borrowing from its nearest supported relatives
// in the target hierarchy.
package infer

import (
	"fmt"
	"io"
	"os"

	"github.com/benedekh/binary-compatibility-validator/internal/hierarchy"
	"github.com/benedekh/binary-compatibility-validator/internal/merger"
)

// InferenceError means no hierarchy ancestor of the target shares any
// supported target, so there is nothing to infer from.
type InferenceError struct {
	Target string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("no target similar to %q is supported on this host", e.Target)
}

// Options configures one inference run.
type Options struct {
	// Target is the unsupported target to infer a dump for.
	Target string
	// SupportedDumps maps each supported target to its individual dump path.
	SupportedDumps map[string]string
	// ImagePath optionally points at a previously merged dump; target-specific
	// declarations recorded there are spliced into the result. A missing or
	// empty file means no prior knowledge.
	ImagePath string
	// Diagnostics receives the non-fatal inference warning. Nil discards it.
	Diagnostics io.Writer
}

// InferDump builds the inferred document: the common ABI of the nearest
// populated hierarchy ancestor's supported targets, overlaid with any
// previously recorded declarations unique to the target, relabeled to the
// target itself.
func InferDump(opts Options) (*merger.Merger, error) {
	supported := hierarchy.NewTargetSet()
	for target := range opts.SupportedDumps {
		supported.Add(target)
	}

	donors, err := findDonors(opts.Target, supported)
	if err != nil {
		return nil, err
	}

	candidate := merger.NewMerger()
	for _, donor := range donors.Sorted() {
		if err := addDumpFile(candidate, donor, opts.SupportedDumps[donor]); err != nil {
			return nil, err
		}
	}
	candidate.RetainCommonAbi()

	if err := spliceImage(candidate, opts.Target, opts.ImagePath); err != nil {
		return nil, err
	}

	candidate.OverrideTargets(hierarchy.NewTargetSet(opts.Target))

	if opts.Diagnostics != nil {
		fmt.Fprintf(opts.Diagnostics,
			"warning: ABI dump for %s is inferred from %s and may not reflect the real ABI\n",
			opts.Target, donors)
	}
	return candidate, nil
}

// findDonors climbs the hierarchy from the target until an ancestor group
// covers at least one supported target.
func findDonors(target string, supported hierarchy.TargetSet) (hierarchy.TargetSet, error) {
	name := target
	for {
		parent, ok := hierarchy.Parent(name)
		if !ok {
			return nil, &InferenceError{Target: target}
		}
		donors := hierarchy.Targets(parent).Intersect(supported)
		if len(donors) > 0 {
			return donors, nil
		}
		name = parent
	}
}

func addDumpFile(m *merger.Merger, target, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.AddIndividualDump(target, f); err != nil {
		return fmt.Errorf("failed to add dump for %s: %w", target, err)
	}
	return nil
}

func spliceImage(candidate *merger.Merger, target, imagePath string) error {
	if imagePath == "" {
		return nil
	}
	info, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	image := merger.NewMerger()
	if err := image.LoadMergedDump(f); err != nil {
		return fmt.Errorf("failed to load prior image %s: %w", imagePath, err)
	}
	if !image.KnownTargets().Has(target) {
		return nil
	}
	image.RetainTargetSpecificAbi(target)
	return candidate.MergeTargetSpecific(image)
}
