package merger

import (
	"bufio"
	"io"
	"strings"

	"github.com/benedekh/binary-compatibility-validator/internal/hierarchy"
)

// DumpFormat selects how a document renders.
type DumpFormat struct {
	// IncludeTargets suffixes every declaration with its target list. It may
	// only be disabled for single-target documents.
	IncludeTargets bool
	// UseGroupAliases compresses target lists through the hierarchy. Ignored
	// when a group name collides with a real target in the document.
	UseGroupAliases bool
}

// Dump renders the document. Output is byte-stable for an unchanged document:
// siblings keep insertion order and target lists are always sorted.
func (m *Merger) Dump(sink io.Writer, format DumpFormat) error {
	if !format.IncludeTargets && len(m.known) > 1 {
		return &RenderError{Msg: "cannot omit target annotations from a document with targets " + m.known.String()}
	}

	aliasing := format.UseGroupAliases && !m.groupTargetNameClash()

	w := bufio.NewWriter(sink)
	if format.IncludeTargets {
		w.WriteString("// Klib ABI merged dump\n")
		w.WriteString("// Targets: " + renderTargets(m.known, aliasing) + "\n")
	} else {
		w.WriteString("// Klib ABI dump\n")
	}

	for _, rootIdx := range m.roots {
		m.writeNode(w, rootIdx, 0, format.IncludeTargets, aliasing)
	}
	return w.Flush()
}

func (m *Merger) writeNode(w *bufio.Writer, idx, depth int, includeTargets, aliasing bool) {
	n := m.nodes[idx]

	w.WriteString(strings.Repeat(" ", depth*indentWidth))
	w.WriteString(n.signature)
	if includeTargets {
		w.WriteString(" // " + renderTargets(n.targets, aliasing))
	}
	w.WriteString("\n")

	for _, childIdx := range n.children {
		m.writeNode(w, childIdx, depth+1, includeTargets, aliasing)
	}
}

// groupTargetNameClash reports whether some hierarchy group name is also a
// real target of the document. Aliasing is disabled outright in that case;
// an alias that reads as a target would be ambiguous on reload.
func (m *Merger) groupTargetNameClash() bool {
	for _, group := range hierarchy.GroupNames() {
		if m.known.Has(group) {
			return true
		}
	}
	return false
}

func renderTargets(ts hierarchy.TargetSet, aliasing bool) string {
	names := ts.Sorted()
	if aliasing {
		names = hierarchy.CompressTargets(ts)
	}
	return "[" + strings.Join(names, ", ") + "]"
}
