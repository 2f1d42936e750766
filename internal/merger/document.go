// Package merger owns the multi-target ABI document: a tree of declaration
// nodes, each annotated with the set of targets it is valid for, plus the
// operations that combine, project and render such trees.
package merger

import (
	"fmt"
	"io"

	"github.com/benedekh/binary-compatibility-validator/internal/hierarchy"
)

// node is one declaration in the arena. Merge identity is the signature text;
// two declarations are the same iff their signatures are byte-identical at
// the same tree position.
type node struct {
	signature string
	targets   hierarchy.TargetSet
	children  []int
}

// Merger holds one ABI document. Nodes live in an index-addressed arena;
// pruning drops links and leaves the slots behind. Insertion order of
// siblings is preserved for rendering.
type Merger struct {
	nodes     []node
	roots     []int
	known     hierarchy.TargetSet
	annotated bool
}

func NewMerger() *Merger {
	return &Merger{known: make(hierarchy.TargetSet)}
}

// KnownTargets returns a copy of every target ever contributed to the document.
func (m *Merger) KnownTargets() hierarchy.TargetSet {
	return m.known.Clone()
}

// Annotated reports whether the document was loaded from a dump carrying
// per-declaration target annotations.
func (m *Merger) Annotated() bool {
	return m.annotated
}

func (m *Merger) IsEmpty() bool {
	return len(m.roots) == 0 && len(m.known) == 0
}

// AddIndividualDump parses source as a single-target dump and merges it into
// the document. Adding a target twice is a ConflictError, as is a duplicate
// declaration at the same position within the dump.
func (m *Merger) AddIndividualDump(target string, source io.Reader) error {
	if m.known.Has(target) {
		return &ConflictError{Target: target}
	}

	staged := NewMerger()
	if err := staged.parseIndividual(target, source); err != nil {
		return err
	}

	for _, rootIdx := range staged.roots {
		m.mergeNode(-1, staged, rootIdx)
	}
	m.known.Add(target)
	return nil
}

// MergeTargetSpecific splices other, which must already be reduced to a
// single target, into this document: matching nodes get other's target
// unioned in, unmatched nodes are inserted as new siblings.
func (m *Merger) MergeTargetSpecific(other *Merger) error {
	if len(other.known) != 1 {
		return fmt.Errorf("can only merge a single-target document, got targets %s", other.known)
	}

	for _, rootIdx := range other.roots {
		m.mergeNode(-1, other, rootIdx)
	}
	m.known.Union(other.known)
	return nil
}

// RetainCommonAbi prunes every declaration not present on all known targets.
// Calling it again is a no-op.
func (m *Merger) RetainCommonAbi() {
	m.roots = m.retainEqual(m.roots)
}

// RetainTargetSpecificAbi prunes declarations the target does not manifest
// and narrows every survivor's annotation to just that target.
func (m *Merger) RetainTargetSpecificAbi(target string) {
	m.roots = m.retainTarget(m.roots, target)
	m.known = hierarchy.NewTargetSet(target)
}

// OverrideTargets relabels the whole document: every node at every depth gets
// exactly newTargets, regardless of prior content.
func (m *Merger) OverrideTargets(newTargets hierarchy.TargetSet) {
	m.overrideAll(m.roots, newTargets)
	m.known = newTargets.Clone()
}

func (m *Merger) childList(parentIdx int) []int {
	if parentIdx < 0 {
		return m.roots
	}
	return m.nodes[parentIdx].children
}

func (m *Merger) findChild(parentIdx int, signature string) int {
	for _, idx := range m.childList(parentIdx) {
		if m.nodes[idx].signature == signature {
			return idx
		}
	}
	return -1
}

func (m *Merger) newNode(signature string) int {
	m.nodes = append(m.nodes, node{signature: signature, targets: make(hierarchy.TargetSet)})
	return len(m.nodes) - 1
}

func (m *Merger) appendChild(parentIdx, idx int) {
	if parentIdx < 0 {
		m.roots = append(m.roots, idx)
		return
	}
	m.nodes[parentIdx].children = append(m.nodes[parentIdx].children, idx)
}

// mergeNode merges other's subtree rooted at otherIdx under m's parentIdx,
// creating nodes where m has no counterpart and unioning targets where it has.
func (m *Merger) mergeNode(parentIdx int, other *Merger, otherIdx int) {
	src := other.nodes[otherIdx]

	idx := m.findChild(parentIdx, src.signature)
	if idx < 0 {
		idx = m.newNode(src.signature)
		m.appendChild(parentIdx, idx)
	}
	m.nodes[idx].targets.Union(src.targets)

	for _, childIdx := range src.children {
		m.mergeNode(idx, other, childIdx)
	}
}

func (m *Merger) retainEqual(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, idx := range ids {
		if !m.nodes[idx].targets.Equal(m.known) {
			continue
		}
		m.nodes[idx].children = m.retainEqual(m.nodes[idx].children)
		out = append(out, idx)
	}
	return out
}

func (m *Merger) retainTarget(ids []int, target string) []int {
	out := make([]int, 0, len(ids))
	for _, idx := range ids {
		if !m.nodes[idx].targets.Has(target) {
			continue
		}
		m.nodes[idx].targets = hierarchy.NewTargetSet(target)
		m.nodes[idx].children = m.retainTarget(m.nodes[idx].children, target)
		out = append(out, idx)
	}
	return out
}

func (m *Merger) overrideAll(ids []int, targets hierarchy.TargetSet) {
	for _, idx := range ids {
		m.nodes[idx].targets = targets.Clone()
		m.overrideAll(m.nodes[idx].children, targets)
	}
}
