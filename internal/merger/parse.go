package merger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benedekh/binary-compatibility-validator/internal/hierarchy"
)

const (
	indentWidth   = 4
	targetsHeader = "// Targets: ["
)

// parseIndividual reads a single-target dump into an empty merger. Blank
// lines and // comments are skipped; nesting is carried by indentation in
// steps of four spaces.
func (m *Merger) parseIndividual(target string, source io.Reader) error {
	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	stack := make([]int, 0, 8)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		signature := strings.TrimSpace(line)
		if signature == "" || strings.HasPrefix(signature, "//") {
			continue
		}

		depth, err := lineDepth(line, lineNo)
		if err != nil {
			return err
		}
		if depth > len(stack) {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("nesting jumps from depth %d to %d", len(stack), depth)}
		}
		stack = stack[:depth]

		parentIdx := -1
		if depth > 0 {
			parentIdx = stack[depth-1]
		}
		if m.findChild(parentIdx, signature) >= 0 {
			return &ConflictError{Signature: signature}
		}

		idx := m.newNode(signature)
		m.nodes[idx].targets = hierarchy.NewTargetSet(target)
		m.appendChild(parentIdx, idx)
		stack = append(stack, idx)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	m.known = hierarchy.NewTargetSet(target)
	return nil
}

// LoadMergedDump parses a previously rendered multi-target dump back into an
// empty document, expanding group aliases through the hierarchy. The
// "// Targets:" header is required so the document's known-target set
// survives the round trip even when no declaration spans every target.
func (m *Merger) LoadMergedDump(source io.Reader) error {
	if !m.IsEmpty() {
		return errors.New("cannot load a merged dump into a populated document")
	}

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	stack := make([]int, 0, 8)
	lineNo := 0
	haveHeader := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") {
			if strings.HasPrefix(trimmed, targetsHeader) {
				known, err := parseHeaderTargets(trimmed, lineNo)
				if err != nil {
					return err
				}
				m.known = known
				haveHeader = true
			}
			continue
		}

		if !haveHeader {
			return &ParseError{Line: lineNo, Msg: "declaration before the // Targets: header"}
		}

		signature, targets, err := splitAnnotatedLine(trimmed, lineNo, m.known)
		if err != nil {
			return err
		}

		depth, err := lineDepth(line, lineNo)
		if err != nil {
			return err
		}
		if depth > len(stack) {
			return &ParseError{Line: lineNo, Msg: fmt.Sprintf("nesting jumps from depth %d to %d", len(stack), depth)}
		}
		stack = stack[:depth]

		parentIdx := -1
		if depth > 0 {
			parentIdx = stack[depth-1]
			if !m.nodes[parentIdx].targets.ContainsAll(targets) {
				return &ParseError{Line: lineNo, Msg: "declaration targets exceed the enclosing declaration"}
			}
		}
		if m.findChild(parentIdx, signature) >= 0 {
			return &ConflictError{Signature: signature}
		}

		idx := m.newNode(signature)
		m.nodes[idx].targets = targets
		m.appendChild(parentIdx, idx)
		stack = append(stack, idx)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if !haveHeader {
		return &ParseError{Line: lineNo, Msg: "missing // Targets: header"}
	}
	m.annotated = true
	return nil
}

func lineDepth(line string, lineNo int) (int, error) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	if indent < len(line) && line[indent] == '\t' {
		return 0, &ParseError{Line: lineNo, Msg: "tab indentation is not allowed"}
	}
	if indent%indentWidth != 0 {
		return 0, &ParseError{Line: lineNo, Msg: fmt.Sprintf("indentation of %d spaces is not a multiple of %d", indent, indentWidth)}
	}
	return indent / indentWidth, nil
}

func parseHeaderTargets(trimmed string, lineNo int) (hierarchy.TargetSet, error) {
	body := strings.TrimPrefix(trimmed, targetsHeader)
	if !strings.HasSuffix(body, "]") {
		return nil, &ParseError{Line: lineNo, Msg: "malformed // Targets: header"}
	}
	known := expandNames(strings.TrimSuffix(body, "]"))
	if len(known) == 0 {
		return nil, &ParseError{Line: lineNo, Msg: "empty // Targets: header"}
	}
	return known, nil
}

// splitAnnotatedLine separates "signature // [a, b]" and expands aliases,
// checking every resulting target against the document's known set.
func splitAnnotatedLine(trimmed string, lineNo int, known hierarchy.TargetSet) (string, hierarchy.TargetSet, error) {
	idx := strings.LastIndex(trimmed, " // [")
	if idx < 0 || !strings.HasSuffix(trimmed, "]") {
		return "", nil, &ParseError{Line: lineNo, Msg: "declaration is missing its target annotation"}
	}

	signature := strings.TrimSpace(trimmed[:idx])
	if signature == "" {
		return "", nil, &ParseError{Line: lineNo, Msg: "empty declaration signature"}
	}

	body := strings.TrimSuffix(trimmed[idx+len(" // ["):], "]")
	targets := expandNames(body)
	if len(targets) == 0 {
		return "", nil, &ParseError{Line: lineNo, Msg: "empty target annotation"}
	}
	for _, target := range targets.Sorted() {
		if !known.Has(target) {
			return "", nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unknown target or alias %q", target)}
		}
	}
	return signature, targets, nil
}

func expandNames(body string) hierarchy.TargetSet {
	out := make(hierarchy.TargetSet)
	for _, name := range strings.Split(body, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out.Union(hierarchy.ExpandAlias(name))
	}
	return out
}
