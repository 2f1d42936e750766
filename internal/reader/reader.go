// Package reader extracts the public declaration surface of Kotlin sources
// into single-target dump text, applying the configured filters before any
// declaration reaches the merger.
package reader

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/benedekh/binary-compatibility-validator/internal/filters"
)

// Declaration is one extracted ABI entity with its nested public members.
type Declaration struct {
	Signature string
	Children  []Declaration
}

// Reader parses Kotlin sources with tree-sitter.
type Reader struct {
	parser *sitter.Parser
}

func New() *Reader {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())
	return &Reader{parser: p}
}

// ReadDirectory extracts declarations from every .kt file under root. Roots
// are sorted by signature so the dump does not depend on walk order.
func (r *Reader) ReadDirectory(root string, f *filters.Filters) ([]Declaration, error) {
	if _, err := f.ResolveSignatureVersion(); err != nil {
		return nil, err
	}

	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() && strings.HasSuffix(path, ".kt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var decls []Declaration
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		fileDecls, err := r.ReadSource(path, content, f)
		if err != nil {
			return nil, err
		}
		decls = append(decls, fileDecls...)
	}

	sort.SliceStable(decls, func(i, j int) bool {
		return decls[i].Signature < decls[j].Signature
	})
	return decls, nil
}

// Render writes declarations as a single-target dump: no target annotations,
// nesting carried by four-space indentation.
func Render(sink io.Writer, decls []Declaration) error {
	w := bufio.NewWriter(sink)
	w.WriteString("// Klib ABI dump\n")
	for _, decl := range decls {
		writeDeclaration(w, decl, 0)
	}
	return w.Flush()
}

func writeDeclaration(w *bufio.Writer, decl Declaration, depth int) {
	w.WriteString(strings.Repeat(" ", depth*4))
	w.WriteString(decl.Signature)
	w.WriteString("\n")
	for _, child := range decl.Children {
		writeDeclaration(w, child, depth+1)
	}
}
