package figlayout

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/panelize/panelize/pkg/errors"
)

// CheckNestedReference reports whether assigning candidatePath as a nested
// layout inside the document at parentPath would create a circular reference.
// It walks the nested references of the candidate (and of anything the
// candidate references in turn) looking for a path back to the parent.
//
// Returns ErrCodeCyclicReference when a cycle would form, nil otherwise.
// Unreadable nested files are skipped rather than treated as cycles.
func CheckNestedReference(parentPath, candidatePath string) error {
	parent := normalizePath(parentPath)
	candidate := normalizePath(candidatePath)

	if parent == candidate {
		return errors.New(errors.ErrCodeCyclicReference,
			"%s cannot nest itself", filepath.Base(parentPath))
	}

	visited := map[string]bool{parent: true}
	if walkForCycle(candidate, visited) {
		return errors.New(errors.ErrCodeCyclicReference,
			"nesting %s inside %s would create a reference cycle",
			filepath.Base(candidatePath), filepath.Base(parentPath))
	}
	return nil
}

// walkForCycle reports whether path, or any layout it references, is already
// in visited.
func walkForCycle(path string, visited map[string]bool) bool {
	path = normalizePath(path)
	if visited[path] {
		return true
	}
	visited[path] = true

	for _, nested := range nestedReferences(path) {
		if !filepath.IsAbs(nested) {
			nested = filepath.Join(filepath.Dir(path), nested)
		}
		if _, err := os.Stat(nested); err != nil {
			continue
		}
		if walkForCycle(nested, visited) {
			return true
		}
	}
	return false
}

// nestedReferences extracts the nested layout paths from the file without
// running migrations or validation; a file that fails to parse contributes
// no references.
func nestedReferences(path string) []string {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var fd struct {
		Nodes []struct {
			Nested string `json:"nested"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(buf, &fd); err != nil {
		return nil
	}
	var out []string
	for _, n := range fd.Nodes {
		if n.Nested != "" {
			out = append(out, n.Nested)
		}
	}
	return out
}

func normalizePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
