// Package usage scans source trees for references to registry field IDs
// and reports where each field is (or is not) used. It keeps frontend and
// backend code honest about sharing the same identifiers.
package usage

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/quotelane/fieldreg/internal/registry"
)

// Report summarizes field usage across the scanned roots. All slices are
// sorted field IDs.
type Report struct {
	TotalFields  int
	BackendOnly  []string
	FrontendOnly []string
	Unused       []string
	Consistent   []string
}

// Tracker accumulates field references from source scans. It reads the
// registry only; it never modifies it.
type Tracker struct {
	reg      *registry.Registry
	valid    map[string]struct{}
	backend  map[string]map[string]struct{} // field ID -> file paths
	frontend map[string]map[string]struct{}
}

// NewTracker creates a tracker over the registry's field IDs.
func NewTracker(reg *registry.Registry) *Tracker {
	valid := make(map[string]struct{})
	for _, id := range reg.FieldIDs() {
		valid[id] = struct{}{}
	}
	return &Tracker{
		reg:      reg,
		valid:    valid,
		backend:  make(map[string]map[string]struct{}),
		frontend: make(map[string]map[string]struct{}),
	}
}

// quoted matches single- or double-quoted identifier-shaped literals.
var quoted = regexp.MustCompile(`["'` + "`" + `]([A-Za-z][A-Za-z0-9_]*)["'` + "`" + `]`)

// ScanBackend walks root for Go sources and records field ID references.
func (t *Tracker) ScanBackend(root string) error {
	return t.scan(root, []string{".go"}, t.backend, false)
}

// ScanFrontend walks root for TypeScript/JavaScript sources. camelCase
// identifiers are folded to snake_case before matching, since frontend
// code conventionally renames registry fields.
func (t *Tracker) ScanFrontend(root string) error {
	return t.scan(root, []string{".ts", ".tsx", ".js", ".jsx"}, t.frontend, true)
}

func (t *Tracker) scan(root string, exts []string, into map[string]map[string]struct{}, foldCamel bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		found := false
		for _, want := range exts {
			if ext == want {
				found = true
				break
			}
		}
		if !found {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			// Unreadable files are skipped, not fatal; the report notes
			// only what was actually seen.
			return nil
		}
		for _, m := range quoted.FindAllStringSubmatch(string(data), -1) {
			id := m[1]
			if foldCamel {
				id = snakeCase(id)
			}
			if _, ok := t.valid[id]; !ok {
				continue
			}
			if into[id] == nil {
				into[id] = make(map[string]struct{})
			}
			into[id][path] = struct{}{}
		}
		return nil
	})
}

// Files returns the backend and frontend files referencing a field.
func (t *Tracker) Files(fieldID string) (backend, frontend []string) {
	for f := range t.backend[fieldID] {
		backend = append(backend, f)
	}
	for f := range t.frontend[fieldID] {
		frontend = append(frontend, f)
	}
	sort.Strings(backend)
	sort.Strings(frontend)
	return backend, frontend
}

// Report partitions every registry field by where it was referenced.
func (t *Tracker) Report() Report {
	r := Report{TotalFields: len(t.valid)}
	for _, id := range t.reg.FieldIDs() {
		_, inBackend := t.backend[id]
		_, inFrontend := t.frontend[id]
		switch {
		case inBackend && inFrontend:
			r.Consistent = append(r.Consistent, id)
		case inBackend:
			r.BackendOnly = append(r.BackendOnly, id)
		case inFrontend:
			r.FrontendOnly = append(r.FrontendOnly, id)
		default:
			r.Unused = append(r.Unused, id)
		}
	}
	return r
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

func snakeCase(camel string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(camel, "${1}_${2}"))
}
