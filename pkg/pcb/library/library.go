// Package library loads shared footprint definitions from KiCad .pretty
// directories into a document's footprint library.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// Library is a set of loaded footprint definitions keyed by library:name.
type Library struct {
	footprints map[string]pcb.Footprint
}

func New() *Library {
	return &Library{footprints: make(map[string]pcb.Footprint)}
}

func key(library, name string) string { return library + ":" + name }

// Add registers a footprint, replacing any previous definition of the same
// library:name pair.
func (l *Library) Add(fp pcb.Footprint) {
	l.footprints[key(fp.Library, fp.Name)] = fp
}

// Get looks up a footprint definition.
func (l *Library) Get(library, name string) (pcb.Footprint, bool) {
	fp, ok := l.footprints[key(library, name)]
	return fp, ok
}

// Names returns all loaded library:name keys, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.footprints))
	for k := range l.footprints {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LoadDir loads every .kicad_mod file under dir. A .pretty directory is one
// library; nested .pretty directories each contribute their own.
func (l *Library) LoadDir(dir string) (int, error) {
	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".kicad_mod") {
			return nil
		}
		fp, err := ParseKicadModFile(path)
		if err != nil {
			return fmt.Errorf("library: %s: %w", path, err)
		}
		l.Add(fp)
		count++
		return nil
	})
	return count, err
}

// Install copies every loaded definition into the document's footprint
// library, returning the new snapshot. Definitions already present (same
// library:name) are left untouched.
func (l *Library) Install(doc *pcb.PcbDocument) *pcb.PcbDocument {
	for _, k := range l.Names() {
		fp := l.footprints[k]
		if _, exists := doc.FootprintByName(fp.Library, fp.Name); exists {
			continue
		}
		doc = doc.WithFootprint(fp)
	}
	return doc
}
