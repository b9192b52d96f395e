package resumes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spigell/cv-sorter/internal/textextract"
)

// Directory is a folder of résumé files.
type Directory struct {
	Path string
}

func NewDirectory(path string) *Directory {
	return &Directory{Path: path}
}

// List returns the names of the recognized résumé files, sorted.
// A missing directory holds no files.
func (d *Directory) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", d.Path, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := textextract.FormatOf(e.Name()); !ok {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Join returns the full path of a listed file.
func (d *Directory) Join(name string) string {
	return filepath.Join(d.Path, name)
}
