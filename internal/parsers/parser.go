package parsers

import (
	"bytes"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// Parser is the interface for dependency manifest parsers.
// Implementations never fail: a missing, unreadable or malformed manifest
// simply yields no dependencies.
type Parser interface {
	// Ecosystem returns the package ecosystem this parser extracts
	Ecosystem() models.Ecosystem

	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// FindFiles lazily yields every manifest below root, skipping build
	// and cache directories of the ecosystem
	FindFiles(root string) iter.Seq[string]

	// Parse lazily yields the dependencies declared in the manifest at path
	Parse(path string) iter.Seq[models.Dependency]
}

// GetAllParsers returns all available parsers in scan order
func GetAllParsers() []Parser {
	return []Parser{
		&NodePackageJSONParser{},
		&NuGetProjectParser{},
		&PythonParser{},
		&CargoParser{},
		&MavenPOMParser{},
		&GradleParser{},
	}
}

// findFiles walks root and yields files accepted by match. Directories named
// in skipDirs (and .git) are not descended into; root itself is never skipped.
func findFiles(root string, skipDirs []string, match func(filename string) bool) iter.Seq[string] {
	skip := map[string]bool{".git": true}
	for _, name := range skipDirs {
		skip[name] = true
	}

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable entries are skipped, not reported
				if d != nil && d.IsDir() && p != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if p != root && skip[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}

			if !match(d.Name()) {
				return nil
			}
			if !yield(p) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseWith reads the file at path on first iteration and yields what
// extract finds in it. A leading UTF-8 byte order mark is removed before
// extraction. Read errors yield nothing.
func parseWith(path string, extract func(path string, content []byte) []models.Dependency) iter.Seq[models.Dependency] {
	return func(yield func(models.Dependency) bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		content = bytes.TrimPrefix(content, utf8BOM)
		for _, dep := range extract(path, content) {
			if !yield(dep) {
				return
			}
		}
	}
}
