package parsers

import (
	"iter"
	"regexp"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

var (
	// serde = "1.0"
	cargoSimplePattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s*=\s*"([^"]+)"`)

	// serde = { version = "1.0", features = ["derive"] }
	cargoInlineTablePattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s*=\s*\{.*?version\s*=\s*"([^"]+)"`)

	// serde.version = "1.0"
	cargoDottedPattern = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\.version\s*=\s*"([^"]+)"`)

	// [dependencies.serde], [target.'cfg(unix)'.dependencies.libc]
	cargoTableHeaderPattern = regexp.MustCompile(`\[(?:.*\.)?dependencies\.([a-zA-Z0-9_-]+)\]`)

	// version = "1.0" inside a [dependencies.<name>] table
	cargoTableVersionPattern = regexp.MustCompile(`^version\s*=\s*"([^"]+)"`)

	digitPattern = regexp.MustCompile(`\d`)
)

// CargoParser parses Cargo.toml files with a line-oriented subset of TOML
type CargoParser struct{}

// Ecosystem returns Crates
func (p *CargoParser) Ecosystem() models.Ecosystem { return models.EcosystemCrates }

// CanParse returns true for Cargo.toml files
func (p *CargoParser) CanParse(filename string) bool {
	return strings.EqualFold(filename, "Cargo.toml")
}

// FindFiles yields Cargo.toml files outside target directories
func (p *CargoParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{"target"}, p.CanParse)
}

// Parse extracts dependencies from a Cargo.toml file
func (p *CargoParser) Parse(path string) iter.Seq[models.Dependency] {
	return parseWith(path, p.extract)
}

func (p *CargoParser) extract(path string, content []byte) []models.Dependency {
	var deps []models.Dependency
	add := func(name, version string) {
		deps = append(deps, models.Dependency{
			Name:       name,
			Version:    version,
			Ecosystem:  models.EcosystemCrates,
			SourceFile: path,
		})
	}

	inDependencies := false
	tableDependency := ""

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			// [[...]] array-of-tables never hold dependency maps
			inDependencies = strings.Contains(strings.ToLower(line), "dependencies") &&
				!strings.Contains(line, "[[")

			tableDependency = ""
			if m := cargoTableHeaderPattern.FindStringSubmatch(line); m != nil {
				tableDependency = m[1]
				inDependencies = true
			}
			continue
		}

		if !inDependencies {
			continue
		}

		// Inside [dependencies.<name>] only the version key matters
		if tableDependency != "" {
			if m := cargoTableVersionPattern.FindStringSubmatch(line); m != nil {
				add(tableDependency, m[1])
			}
			continue
		}

		if m := cargoDottedPattern.FindStringSubmatch(line); m != nil {
			if !isLocalOrGitCrate(line) {
				add(m[1], m[2])
			}
			continue
		}

		if m := cargoInlineTablePattern.FindStringSubmatch(line); m != nil {
			if !isLocalOrGitCrate(line) {
				add(m[1], m[2])
			}
			continue
		}

		if m := cargoSimplePattern.FindStringSubmatch(line); m != nil {
			// A bare string must look like a version, not a path
			version := m[2]
			if digitPattern.MatchString(version) && !strings.ContainsAny(version, `/\`) {
				add(m[1], version)
			}
			continue
		}

		// Inline tables without a version (workspace, path-only) are skipped
	}

	return deps
}

// isLocalOrGitCrate reports whether a dependency line mentions a path,
// a git source or workspace inheritance anywhere on it
func isLocalOrGitCrate(line string) bool {
	return strings.Contains(line, "path") ||
		strings.Contains(line, "git") ||
		strings.Contains(line, "workspace = true")
}
