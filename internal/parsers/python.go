package parsers

import (
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// pythonNamePattern matches the leading distribution name; extras like
// [security] and version specifiers are not part of it
var pythonNamePattern = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// requirementVersionPattern captures the value after the first version operator
var requirementVersionPattern = regexp.MustCompile(`[=<>!~]=?\s*([^\s,;#]+)`)

// pep508VersionPattern is requirementVersionPattern for quoted TOML strings,
// where a closing bracket also ends the version
var pep508VersionPattern = regexp.MustCompile(`[=<>!~]=?\s*([^\s,;\]]+)`)

// quotedPattern matches double- or single-quoted string literals
var quotedPattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// skippedRequirementPrefixes are pip options, VCS URLs and local paths
var skippedRequirementPrefixes = []string{
	"-r", "-c", "-e", "--",
	"git+", "http://", "https://", "file:",
	".", "/",
}

// PythonParser parses requirements*.txt and pyproject.toml files
type PythonParser struct{}

// Ecosystem returns PyPI
func (p *PythonParser) Ecosystem() models.Ecosystem { return models.EcosystemPyPI }

// CanParse returns true for requirements*.txt and pyproject.toml files
func (p *PythonParser) CanParse(filename string) bool {
	lower := strings.ToLower(filename)
	return lower == "pyproject.toml" ||
		(strings.HasPrefix(lower, "requirements") && strings.HasSuffix(lower, ".txt"))
}

// FindFiles yields Python manifests outside virtualenvs and caches
func (p *PythonParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{
		"venv", ".venv", "env", ".env", "__pycache__", ".tox", "site-packages",
	}, p.CanParse)
}

// Parse extracts dependencies from a requirements file or pyproject.toml
func (p *PythonParser) Parse(path string) iter.Seq[models.Dependency] {
	if strings.EqualFold(filepath.Base(path), "pyproject.toml") {
		return parseWith(path, p.extractPyProject)
	}
	return parseWith(path, p.extractRequirements)
}

func (p *PythonParser) extractRequirements(path string, content []byte) []models.Dependency {
	var deps []models.Dependency

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || hasAnyPrefix(line, skippedRequirementPrefixes) {
			continue
		}

		// Remove inline comments
		if idx := strings.Index(line, "#"); idx > 0 {
			line = strings.TrimSpace(line[:idx])
		}

		m := pythonNamePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var version string
		if vm := requirementVersionPattern.FindStringSubmatch(line); vm != nil {
			version = vm[1]
		}

		deps = append(deps, models.Dependency{
			Name:       m[1],
			Version:    version,
			Ecosystem:  models.EcosystemPyPI,
			SourceFile: path,
		})
	}

	return deps
}

// extractPyProject scans pyproject.toml line by line. Any section whose
// header is [project] or mentions "dependencies" is searched for a
// `dependencies = [...]` array, which may span several lines.
func (p *PythonParser) extractPyProject(path string, content []byte) []models.Dependency {
	var deps []models.Dependency
	inSection := false
	inArray := false

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "[") && !inArray {
			inSection = strings.EqualFold(line, "[project]") ||
				strings.Contains(strings.ToLower(line), "dependencies")
			continue
		}

		if !inSection {
			continue
		}

		if !inArray {
			if !hasPrefixFold(line, "dependencies") {
				continue
			}
			open := strings.Index(line, "[")
			if open < 0 {
				continue
			}
			line = line[open+1:]
			inArray = true
		}

		deps = append(deps, pep508FromLine(line, path)...)
		if closesArray(line) {
			inArray = false
		}
	}

	return deps
}

// pep508FromLine extracts a dependency from every quoted string on the line
func pep508FromLine(line, path string) []models.Dependency {
	var deps []models.Dependency

	for _, m := range quotedPattern.FindAllStringSubmatch(line, -1) {
		req := m[1]
		if req == "" {
			req = m[2]
		}

		nm := pythonNamePattern.FindStringSubmatch(req)
		if nm == nil {
			continue
		}

		var version string
		if vm := pep508VersionPattern.FindStringSubmatch(req); vm != nil {
			version = vm[1]
		}

		deps = append(deps, models.Dependency{
			Name:       nm[1],
			Version:    version,
			Ecosystem:  models.EcosystemPyPI,
			SourceFile: path,
		})
	}

	return deps
}

// closesArray reports whether a ] appears outside quoted strings, so that
// extras like "requests[socks]" do not end the array early
func closesArray(line string) bool {
	return strings.Contains(quotedPattern.ReplaceAllString(line, ""), "]")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
