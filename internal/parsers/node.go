package parsers

import (
	"iter"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
	"github.com/tidwall/gjson"
)

// npmSections are the package.json objects holding dependency maps, in the
// order they are reported
var npmSections = []string{
	"dependencies",
	"devDependencies",
	"peerDependencies",
	"optionalDependencies",
}

// nonRegistryPrefixes mark versions that point somewhere other than the npm registry
var nonRegistryPrefixes = []string{
	"file:",
	"link:",
	"git:",
	"git+",
	"github:",
	"http:",
	"https:",
}

// NodePackageJSONParser parses package.json files (direct dependencies only)
type NodePackageJSONParser struct{}

// Ecosystem returns npm
func (p *NodePackageJSONParser) Ecosystem() models.Ecosystem { return models.EcosystemNpm }

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return strings.EqualFold(filename, "package.json")
}

// FindFiles yields package.json files outside node_modules
func (p *NodePackageJSONParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{"node_modules"}, p.CanParse)
}

// Parse extracts dependencies from a package.json file
func (p *NodePackageJSONParser) Parse(path string) iter.Seq[models.Dependency] {
	return parseWith(path, p.extract)
}

func (p *NodePackageJSONParser) extract(path string, content []byte) []models.Dependency {
	if !gjson.ValidBytes(content) {
		return nil
	}
	root := gjson.ParseBytes(content)
	if !root.IsObject() {
		return nil
	}

	var deps []models.Dependency
	for _, section := range npmSections {
		entries := root.Get(section)
		if !entries.IsObject() {
			continue
		}

		// ForEach keeps document order, so the first declaration wins dedup
		entries.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if name == "" {
				return true
			}

			var version string
			if value.Type == gjson.String {
				version = value.String()
			}
			if isNonRegistryVersion(version) {
				return true
			}

			deps = append(deps, models.Dependency{
				Name:       name,
				Version:    version,
				Ecosystem:  models.EcosystemNpm,
				SourceFile: path,
			})
			return true
		})
	}

	return deps
}

func isNonRegistryVersion(version string) bool {
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(version, prefix) {
			return true
		}
	}
	return false
}
