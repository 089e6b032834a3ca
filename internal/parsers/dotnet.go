package parsers

import (
	"iter"
	"path/filepath"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// NuGetProjectParser parses SDK-style .csproj files
type NuGetProjectParser struct{}

// Ecosystem returns NuGet
func (p *NuGetProjectParser) Ecosystem() models.Ecosystem { return models.EcosystemNuGet }

// CanParse returns true for *.csproj files
func (p *NuGetProjectParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csproj")
}

// FindFiles yields project files outside bin and obj output directories
func (p *NuGetProjectParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{"bin", "obj"}, p.CanParse)
}

// Parse extracts PackageReference entries from a project file
func (p *NuGetProjectParser) Parse(path string) iter.Seq[models.Dependency] {
	return parseWith(path, p.extract)
}

func (p *NuGetProjectParser) extract(path string, content []byte) []models.Dependency {
	var deps []models.Dependency

	for _, ref := range findElements(content, "PackageReference") {
		name := strings.TrimSpace(ref.attr("Include"))
		if name == "" {
			continue
		}

		// Version may be an attribute or a child element
		version := ref.attr("Version")
		if version == "" {
			version, _ = ref.child("Version")
		}

		deps = append(deps, models.Dependency{
			Name:       name,
			Version:    version,
			Ecosystem:  models.EcosystemNuGet,
			SourceFile: path,
		})
	}

	return deps
}
