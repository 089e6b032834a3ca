package parsers

import (
	"iter"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// MavenPOMParser parses pom.xml files. Both <dependencies> and
// <dependencyManagement> entries are reported.
type MavenPOMParser struct{}

// Ecosystem returns Maven
func (p *MavenPOMParser) Ecosystem() models.Ecosystem { return models.EcosystemMaven }

// CanParse returns true for pom.xml files
func (p *MavenPOMParser) CanParse(filename string) bool {
	return strings.EqualFold(filename, "pom.xml")
}

// FindFiles yields pom.xml files outside target and .mvn
func (p *MavenPOMParser) FindFiles(root string) iter.Seq[string] {
	return findFiles(root, []string{"target", ".mvn"}, p.CanParse)
}

// Parse extracts dependencies from a pom.xml file
func (p *MavenPOMParser) Parse(path string) iter.Seq[models.Dependency] {
	return parseWith(path, p.extract)
}

func (p *MavenPOMParser) extract(path string, content []byte) []models.Dependency {
	var deps []models.Dependency

	for _, dep := range findElements(content, "dependency") {
		groupID, _ := dep.child("groupId")
		artifactID, _ := dep.child("artifactId")
		if groupID == "" || artifactID == "" {
			continue
		}

		// Unresolved properties such as ${project.groupId}
		if strings.Contains(groupID, "${") || strings.Contains(artifactID, "${") {
			continue
		}

		version, _ := dep.child("version")
		deps = append(deps, models.Dependency{
			Name:       groupID + ":" + artifactID,
			Version:    version,
			Ecosystem:  models.EcosystemMaven,
			SourceFile: path,
		})
	}

	return deps
}
