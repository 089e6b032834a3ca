package models

import "strings"

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemNpm    Ecosystem = "npm"
	EcosystemNuGet  Ecosystem = "NuGet"
	EcosystemPyPI   Ecosystem = "PyPI"
	EcosystemCrates Ecosystem = "Crates"
	EcosystemMaven  Ecosystem = "Maven"
	EcosystemGradle Ecosystem = "Gradle"
)

// AllEcosystems returns every supported ecosystem in scan order
func AllEcosystems() []Ecosystem {
	return []Ecosystem{
		EcosystemNpm,
		EcosystemNuGet,
		EcosystemPyPI,
		EcosystemCrates,
		EcosystemMaven,
		EcosystemGradle,
	}
}

// Dependency represents a single declared package dependency.
// Version is empty when the manifest does not pin one.
type Dependency struct {
	Name       string
	Version    string
	Ecosystem  Ecosystem
	SourceFile string // File where this dependency was found
}

// Key returns the identity used to collapse duplicate declarations
func (d Dependency) Key() string {
	return DedupKey(d.Ecosystem, d.Name)
}

// String returns a human-readable representation
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + "@" + d.Version
}

// DedupKey builds the "ecosystem:lowercase(name)" identity. Version and
// source file never take part in it.
func DedupKey(e Ecosystem, name string) string {
	return string(e) + ":" + strings.ToLower(name)
}
