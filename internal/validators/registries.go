package validators

import (
	"context"
	"net/url"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

const (
	npmRegistryURL    = "https://registry.npmjs.org"
	nugetRegistryURL  = "https://api.nuget.org/v3-flatcontainer"
	pypiRegistryURL   = "https://pypi.org/pypi"
	cratesRegistryURL = "https://crates.io/api/v1/crates"
	mavenCentralURL   = "https://repo1.maven.org/maven2"
)

// Npm checks the npm registry. Scoped names are escaped as a single path
// segment, so @scope/name becomes @scope%2Fname.
type Npm struct {
	prober  Prober
	baseURL string
}

// NewNpm creates an npm validator
func NewNpm(p Prober) *Npm {
	return &Npm{prober: p, baseURL: npmRegistryURL}
}

func (v *Npm) Ecosystem() models.Ecosystem { return models.EcosystemNpm }

// Validate checks registry.npmjs.org/<name>
func (v *Npm) Validate(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	return v.prober.Exists(ctx, v.baseURL+"/"+url.PathEscape(name))
}

// NuGet checks the NuGet v3 flat container, which only serves lowercase ids
type NuGet struct {
	prober  Prober
	baseURL string
}

// NewNuGet creates a NuGet validator
func NewNuGet(p Prober) *NuGet {
	return &NuGet{prober: p, baseURL: nugetRegistryURL}
}

func (v *NuGet) Ecosystem() models.Ecosystem { return models.EcosystemNuGet }

// Validate checks the package's version index
func (v *NuGet) Validate(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	id := url.PathEscape(strings.ToLower(name))
	return v.prober.Exists(ctx, v.baseURL+"/"+id+"/index.json")
}

// PyPI checks the PyPI JSON API
type PyPI struct {
	prober  Prober
	baseURL string
}

// NewPyPI creates a PyPI validator
func NewPyPI(p Prober) *PyPI {
	return &PyPI{prober: p, baseURL: pypiRegistryURL}
}

func (v *PyPI) Ecosystem() models.Ecosystem { return models.EcosystemPyPI }

// Validate checks pypi.org/pypi/<name>/json
func (v *PyPI) Validate(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	project := url.PathEscape(strings.ToLower(name))
	return v.prober.Exists(ctx, v.baseURL+"/"+project+"/json")
}

// Crates checks the crates.io API
type Crates struct {
	prober  Prober
	baseURL string
}

// NewCrates creates a crates.io validator
func NewCrates(p Prober) *Crates {
	return &Crates{prober: p, baseURL: cratesRegistryURL}
}

func (v *Crates) Ecosystem() models.Ecosystem { return models.EcosystemCrates }

// Validate checks crates.io/api/v1/crates/<name>
func (v *Crates) Validate(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	return v.prober.Exists(ctx, v.baseURL+"/"+url.PathEscape(name))
}

// Maven checks Maven Central for a groupId:artifactId coordinate
type Maven struct {
	prober  Prober
	baseURL string
}

// NewMaven creates a Maven Central validator
func NewMaven(p Prober) *Maven {
	return &Maven{prober: p, baseURL: mavenCentralURL}
}

func (v *Maven) Ecosystem() models.Ecosystem { return models.EcosystemMaven }

// Validate checks the artifact's maven-metadata.xml. Names that are not
// exactly groupId:artifactId do not exist.
func (v *Maven) Validate(ctx context.Context, name string) (bool, error) {
	groupID, artifactID, ok := splitCoordinate(name)
	if !ok {
		return false, nil
	}
	groupPath := strings.ReplaceAll(groupID, ".", "/")
	return v.prober.Exists(ctx, v.baseURL+"/"+groupPath+"/"+url.PathEscape(artifactID)+"/maven-metadata.xml")
}

func splitCoordinate(name string) (groupID, artifactID string, ok bool) {
	parts := strings.Split(strings.TrimSpace(name), ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Gradle resolves Gradle coordinates against Maven Central through a Maven validator
type Gradle struct {
	maven *Maven
}

// NewGradle creates a Gradle validator delegating to maven
func NewGradle(maven *Maven) *Gradle {
	return &Gradle{maven: maven}
}

func (v *Gradle) Ecosystem() models.Ecosystem { return models.EcosystemGradle }

// Validate delegates to the Maven validator
func (v *Gradle) Validate(ctx context.Context, name string) (bool, error) {
	return v.maven.Validate(ctx, name)
}
