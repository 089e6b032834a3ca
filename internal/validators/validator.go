// Package validators checks whether packages exist in their public registries.
package validators

import (
	"context"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// Prober reports whether a registry URL exists. A non-nil error means the
// answer is unknown. *clients.Probe implements it.
type Prober interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// Validator checks one ecosystem's registry
type Validator interface {
	// Ecosystem returns the ecosystem this validator serves
	Ecosystem() models.Ecosystem

	// Validate returns true if the package exists, false if the registry
	// does not know it, and an error if that could not be determined
	Validate(ctx context.Context, name string) (bool, error)
}

// New returns a validator for every supported ecosystem, all sharing p
func New(p Prober) map[models.Ecosystem]Validator {
	maven := NewMaven(p)
	return map[models.Ecosystem]Validator{
		models.EcosystemNpm:    NewNpm(p),
		models.EcosystemNuGet:  NewNuGet(p),
		models.EcosystemPyPI:   NewPyPI(p),
		models.EcosystemCrates: NewCrates(p),
		models.EcosystemMaven:  maven,
		models.EcosystemGradle: NewGradle(maven),
	}
}
