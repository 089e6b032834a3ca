// Package reporter renders a scan result as terminal text, JSON or SARIF.
package reporter

import (
	"path/filepath"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given scan result
	Report(result *models.ScanResult) ([]byte, error)
}

// Get returns a reporter for the specified format
func Get(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "sarif":
		return &SARIFReporter{}
	default:
		return &TerminalReporter{}
	}
}

// relativeSource shortens a manifest path to be relative to the scan root
// when possible, always with forward slashes
func relativeSource(root, file string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(file)
}
