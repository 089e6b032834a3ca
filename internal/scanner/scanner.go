// Package scanner drives the manifest parsers over a directory tree and
// classifies every unique dependency against the blacklist, the whitelist
// and the package registries.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ethanolivertroy/validpack/internal/clients"
	"github.com/ethanolivertroy/validpack/internal/models"
	"github.com/ethanolivertroy/validpack/internal/parsers"
	"github.com/ethanolivertroy/validpack/internal/validators"
)

// ErrNotDirectory is returned when the scan root exists but is a file
var ErrNotDirectory = errors.New("not a directory")

// Scanner orchestrates discovery, extraction, deduplication and validation
type Scanner struct {
	config     models.Configuration
	exclude    []*regexp.Regexp
	parsers    []parsers.Parser
	validators map[models.Ecosystem]validators.Validator
	logger     *log.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLogger sets the logger used for progress output
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithParsers replaces the default parser list
func WithParsers(p ...parsers.Parser) Option {
	return func(s *Scanner) { s.parsers = p }
}

// WithValidators replaces the default validator table
func WithValidators(v map[models.Ecosystem]validators.Validator) Option {
	return func(s *Scanner) { s.validators = v }
}

// WithProbe builds the default validators on top of p
func WithProbe(p validators.Prober) Option {
	return func(s *Scanner) { s.validators = validators.New(p) }
}

// New creates a Scanner for cfg. Without options it uses every parser,
// a silent logger and validators sharing one rate-limited probe.
func New(cfg models.Configuration, opts ...Option) *Scanner {
	s := &Scanner{
		config:  cfg,
		parsers: parsers.GetAllParsers(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.validators == nil {
		s.validators = validators.New(clients.NewProbe(clients.DefaultTimeout, nil))
	}
	for _, pattern := range cfg.Exclude {
		s.exclude = append(s.exclude, compileGlob(pattern))
	}

	return s
}

// Scan runs the full pipeline over root. Registry failures are recorded
// as StatusError results; an error is returned only when root is not a
// readable directory or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) (*models.ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	result := &models.ScanResult{
		ID:          uuid.NewString(),
		ScannedPath: absRoot,
		ScanTime:    time.Now(),
	}

	// Step 1: Discover manifests
	for _, p := range s.parsers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for file := range p.FindFiles(absRoot) {
			if s.isExcluded(absRoot, file) {
				s.logger.Debug("excluded", "file", file)
				continue
			}
			s.logger.Debug("found manifest", "ecosystem", p.Ecosystem(), "file", file)
			result.ScannedFiles = append(result.ScannedFiles, file)

			// Step 2: Extract dependencies
			for dep := range p.Parse(file) {
				result.AllDependencies = append(result.AllDependencies, dep)
			}
		}
	}

	// Step 3: Collapse duplicates
	result.UniqueDependencies = Deduplicate(result.AllDependencies)
	s.logger.Info("discovered dependencies",
		"files", len(result.ScannedFiles),
		"total", len(result.AllDependencies),
		"unique", len(result.UniqueDependencies))

	// Step 4: Classify one dependency at a time
	for _, dep := range result.UniqueDependencies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vr := s.classify(ctx, dep)
		if vr.Status == models.StatusError && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Debug("validated", "package", dep.Name, "ecosystem", dep.Ecosystem, "status", vr.Status)
		result.ValidationResults = append(result.ValidationResults, vr)
	}

	s.logger.Info("scan complete",
		"valid", result.ValidCount(),
		"whitelisted", result.WhitelistedCount(),
		"not_found", result.NotFoundCount(),
		"blacklisted", result.BlacklistedCount(),
		"errors", result.ErrorCount())

	return result, nil
}

// classify applies the blacklist, then the whitelist, then the registry
func (s *Scanner) classify(ctx context.Context, dep models.Dependency) models.ValidationResult {
	vr := models.ValidationResult{Dependency: dep}

	switch {
	case s.config.IsBlacklisted(dep.Name):
		vr.Status = models.StatusBlacklisted
		vr.Message = "package is on the blacklist"
		return vr
	case s.config.IsWhitelisted(dep.Name):
		vr.Status = models.StatusWhitelisted
		vr.Message = "package is on the whitelist (skipped)"
		return vr
	}

	v, ok := s.validators[dep.Ecosystem]
	if !ok {
		vr.Status = models.StatusError
		vr.Message = fmt.Sprintf("no validator for %s", dep.Ecosystem)
		return vr
	}

	exists, err := v.Validate(ctx, dep.Name)
	switch {
	case err != nil:
		s.logger.Warn("registry request failed", "package", dep.Name, "ecosystem", dep.Ecosystem, "err", err)
		vr.Status = models.StatusError
		vr.Message = fmt.Sprintf("registry request failed: %v", err)
	case exists:
		vr.Status = models.StatusValid
		vr.Message = "package exists in registry"
	default:
		vr.Status = models.StatusNotFound
		vr.Message = "package does not exist in registry"
	}

	return vr
}

func (s *Scanner) isExcluded(root, file string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, re := range s.exclude {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// Deduplicate keeps the first dependency for each ecosystem and
// case-insensitive name, preserving order
func Deduplicate(deps []models.Dependency) []models.Dependency {
	seen := make(map[string]struct{}, len(deps))
	unique := make([]models.Dependency, 0, len(deps))

	for _, dep := range deps {
		key := dep.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, dep)
	}

	return unique
}
