package models

import (
	"strings"
	"time"
)

// Configuration holds the user-supplied override policy for a scan
type Configuration struct {
	// Packages that are never checked against a registry
	Whitelist []string `json:"whitelist" yaml:"whitelist" toml:"whitelist"`

	// Packages that are always reported, even if they exist
	Blacklist []string `json:"blacklist" yaml:"blacklist" toml:"blacklist"`

	// Glob patterns, relative to the scan root, of manifests to ignore
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`
}

// IsWhitelisted reports whether name matches a whitelist entry, ignoring case
func (c Configuration) IsWhitelisted(name string) bool {
	return containsFold(c.Whitelist, name)
}

// IsBlacklisted reports whether name matches a blacklist entry, ignoring case
func (c Configuration) IsBlacklisted(name string) bool {
	return containsFold(c.Blacklist, name)
}

func containsFold(list []string, name string) bool {
	for _, entry := range list {
		if strings.EqualFold(entry, name) {
			return true
		}
	}
	return false
}

// Options holds runtime settings for a single invocation
type Options struct {
	// Directory to scan
	Path string

	// Configuration file (json, yaml or toml)
	ConfigFile string

	// Output settings
	OutputFormat string // "console", "json", "sarif"
	OutputFile   string // Optional output file path

	// Behavior settings
	Verbose        bool
	FailOnProblems bool // Exit with code 1 if problems found

	// Registry settings
	Timeout         time.Duration
	RequestInterval time.Duration
}

// DefaultOptions returns Options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		Path:            ".",
		ConfigFile:      "validpack.json",
		OutputFormat:    "console",
		FailOnProblems:  true,
		Timeout:         30 * time.Second,
		RequestInterval: 100 * time.Millisecond,
	}
}
