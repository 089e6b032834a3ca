package models

import (
	"fmt"
	"time"
)

// ValidationStatus is the outcome of checking one dependency
type ValidationStatus int

const (
	StatusValid ValidationStatus = iota
	StatusNotFound
	StatusBlacklisted
	StatusWhitelisted
	StatusError
)

var statusNames = map[ValidationStatus]string{
	StatusValid:       "Valid",
	StatusNotFound:    "NotFound",
	StatusBlacklisted: "Blacklisted",
	StatusWhitelisted: "Whitelisted",
	StatusError:       "Error",
}

func (s ValidationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ValidationStatus(%d)", int(s))
}

// MarshalText renders the status by name in JSON output
func (s ValidationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ValidationResult represents the classification of a unique dependency
type ValidationResult struct {
	Dependency Dependency
	Status     ValidationStatus
	Message    string
}

// HasProblem returns true if the dependency is missing from its registry or blacklisted
func (r ValidationResult) HasProblem() bool {
	return r.Status == StatusNotFound || r.Status == StatusBlacklisted
}

// ScanResult is the aggregate outcome of one scan. It is not modified
// after Scan returns.
type ScanResult struct {
	ID                 string
	ScannedPath        string
	ScanTime           time.Time
	AllDependencies    []Dependency // every extraction, duplicates included
	UniqueDependencies []Dependency
	ValidationResults  []ValidationResult // one per unique dependency
	ScannedFiles       []string
}

// HasProblems returns true if any result is NotFound or Blacklisted
func (r *ScanResult) HasProblems() bool {
	for _, v := range r.ValidationResults {
		if v.HasProblem() {
			return true
		}
	}
	return false
}

// Problems returns the results that have a problem, in scan order
func (r *ScanResult) Problems() []ValidationResult {
	var problems []ValidationResult
	for _, v := range r.ValidationResults {
		if v.HasProblem() {
			problems = append(problems, v)
		}
	}
	return problems
}

func (r *ScanResult) ValidCount() int       { return r.count(StatusValid) }
func (r *ScanResult) NotFoundCount() int    { return r.count(StatusNotFound) }
func (r *ScanResult) BlacklistedCount() int { return r.count(StatusBlacklisted) }
func (r *ScanResult) WhitelistedCount() int { return r.count(StatusWhitelisted) }
func (r *ScanResult) ErrorCount() int       { return r.count(StatusError) }

func (r *ScanResult) count(status ValidationStatus) int {
	n := 0
	for _, v := range r.ValidationResults {
		if v.Status == status {
			n++
		}
	}
	return n
}
