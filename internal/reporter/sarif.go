package reporter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// SARIFReporter outputs problems in SARIF format for GitHub Code Scanning
type SARIFReporter struct{}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool               sarifTool          `json:"tool"`
	AutomationDetails  sarifAutomation    `json:"automationDetails"`
	OriginalURIBaseIDs map[string]sarifID `json:"originalUriBaseIds,omitempty"`
	Results            []sarifResult      `json:"results"`
}

type sarifAutomation struct {
	ID string `json:"id"`
}

type sarifID struct {
	URI string `json:"uri"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	FullDescription  sarifText       `json:"fullDescription"`
	Help             sarifText       `json:"help"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
	Properties       sarifProperties `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags             []string `json:"tags"`
	SecuritySeverity string   `json:"security-severity,omitempty"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

const srcRoot = "SRCROOT"

// Rules are fixed: one per problem status
var sarifRules = []sarifRule{
	{
		ID:               "VP001",
		Name:             "PackageNotFound",
		ShortDescription: sarifText{Text: "Dependency does not exist in its package registry"},
		FullDescription: sarifText{Text: "The manifest declares a package that the public registry does not know. " +
			"An attacker can register the name and have it installed (dependency confusion or typosquatting)."},
		Help: sarifText{Text: "Check the package name for typos. If the package comes from a private feed, " +
			"add it to the whitelist."},
		DefaultConfig: sarifRuleConfig{Level: "error"},
		Properties: sarifProperties{
			Tags:             []string{"security", "supply-chain", "dependency-confusion"},
			SecuritySeverity: "8.0",
		},
	},
	{
		ID:               "VP002",
		Name:             "PackageBlacklisted",
		ShortDescription: sarifText{Text: "Dependency is on the blacklist"},
		FullDescription:  sarifText{Text: "The manifest declares a package that the project configuration forbids."},
		Help:             sarifText{Text: "Remove the dependency or replace it with an approved alternative."},
		DefaultConfig:    sarifRuleConfig{Level: "error"},
		Properties: sarifProperties{
			Tags:             []string{"security", "supply-chain", "policy"},
			SecuritySeverity: "7.0",
		},
	},
}

var sarifRuleIndex = map[models.ValidationStatus]int{
	models.StatusNotFound:    0,
	models.StatusBlacklisted: 1,
}

// Report generates SARIF output for the problems in the given scan result
func (r *SARIFReporter) Report(result *models.ScanResult) ([]byte, error) {
	run := sarifRun{
		Tool: sarifTool{
			Driver: sarifDriver{
				Name:           "validpack",
				Version:        "1.0.0",
				InformationURI: "https://github.com/ethanolivertroy/validpack",
				Rules:          sarifRules,
			},
		},
		AutomationDetails: sarifAutomation{ID: "validpack/" + result.ID},
		Results:           r.buildResults(result),
	}
	if result.ScannedPath != "" {
		run.OriginalURIBaseIDs = map[string]sarifID{
			srcRoot: {URI: "file://" + fileURIPath(result.ScannedPath) + "/"},
		}
	}

	report := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}

	return json.MarshalIndent(report, "", "  ")
}

func (r *SARIFReporter) buildResults(result *models.ScanResult) []sarifResult {
	results := []sarifResult{}

	for _, p := range result.Problems() {
		idx := sarifRuleIndex[p.Status]
		rule := sarifRules[idx]

		var msg string
		switch p.Status {
		case models.StatusNotFound:
			msg = fmt.Sprintf("%s package %s does not exist in its registry", p.Dependency.Ecosystem, p.Dependency.Name)
		default:
			msg = fmt.Sprintf("%s package %s is on the blacklist", p.Dependency.Ecosystem, p.Dependency.Name)
		}

		artifact := sarifArtifact{URI: relativeSource(result.ScannedPath, p.Dependency.SourceFile)}
		if result.ScannedPath != "" {
			artifact.URIBaseID = srcRoot
		}

		results = append(results, sarifResult{
			RuleID:    rule.ID,
			RuleIndex: idx,
			Level:     rule.DefaultConfig.Level,
			Message:   sarifText{Text: msg},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: artifact},
			}},
			PartialFingerprints: map[string]string{
				"packageKey": rule.ID + ":" + p.Dependency.Key(),
			},
		})
	}

	return results
}

func fileURIPath(p string) string {
	p = filepath.ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
