package reporter

import (
	"encoding/json"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// JSONReporter outputs the scan summary and problems in JSON format
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	ScanID       string        `json:"scanId"`
	ScannedPath  string        `json:"scannedPath"`
	ScanTime     string        `json:"scanTime"`
	ScannedFiles []string      `json:"scannedFiles"`
	Summary      jsonSummary   `json:"summary"`
	HasProblems  bool          `json:"hasProblems"`
	Problems     []jsonProblem `json:"problems"`
}

type jsonSummary struct {
	TotalDependencies  int `json:"totalDependencies"`
	UniqueDependencies int `json:"uniqueDependencies"`
	Valid              int `json:"valid"`
	Whitelisted        int `json:"whitelisted"`
	NotFound           int `json:"notFound"`
	Blacklisted        int `json:"blacklisted"`
	Errors             int `json:"errors"`
}

type jsonProblem struct {
	PackageName string `json:"packageName"`
	PackageType string `json:"packageType"`
	Status      string `json:"status"`
	SourceFile  string `json:"sourceFile"`
	Message     string `json:"message,omitempty"`
}

// Report generates JSON output for the given scan result
func (r *JSONReporter) Report(result *models.ScanResult) ([]byte, error) {
	output := jsonOutput{
		ScanID:       result.ID,
		ScannedPath:  result.ScannedPath,
		ScanTime:     result.ScanTime.Format("2006-01-02T15:04:05Z07:00"),
		ScannedFiles: make([]string, 0, len(result.ScannedFiles)),
		Summary: jsonSummary{
			TotalDependencies:  len(result.AllDependencies),
			UniqueDependencies: len(result.UniqueDependencies),
			Valid:              result.ValidCount(),
			Whitelisted:        result.WhitelistedCount(),
			NotFound:           result.NotFoundCount(),
			Blacklisted:        result.BlacklistedCount(),
			Errors:             result.ErrorCount(),
		},
		HasProblems: result.HasProblems(),
		Problems:    []jsonProblem{},
	}

	output.ScannedFiles = append(output.ScannedFiles, result.ScannedFiles...)

	for _, p := range result.Problems() {
		output.Problems = append(output.Problems, jsonProblem{
			PackageName: p.Dependency.Name,
			PackageType: string(p.Dependency.Ecosystem),
			Status:      p.Status.String(),
			SourceFile:  p.Dependency.SourceFile,
			Message:     p.Message,
		})
	}

	return json.MarshalIndent(output, "", "  ")
}
