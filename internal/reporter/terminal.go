package reporter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ethanolivertroy/validpack/internal/models"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// TerminalReporter outputs the scan result in a human-readable terminal format
type TerminalReporter struct{}

// Report generates terminal output for the given scan result
func (r *TerminalReporter) Report(result *models.ScanResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("\n")
	writeHeader(&buf, "SUPPLY CHAIN SECURITY SCAN REPORT")
	fmt.Fprintf(&buf, "Scanned Path:  %s\n", result.ScannedPath)
	fmt.Fprintf(&buf, "Scan Time:     %s\n", result.ScanTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "Scanned Files: %d\n\n", len(result.ScannedFiles))

	writeHeader(&buf, "SUMMARY")
	fmt.Fprintf(&buf, "Total Dependencies:  %d\n", len(result.AllDependencies))
	fmt.Fprintf(&buf, "Unique Dependencies: %d\n\n", len(result.UniqueDependencies))
	fmt.Fprintf(&buf, "  Valid:       %s\n", green(result.ValidCount()))
	fmt.Fprintf(&buf, "  Whitelisted: %s\n", cyan(result.WhitelistedCount()))
	fmt.Fprintf(&buf, "  Not Found:   %s\n", countColor(result.NotFoundCount(), red))
	fmt.Fprintf(&buf, "  Blacklisted: %s\n", countColor(result.BlacklistedCount(), red))
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(&buf, "  Errors:      %s (registry unreachable, not counted as problems)\n", yellow(n))
	}
	buf.WriteString("\n")

	if result.HasProblems() {
		writeHeader(&buf, "PROBLEMS FOUND")
		writeProblems(&buf, result, models.StatusNotFound,
			red("Packages not found in registry (Supply Chain Attack Risk):"))
		writeProblems(&buf, result, models.StatusBlacklisted,
			yellow("Blacklisted packages:"))
	}

	writeHeader(&buf, "RESULT")
	if result.HasProblems() {
		buf.WriteString(bold(red("FAILED - Problems found!")) + "\n\n")
		buf.WriteString("Please review the problems listed above.\n")
		buf.WriteString("If these are false positives, add them to the whitelist.\n")
	} else {
		buf.WriteString(bold(green("PASSED - No problems found.")) + "\n")
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

// writeProblems renders one table of problems with the given status
func writeProblems(buf *bytes.Buffer, result *models.ScanResult, status models.ValidationStatus, title string) {
	var rows [][]string
	for _, p := range result.Problems() {
		if p.Status != status {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(len(rows) + 1),
			string(p.Dependency.Ecosystem),
			p.Dependency.Name,
			p.Dependency.Version,
			relativeSource(result.ScannedPath, p.Dependency.SourceFile),
		})
	}
	if len(rows) == 0 {
		return
	}

	buf.WriteString(title + "\n\n")

	table := tablewriter.NewWriter(buf)
	table.SetHeader([]string{"#", "Ecosystem", "Package", "Version", "Source"})
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.AppendBulk(rows)
	table.Render()

	buf.WriteString("\n")
}

func writeHeader(buf *bytes.Buffer, text string) {
	line := strings.Repeat("=", len(text)+4)
	fmt.Fprintf(buf, "%s\n  %s\n%s\n\n", line, text, line)
}

func countColor(n int, bad func(a ...interface{}) string) string {
	if n > 0 {
		return bad(n)
	}
	return green(n)
}
