package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/owenrumney/go-sarif/sarif"

	"github.com/had-nu/vigil/internal/types"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
)

// reportFinding is the safe, serializable representation of a Finding.
type reportFinding struct {
	FilePath      string `json:"file_path"`
	LineNumber    int    `json:"line_number"`
	Rule          string `json:"rule"`
	RedactedValue string `json:"redacted_value"`
}

func toReportFindings(findings []types.Finding) []reportFinding {
	out := make([]reportFinding, len(findings))
	for i, f := range findings {
		out[i] = reportFinding{
			FilePath:      f.FilePath,
			LineNumber:    f.LineNumber,
			Rule:          f.Rule,
			RedactedValue: f.RedactedValue,
		}
	}
	return out
}

// Report writes findings to the writer in the specified format.
func Report(w io.Writer, findings []types.Finding, format string) error {
	switch format {
	case "json":
		return reportJSON(w, findings)
	case "sarif":
		return reportSARIF(w, findings)
	default:
		return reportText(w, findings)
	}
}

func reportJSON(w io.Writer, findings []types.Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toReportFindings(findings)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// reportText prints findings grouped by file so the user sees every
// offending file in one report. Only redacted values are printed.
func reportText(w io.Writer, findings []types.Finding) error {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No secrets found.")
		return nil
	}

	color := useColor(w)
	byFile, order := groupByFile(findings)

	fmt.Fprintf(w, "Found %d potential secret(s) in %d file(s):\n\n", len(findings), len(order))
	for _, path := range order {
		if color {
			fmt.Fprintf(w, "%s%s%s\n", colorBold, path, colorReset)
		} else {
			fmt.Fprintln(w, path)
		}
		for _, f := range byFile[path] {
			rule := f.Rule
			if color {
				rule = colorRed + rule + colorReset
			}
			fmt.Fprintf(w, "  line %d  %s\n", f.LineNumber, rule)
			fmt.Fprintf(w, "    %s\n", f.RedactedValue)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Commit blocked. Remove the secrets above and try again.")
	return nil
}

func reportSARIF(w io.Writer, findings []types.Finding) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("create sarif report: %w", err)
	}

	run := report.AddRun("vigil", "https://github.com/had-nu/vigil")

	seen := make(map[string]struct{})
	for _, f := range findings {
		ruleID := ruleID(f.Rule)
		if _, ok := seen[ruleID]; !ok {
			run.AddRule(ruleID).WithDescription(f.Rule)
			seen[ruleID] = struct{}{}
		}
		run.AddResult(ruleID).
			WithLevel("error").
			WithMessage(fmt.Sprintf("%s detected", f.Rule)).
			WithLocationDetails(f.FilePath, f.LineNumber, 1)
	}

	if err := report.Write(w); err != nil {
		return fmt.Errorf("encode sarif: %w", err)
	}
	return nil
}

// ruleID normalizes a rule name into a SARIF rule identifier.
func ruleID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// groupByFile buckets findings per file, preserving first-seen file order.
func groupByFile(findings []types.Finding) (map[string][]types.Finding, []string) {
	byFile := make(map[string][]types.Finding)
	order := make([]string, 0)
	for _, f := range findings {
		if _, ok := byFile[f.FilePath]; !ok {
			order = append(order, f.FilePath)
		}
		byFile[f.FilePath] = append(byFile[f.FilePath], f)
	}
	return byFile, order
}

// useColor enables ANSI colors only when writing straight to a terminal.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
