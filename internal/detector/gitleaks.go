package detector

import (
	"fmt"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/had-nu/vigil/internal/types"
)

// Gitleaks wraps the gitleaks detection engine behind the same Detect
// contract as the built-in rule table. It is selected with `engine: gitleaks`
// in the config and brings gitleaks' full default rule set.
type Gitleaks struct {
	detector *detect.Detector
}

// NewGitleaks creates a Gitleaks detector with the upstream default config.
func NewGitleaks() (*Gitleaks, error) {
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("create gitleaks detector: %w", err)
	}
	return &Gitleaks{detector: d}, nil
}

// Detect scans the provided content with gitleaks and converts its findings.
// Raw secret values are dropped; only the redacted marker is carried forward.
func (g *Gitleaks) Detect(content []byte) ([]types.Finding, error) {
	raw := g.detector.DetectBytes(content)

	findings := make([]types.Finding, 0, len(raw))
	for _, f := range raw {
		findings = append(findings, types.Finding{
			LineNumber:    f.StartLine,
			Rule:          strings.ToLower(f.RuleID),
			Value:         strings.TrimSpace(f.Line),
			RedactedValue: "[REDACTED]",
		})
	}

	return findings, nil
}
