package detector

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRulesFile(t, `rules:
  - name: Internal Service Token
    pattern: "svc-[a-f0-9]{32}"
  - name: Legacy Password Line
    pattern: "(?i)password\\s*=\\s*\\S+"
    min_entropy: 2.5
`)

	patterns, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("LoadRules() = %d patterns, want 2", len(patterns))
	}
	if patterns[0].Name != "Internal Service Token" {
		t.Errorf("patterns[0].Name = %q", patterns[0].Name)
	}
	if patterns[1].MinEntropy != 2.5 {
		t.Errorf("patterns[1].MinEntropy = %v, want 2.5", patterns[1].MinEntropy)
	}

	// Loaded rules must actually detect through the normal Detector path.
	d := New(patterns)
	findings, err := d.Detect([]byte("url = https://x?t=svc-0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Detect() with loaded rules = %d findings, want 1", len(findings))
	}
	if findings[0].Rule != "Internal Service Token" {
		t.Errorf("Finding.Rule = %q", findings[0].Rule)
	}
}

func TestLoadRules_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid regex",
			content: "rules:\n  - name: Broken\n    pattern: \"[\"\n",
		},
		{
			name:    "missing name",
			content: "rules:\n  - pattern: \"x\"\n",
		},
		{
			name:    "not yaml",
			content: "{{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRulesFile(t, tt.content)
			if _, err := LoadRules(path); err == nil {
				t.Error("LoadRules() expected error, got nil")
			}
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadRules() expected error for missing file, got nil")
	}
}
