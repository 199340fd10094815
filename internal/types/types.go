package types

// Finding represents a detected secret in a staged file.
type Finding struct {
	FilePath      string
	LineNumber    int
	Rule          string
	Value         string // Raw matched line — for internal processing only, never log or display
	RedactedValue string // Safe for output: preserves context, hides the secret
}

// ScanError records a file-level error encountered during scanning.
// These are non-fatal: the file is skipped and the scan continues.
type ScanError struct {
	Path string
	Err  error
}

func (se ScanError) Error() string {
	return se.Path + ": " + se.Err.Error()
}

// ScanResult is the structured return value of a scan.
type ScanResult struct {
	Findings []Finding
	Errors   []ScanError
}

// HasErrors reports whether any file-level errors were recorded.
func (r ScanResult) HasErrors() bool {
	return len(r.Errors) > 0
}
