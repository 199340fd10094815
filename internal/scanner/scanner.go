package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/had-nu/vigil/internal/types"
)

// Detector defines the behavior required to detect secrets in content.
type Detector interface {
	Detect(content []byte) ([]types.Finding, error)
}

// FileScanner scans staged files for secrets.
type FileScanner struct {
	detector Detector
	allow    *Allowlist
	log      *logrus.Logger
}

// New creates a new FileScanner. allow may be nil.
func New(d Detector, allow *Allowlist, log *logrus.Logger) *FileScanner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileScanner{detector: d, allow: allow, log: log}
}

// FilterReadable keeps only the paths, relative to root, that the current
// process can open for reading. Input order is preserved. Staged entries that
// have since been deleted or made unreadable are silently dropped: there is
// nothing to scan.
func FilterReadable(root string, paths []string) []string {
	readable := make([]string, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(filepath.Join(root, p))
		if err != nil {
			continue
		}
		f.Close()
		readable = append(readable, p)
	}
	return readable
}

// Scan inspects each staged file under root in order. A failure on one file
// is recorded and scanning continues with the rest; the full staged set is
// always scanned so the report names every offending file, not just the
// first.
func (s *FileScanner) Scan(ctx context.Context, root string, paths []string) (types.ScanResult, error) {
	var result types.ScanResult
	result.Findings = make([]types.Finding, 0)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return types.ScanResult{}, err
		}

		if s.allow.PathAllowed(p) {
			s.log.Debugf("skipping allowlisted path %s", p)
			continue
		}

		findings, err := s.scanFile(root, p)
		if err != nil {
			result.Errors = append(result.Errors, types.ScanError{Path: p, Err: err})
			s.log.Debugf("skipping %s: %v", p, err)
			continue
		}

		result.Findings = append(result.Findings, findings...)
	}

	return result, nil
}

func (s *FileScanner) scanFile(root, path string) ([]types.Finding, error) {
	content, err := os.ReadFile(filepath.Join(root, path))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if !isText(content) {
		return nil, fmt.Errorf("content is not text")
	}

	findings, err := s.detector.Detect(content)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	kept := findings[:0]
	for _, f := range findings {
		if s.allow.ValueAllowed(f.Value) {
			s.log.Debugf("dropping allowlisted match in %s:%d", path, f.LineNumber)
			continue
		}
		f.FilePath = path
		kept = append(kept, f)
	}

	return kept, nil
}

// isText reports whether content can be interpreted as text: no NUL bytes
// and valid UTF-8.
func isText(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	return utf8.Valid(content)
}
