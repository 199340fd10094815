// Package deps resolves the external commands the hook depends on.
package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MissingDependencyError reports every required command that could not be
// located, not just the first one.
type MissingDependencyError struct {
	Names []string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing required commands: %s", strings.Join(e.Names, ", "))
}

// Locator searches a fixed set of directories for executables. The search
// directories are injected so tests never have to touch the process
// environment.
type Locator struct {
	dirs []string
}

// New creates a Locator over the given search directories. Empty entries are
// dropped.
func New(dirs []string) *Locator {
	cleaned := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	return &Locator{dirs: cleaned}
}

// FromEnv creates a Locator over the directories in the PATH environment
// variable.
func FromEnv() *Locator {
	return New(filepath.SplitList(os.Getenv("PATH")))
}

// Locate resolves each named command to an absolute path. If any name cannot
// be resolved it returns a MissingDependencyError listing all unresolved
// names.
func (l *Locator) Locate(names ...string) (map[string]string, error) {
	found := make(map[string]string, len(names))
	var missing []string

	for _, name := range names {
		path, ok := l.find(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		found[name] = path
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingDependencyError{Names: missing}
	}

	return found, nil
}

// find returns the first candidate that both exists and is executable.
// Existence alone does not count: a non-executable file of the right name
// must be skipped.
func (l *Locator) find(name string) (string, bool) {
	for _, dir := range l.dirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		return abs, true
	}
	return "", false
}
