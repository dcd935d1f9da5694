package bindgen

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/teranos/webglgen/errors"
)

// CheckResult holds the result of comparing fresh output with a file on disk.
type CheckResult struct {
	UpToDate bool
	// Missing is set when the existing file does not exist.
	Missing bool
	// FirstDiffLine is the 1-based line of the first difference, or 0.
	FirstDiffLine int
}

// Check compares generated source with the file at existingPath. The
// "// Generator:", "// Source version:" and "// Source last modified:" lines
// are ignored; they change between builds and commits without changing the
// bindings.
func Check(generated []byte, existingPath string) (*CheckResult, error) {
	existing, err := os.ReadFile(existingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &CheckResult{Missing: true}, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", existingPath)
	}

	fresh, err := filterMetadataLines(generated)
	if err != nil {
		return nil, errors.Wrap(err, "scanning generated source")
	}
	old, err := filterMetadataLines(existing)
	if err != nil {
		return nil, errors.Wrapf(err, "scanning %s", existingPath)
	}

	line := firstDifference(fresh, old)
	return &CheckResult{UpToDate: line == 0, FirstDiffLine: line}, nil
}

// filterMetadataLines drops the metadata comment lines.
func filterMetadataLines(content []byte) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if isMetadata(trimmed) {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func isMetadata(line string) bool {
	for _, prefix := range metadataPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// firstDifference returns the 1-based index of the first differing line,
// counted in a, or 0 when both are equal.
func firstDifference(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i + 1
		}
	}
	if len(a) != len(b) {
		return n + 1
	}
	return 0
}
