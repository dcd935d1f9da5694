package loader

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/webglgen/errors"
)

// extensionMarker is the file every extension directory of the Khronos
// registry checkout carries.
const extensionMarker = "extension.xml"

// DiscoverExtensions lists extension names under dir: every subdirectory
// holding an extension.xml, except the "template" placeholder. The result
// is sorted.
func DiscoverExtensions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read extensions directory %s", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "template" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), extensionMarker)); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "failed to inspect %s", e.Name())
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// MergeExtensions adds names not already present, keeping the result sorted.
func MergeExtensions(existing, found []string) []string {
	seen := make(map[string]bool, len(existing)+len(found))
	var merged []string
	for _, list := range [][]string{existing, found} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				merged = append(merged, name)
			}
		}
	}
	sort.Strings(merged)
	return merged
}
