// SPDX-License-Identifier: MPL-2.0

package prefix

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// sandboxPrefix removes every symlink under root that points outside root,
// so no Wine-created desktop-integration link (Desktop, My Documents,
// dosdevices drive mappings) can leak into the host filesystem. Links under
// dosdevices are deleted outright; user profile links are replaced with
// plain directories so applications still find the expected folders. Links
// listed in keep survive untouched, so --tmpfs temp links are not undone.
func sandboxPrefix(root string, keep []string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve prefix root: %w", err)
	}
	kept := make(map[string]bool, len(keep))
	for _, link := range keep {
		abs, err := filepath.Abs(link)
		if err != nil {
			return fmt.Errorf("failed to resolve kept link %s: %w", link, err)
		}
		kept[abs] = true
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if kept[path] {
			return nil
		}
		outside, err := linkEscapes(absRoot, path)
		if err != nil {
			return err
		}
		if !outside {
			return nil
		}

		log.Debug("removing external symlink", "path", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove symlink %s: %w", path, err)
		}
		if inDosDevices(absRoot, path) {
			return nil
		}
		if err := os.Mkdir(path, 0o755); err != nil {
			return fmt.Errorf("failed to replace symlink %s: %w", path, err)
		}
		return nil
	})
}

// linkEscapes reports whether the symlink at path resolves to a location
// outside root.
func linkEscapes(root, path string) (bool, error) {
	dest, err := os.Readlink(path)
	if err != nil {
		return false, fmt.Errorf("failed to read symlink %s: %w", path, err)
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	dest = filepath.Clean(dest)

	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return true, nil
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// inDosDevices reports whether path sits directly under the prefix's
// dosdevices directory (drive mappings such as z:).
func inDosDevices(root, path string) bool {
	return filepath.Dir(path) == filepath.Join(root, "dosdevices")
}
