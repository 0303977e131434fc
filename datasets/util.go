package datasets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// profileFileNames lists the names of the profile files in root, sorted by
// file name.
func profileFileNames(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", root)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), profileExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// hasProfileFiles reports whether root contains at least one profile file.
func hasProfileFiles(root string) (bool, error) {
	names, err := profileFileNames(root)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureDir creates root (and its parents) when it does not exist yet.
func ensureDir(root string) error {
	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			return errors.Wrapf(ErrInvalidConfig, "root %s is not a directory", root)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", root)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", root)
	}
	return nil
}

func labelPath(root, lang string) string {
	return filepath.Join(root, lang+".txt")
}

func profilePath(root, id string) string {
	return filepath.Join(root, id+profileExt)
}
