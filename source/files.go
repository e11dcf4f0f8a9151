package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Discover lists the files a command should process. A file path must carry
// the expected extension; a directory yields every file with that extension
// in it, sorted by name. The boolean reports whether path was a directory.
func Discover(path string, ext string) ([]string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ext {
			return nil, false, errors.Errorf("%s: expected a %s file", path, ext)
		}
		return []string{path}, false, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, true, errors.Wrapf(err, "reading directory %s", path)
	}

	filenames := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ext) {
			filenames = append(filenames, filepath.Join(path, entry.Name()))
		}
	}
	slices.Sort(filenames)

	if len(filenames) == 0 {
		return nil, true, errors.Errorf("%s: no %s files found", path, ext)
	}
	return filenames, true, nil
}

// ReadUnits reads every named file into a unit.
func ReadUnits(filenames ...string) ([]Unit, error) {
	units := make([]Unit, len(filenames))

	for i, n := range filenames {
		log.Debugf("including source file %s", n)

		bytes, err := os.ReadFile(n)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", n)
		}
		units[i] = NewUnit(n, string(bytes))
	}

	return units, nil
}

// Load combines Discover and ReadUnits.
func Load(path string, ext string) ([]Unit, bool, error) {
	filenames, dir, err := Discover(path, ext)
	if err != nil {
		return nil, dir, err
	}

	units, err := ReadUnits(filenames...)
	return units, dir, err
}
