package dataset_pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Source is one sequence file of one class.
type Source struct {
	Class string
	Path  string
}

// Discover lists the sequence files of every class subdirectory of inDir, in lexical order.
// Hidden entries are ignored, as is skipDir (typically the output root when it lives inside
// inDir). A file matches when its lowercase name ends with one of exts.
func Discover(inDir string, exts []string, skipDir string) ([]Source, error) {
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return nil, errors.Wrapf(err, "list input directory %s", inDir)
	}
	skip := ""
	if skipDir != "" {
		skip, _ = filepath.Abs(skipDir)
	}

	var sources []Source
	for _, class := range entries {
		if !class.IsDir() || strings.HasPrefix(class.Name(), ".") {
			continue
		}
		classDir := filepath.Join(inDir, class.Name())
		if abs, _ := filepath.Abs(classDir); abs == skip {
			continue
		}
		files, err := os.ReadDir(classDir)
		if err != nil {
			return nil, errors.Wrapf(err, "list class directory %s", classDir)
		}
		for _, f := range files {
			if f.IsDir() || strings.HasPrefix(f.Name(), ".") || !hasExt(f.Name(), exts) {
				continue
			}
			sources = append(sources, Source{Class: class.Name(), Path: filepath.Join(classDir, f.Name())})
		}
	}
	return sources, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
