// Package split_set copies a per-class tree into train/ and val/ subtrees.
package split_set

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/sirupsen/logrus"

	common "seq2img/utils"
)

type Options struct {
	InDir      string
	OutDir     string
	TrainRatio float64
	Seed       int64
}

type Summary struct {
	Train map[string]int
	Val   map[string]int
}

// Run shuffles each class's files with a generator seeded by opts.Seed (classes visited in
// lexical order) and copies the first floor(n*ratio) into train/<class>, the rest into val/<class>.
func Run(opts Options, log *logrus.Logger) (Summary, error) {
	summary := Summary{Train: make(map[string]int), Val: make(map[string]int)}
	if opts.TrainRatio < 0 || opts.TrainRatio > 1 {
		return summary, errors.Errorf("train_ratio must be in [0, 1], got %g", opts.TrainRatio)
	}
	if opts.OutDir == "" {
		return summary, errors.New("out_dir is required")
	}
	isDir, err := pathutil.IsDir(opts.InDir)
	if err != nil || !isDir {
		return summary, errors.Errorf("in_dir must be an existing directory: %s", opts.InDir)
	}

	classes, err := os.ReadDir(opts.InDir)
	if err != nil {
		return summary, errors.Wrapf(err, "list %s", opts.InDir)
	}
	r := rand.New(rand.NewSource(opts.Seed))
	for _, class := range classes {
		if !class.IsDir() || strings.HasPrefix(class.Name(), ".") {
			continue
		}
		files, err := listFiles(filepath.Join(opts.InDir, class.Name()))
		if err != nil {
			return summary, err
		}
		r.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
		cut := int(float64(len(files)) * opts.TrainRatio)

		for i, f := range files {
			subset := "val"
			if i < cut {
				subset = "train"
			}
			dir := filepath.Join(opts.OutDir, subset, class.Name())
			if err := common.EnsureDir(dir); err != nil {
				return summary, err
			}
			if err := common.CopyFile(f, filepath.Join(dir, filepath.Base(f))); err != nil {
				return summary, err
			}
		}
		summary.Train[class.Name()] = cut
		summary.Val[class.Name()] = len(files) - cut
		log.WithFields(logrus.Fields{"class": class.Name(), "train": cut, "val": len(files) - cut}).Info("split class")
	}
	return summary, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
