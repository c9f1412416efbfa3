// Package demux splits one combined FASTA file into the per-class tree the dataset pipeline
// reads: <out>/<class>/<accession>.fasta, class and accession taken from pipe-delimited header
// fields.
package demux

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	common "seq2img/utils"
)

type Options struct {
	InFile         string
	OutDir         string
	AccessionField int
	ClassField     int
	LineWidth      int // 0 means 60
}

type Summary struct {
	Written    map[string]int // per class
	Skipped    int            // headers lacking the class or accession field
	Duplicates int            // records that replaced an earlier record's file
}

// Run demultiplexes opts.InFile. Records with an incomplete header are skipped and counted; only
// an unreadable input or an unwritable output stops the run.
func Run(opts Options, log *logrus.Logger) (Summary, error) {
	summary := Summary{Written: make(map[string]int)}
	if opts.InFile == "" || opts.OutDir == "" {
		return summary, errors.New("in_file and out_dir are required")
	}
	width := opts.LineWidth
	if width <= 0 {
		width = 60
	}

	seen := make(map[string]bool)
	err := common.StreamFasta(opts.InFile, func(rec common.FastaRecord) error {
		h := common.ParseHeader(rec.Header)
		class := strings.NewReplacer("/", "_", "\\", "_").Replace(h.Field(opts.ClassField))
		acc := h.Accession(opts.AccessionField)
		if class == "" || acc == "" {
			summary.Skipped++
			log.WithFields(logrus.Fields{"header": rec.Header, "index": rec.Index}).Warn("header lacks class or accession field, skipped")
			return nil
		}

		dir := filepath.Join(opts.OutDir, class)
		if err := common.EnsureDir(dir); err != nil {
			return err
		}
		path := filepath.Join(dir, common.SafeAccession(acc)+".fasta")
		if seen[path] {
			summary.Duplicates++
			log.WithField("path", path).Warn("duplicate accession, overwriting")
		}
		seen[path] = true

		out := fmt.Sprintf(">%s\n%s", rec.Header, common.WrapFasta(string(rec.Seq), width))
		if err := common.WriteFileAtomic(path, []byte(out)); err != nil {
			return err
		}
		summary.Written[class]++
		log.WithFields(logrus.Fields{"class": class, "path": path}).Debug("saved record")
		return nil
	})
	return summary, err
}
