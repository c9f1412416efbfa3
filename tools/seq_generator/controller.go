package seq_generator

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	common "seq2img/utils"
)

// Options describes a synthetic class tree.
type Options struct {
	OutDir   string
	Classes  []string
	PerClass int     // sequences per class
	PerFile  int     // records per FASTA file; 0 or 1 writes one record per file
	Length   int     // bases per sequence
	GCBias   float64 // fraction of G+C
	NRate    float64 // probability of an ambiguous base
	Seed     int64
}

// Summary lists the files written per class.
type Summary struct {
	Files map[string][]string
	Total int
}

func (o Options) validate() error {
	switch {
	case o.OutDir == "":
		return errors.New("out_dir is required")
	case len(o.Classes) == 0:
		return errors.New("at least one class is required")
	case o.PerClass < 1:
		return errors.Errorf("per_class must be positive, got %d", o.PerClass)
	case o.Length < 0:
		return errors.Errorf("length must not be negative, got %d", o.Length)
	case o.GCBias < 0 || o.GCBias > 1:
		return errors.Errorf("gc_bias must be in [0, 1], got %g", o.GCBias)
	case o.NRate < 0 || o.NRate > 1:
		return errors.Errorf("n_rate must be in [0, 1], got %g", o.NRate)
	}
	return nil
}

// Accession is the accession of sequence i of class.
func Accession(class string, i int) string {
	return fmt.Sprintf("SIM_%s_%04d.1", class, i)
}

// Run writes <out>/<class>/<class>_<n>.fasta files with headers in the
// "accession|date|class" convention. The same seed always produces the same tree.
func Run(opts Options) (Summary, error) {
	if err := opts.validate(); err != nil {
		return Summary{}, err
	}
	perFile := opts.PerFile
	if perFile < 1 {
		perFile = 1
	}
	r := rand.New(rand.NewSource(opts.Seed))
	summary := Summary{Files: make(map[string][]string)}

	for _, class := range opts.Classes {
		dir := filepath.Join(opts.OutDir, class)
		if err := common.EnsureDir(dir); err != nil {
			return summary, err
		}
		for start := 0; start < opts.PerClass; start += perFile {
			var fastaOut strings.Builder
			for i := start; i < start+perFile && i < opts.PerClass; i++ {
				seq := GenerateDNA(r, opts.Length, opts.GCBias, opts.NRate)
				fastaOut.WriteString(fmt.Sprintf(">%s|2020-01-01|%s\n%s", Accession(class, i), class, common.WrapFasta(string(seq), 60)))
				summary.Total++
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%04d.fasta", class, start/perFile))
			if err := common.WriteFileAtomic(path, []byte(fastaOut.String())); err != nil {
				return summary, err
			}
			summary.Files[class] = append(summary.Files[class], path)
		}
	}
	return summary, nil
}
