package sanity_check

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"seq2img/config" // Version control file
	"seq2img/tools/fcgr"
	"seq2img/tools/normalize"
	"seq2img/tools/one_hot"
)

// Check is one self test and its outcome.
type Check struct {
	Name string
	Err  error
}

var checks = []struct {
	name string
	fn   func() error
}{
	{"cgr homopolymer", homopolymer},
	{"cgr distinct windows", distinctWindows},
	{"cgr invalid symbol", invalidSymbol},
	{"cgr coordinate bijection", bijection},
	{"one-hot identity", oneHotIdentity},
	{"normalize both", normalizeBoth},
}

// Run performs the built-in encoder self tests, logging each outcome along with the version
// number. It returns an error when any check fails.
func Run(log *logrus.Logger) ([]Check, error) {
	log.WithField("version", config.Main_version).Info("running seq2img sanity check")

	var results []Check
	failed := 0
	for _, c := range checks {
		err := c.fn()
		results = append(results, Check{Name: c.name, Err: err})
		if err != nil {
			failed++
			log.WithField("check", c.name).WithError(err).Error("check failed")
			continue
		}
		log.WithField("check", c.name).Info("check passed")
	}
	if failed > 0 {
		return results, errors.Errorf("%d of %d sanity checks failed", failed, len(checks))
	}
	log.Info("successfully running seq2img")
	return results, nil
}

func cgr(seq string, k int) (*mat.Dense, int, error) {
	enc, err := fcgr.NewEncoder(k)
	if err != nil {
		return nil, 0, err
	}
	m, skipped := enc.Encode([]byte(seq))
	return m, skipped, nil
}

func homopolymer() error {
	m, _, err := cgr("AAA", 3)
	if err != nil {
		return err
	}
	if r, c := m.Dims(); r != 8 || c != 8 {
		return errors.Errorf("shape %dx%d, want 8x8", r, c)
	}
	if m.At(0, 0) != 1 || mat.Sum(m) != 1 {
		return errors.Errorf("AAA should fill only cell (0,0)")
	}
	return nil
}

func distinctWindows() error {
	m, _, err := cgr("ACGT", 2)
	if err != nil {
		return err
	}
	for _, kmer := range []string{"AC", "CG", "GT"} {
		x, y, _ := fcgr.Coordinate([]byte(kmer))
		if m.At(x, y) != 1 {
			return errors.Errorf("cell of %s holds %g, want 1", kmer, m.At(x, y))
		}
	}
	if mat.Sum(m) != 3 {
		return errors.Errorf("total %g, want 3", mat.Sum(m))
	}
	return nil
}

func invalidSymbol() error {
	m, skipped, err := cgr("AANT", 3)
	if err != nil {
		return err
	}
	if mat.Sum(m) != 0 || skipped != 2 {
		return errors.Errorf("AANT gave total %g with %d skipped, want 0 and 2", mat.Sum(m), skipped)
	}
	return nil
}

func bijection() error {
	for k := 1; k <= 6; k++ {
		dim := fcgr.Dim(k)
		for x := 0; x < dim; x++ {
			for y := 0; y < dim; y++ {
				kmer := fcgr.KmerAt(x, y, k)
				gx, gy, ok := fcgr.Coordinate([]byte(kmer))
				if !ok || gx != x || gy != y {
					return errors.Errorf("k=%d: cell (%d,%d) -> %s -> (%d,%d)", k, x, y, kmer, gx, gy)
				}
			}
		}
	}
	return nil
}

func oneHotIdentity() error {
	m, _ := one_hot.Encode([]byte("ACGT"))
	eye := mat.NewDiagDense(4, []float64{1, 1, 1, 1})
	if !mat.Equal(m, eye) {
		return errors.New("one-hot of ACGT is not the 4x4 identity")
	}
	return nil
}

func normalizeBoth() error {
	m := normalize.Both.Apply(mat.NewDense(1, 2, []float64{1, 3}))
	if m.At(0, 1) != 1 || m.At(0, 0) <= 0.33 || m.At(0, 0) >= 0.34 {
		return errors.Errorf("got [%g %g], want [0.333 1]", m.At(0, 0), m.At(0, 1))
	}
	return nil
}
