package dataset_pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pbenner/threadpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"seq2img/config"
	"seq2img/tools/matrix_writer"
	common "seq2img/utils"
)

var (
	ErrDuplicateAccession = errors.New("duplicate accession in class")
	ErrCancelled          = errors.New("run cancelled before record started")
	ErrEmptyRecord        = errors.New("record has no symbols to encode")
	ErrIO                 = errors.New("i/o failure")
)

// ioFailure keeps the underlying error while matching ErrIO under errors.Is.
type ioFailure struct{ err error }

func (e ioFailure) Error() string        { return e.err.Error() }
func (e ioFailure) Unwrap() error        { return e.err }
func (e ioFailure) Is(target error) bool { return target == ErrIO }

// Record is one sequence scheduled for encoding.
type Record struct {
	Class     string
	Accession string // as read from the header
	Stem      string // output file name without extension
	File      string
	Index     int
	Seq       []byte
}

// Run is a convenience wrapper: it opens a session for opts, runs it and closes it.
func Run(ctx context.Context, opts config.Options, options ...SessionOption) (*Report, error) {
	s, err := NewSession(opts, options...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Run(ctx)
}

// Run discovers, parses, encodes and persists the whole input tree. Per-record problems end up
// in the report; the returned error is reserved for problems that stop the run as a whole
// (unreadable input root, cancellation).
func (s *Session) Run(ctx context.Context) (*Report, error) {
	sources, err := Discover(s.Opts.InDir, s.Opts.Extensions, s.Opts.OutDir)
	if err != nil {
		return nil, err
	}
	s.log.WithField("files", len(sources)).Info("discovered sequence files")

	records, results := s.parse(ctx, sources)
	records, dups := plan(records)
	results = append(results, dups...)
	s.log.WithField("records", len(records)).Info("parsed records")

	results = append(results, s.encodeAll(ctx, records)...)

	report := newReport(results)
	report.Log(s.log)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// parse reads every source in the pool, one task per file. A file that cannot be read becomes
// a single failed result.
func (s *Session) parse(ctx context.Context, sources []Source) ([]Record, []Result) {
	perFile := make([][]Record, len(sources))
	failures := make([]*Result, len(sources))

	s.pool.RangeJob(0, len(sources), func(i int, pool threadpool.ThreadPool, erf func() error) error {
		src := sources[i]
		if ctx.Err() != nil {
			failures[i] = &Result{Class: src.Class, File: src.Path, Index: -1, Status: StatusCancelled, Err: ErrCancelled}
			return nil
		}
		recs, err := readSource(src)
		if err != nil {
			failures[i] = &Result{Class: src.Class, File: src.Path, Index: -1, Status: StatusFailed, Err: ioFailure{err}}
			return nil
		}
		perFile[i] = recs
		return nil
	})

	var records []Record
	var results []Result
	for i, recs := range perFile {
		if failures[i] != nil {
			results = append(results, *failures[i])
			continue
		}
		if len(recs) == 0 {
			s.log.WithFields(logrus.Fields{"class": sources[i].Class, "file": sources[i].Path}).Info("file holds no records")
		}
		records = append(records, recs...)
	}
	return records, results
}

func readSource(src Source) ([]Record, error) {
	stem := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	var recs []Record
	err := common.StreamFasta(src.Path, func(rec common.FastaRecord) error {
		acc := common.ParseHeader(rec.Header).Accession(common.AccessionField)
		if acc == "" {
			acc = fmt.Sprintf("%s_%d", stem, rec.Index)
		}
		recs = append(recs, Record{
			Class:     src.Class,
			Accession: acc,
			Stem:      common.SafeAccession(acc),
			File:      src.Path,
			Index:     rec.Index,
			Seq:       rec.Seq,
		})
		return nil
	})
	return recs, err
}

// plan orders records deterministically and drops every repeat of a (class, stem) pair, so that
// concurrent workers never race on one output path.
func plan(records []Record) ([]Record, []Result) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Class != b.Class {
			return a.Class < b.Class
		}
		if a.Stem != b.Stem {
			return a.Stem < b.Stem
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Index < b.Index
	})

	kept := records[:0]
	var dups []Result
	seen := make(map[[2]string]string)
	for _, rec := range records {
		key := [2]string{rec.Class, rec.Stem}
		if first, ok := seen[key]; ok {
			dups = append(dups, Result{
				Class: rec.Class, Accession: rec.Accession, File: rec.File, Index: rec.Index,
				Status: StatusFailed, Length: len(rec.Seq),
				Err: errors.Wrapf(ErrDuplicateAccession, "already produced from %s", first),
			})
			continue
		}
		seen[key] = rec.File
		kept = append(kept, rec)
	}
	return kept, dups
}

func (s *Session) encodeAll(ctx context.Context, records []Record) []Result {
	results := make([]Result, len(records))

	var bar *mpb.Bar
	if s.progress != nil && len(records) > 0 {
		bar = s.progress.AddBar(int64(len(records)),
			mpb.PrependDecorators(
				decor.Name("encoded records: ", decor.WC{W: len("encoded records: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}

	s.pool.RangeJob(0, len(records), func(i int, pool threadpool.ThreadPool, erf func() error) error {
		if ctx.Err() != nil {
			rec := records[i]
			results[i] = Result{
				Class: rec.Class, Accession: rec.Accession, File: rec.File, Index: rec.Index,
				Status: StatusCancelled, Length: len(rec.Seq), Err: ErrCancelled,
			}
		} else {
			results[i] = s.process(records[i])
		}
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if bar != nil && !bar.Completed() {
		bar.Abort(false)
	}
	return results
}

// process encodes, normalizes and persists one record.
func (s *Session) process(rec Record) Result {
	res := Result{
		Class:     rec.Class,
		Accession: rec.Accession,
		File:      rec.File,
		Index:     rec.Index,
		Length:    len(rec.Seq),
	}

	m, skipped := s.encoder.Encode(rec.Seq)
	res.Skipped = skipped
	if m.IsEmpty() {
		res.Status, res.Err = StatusEmpty, ErrEmptyRecord
		return res
	}
	if s.normalize {
		s.policy.Apply(m)
	}

	dir := filepath.Join(s.Opts.OutDir, rec.Class)
	if err := common.EnsureDir(dir); err != nil {
		res.Status, res.Err = StatusFailed, ioFailure{err}
		return res
	}
	path := filepath.Join(dir, rec.Stem+s.writer.Ext())
	digest, err := matrix_writer.Save(s.writer, m, path)
	if err != nil {
		res.Status, res.Err = StatusFailed, ioFailure{err}
		return res
	}
	res.Status, res.Output, res.Digest = StatusOK, path, digest
	return res
}
