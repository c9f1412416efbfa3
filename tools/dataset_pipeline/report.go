package dataset_pipeline

import (
	"bytes"
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	common "seq2img/utils"
)

// Status is the outcome of one record.
type Status string

const (
	StatusOK        Status = "ok"
	StatusEmpty     Status = "empty"     // nothing to write, not a failure
	StatusFailed    Status = "failed"    // this record's output is missing
	StatusCancelled Status = "cancelled" // the run stopped before the record was started
)

// Result is the report line of one record, or of one whole file that could not be parsed.
type Result struct {
	Class     string
	Accession string
	File      string
	Index     int
	Status    Status
	Length    int
	Skipped   int // windows or columns dropped for symbols outside the alphabet
	Output    string
	Digest    string
	Err       error
}

// ClassTally aggregates the results of one class.
type ClassTally struct {
	Class      string
	Total      int
	OK         int
	Empty      int
	Failed     int
	Cancelled  int
	MeanLength float64
	StdLength  float64
}

// Report is the outcome of a run. Results are ordered by class, accession, file and record index.
type Report struct {
	Results []Result
	Classes []ClassTally
}

func less(a, b Result) bool {
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	if a.Accession != b.Accession {
		return a.Accession < b.Accession
	}
	if a.File != b.File {
		return a.File < b.File
	}
	return a.Index < b.Index
}

func newReport(results []Result) *Report {
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })

	r := &Report{Results: results}
	lengths := make(map[string][]float64)
	byClass := make(map[string]*ClassTally)
	var order []string
	for _, res := range results {
		t, ok := byClass[res.Class]
		if !ok {
			t = &ClassTally{Class: res.Class}
			byClass[res.Class] = t
			order = append(order, res.Class)
		}
		t.Total++
		switch res.Status {
		case StatusOK:
			t.OK++
			lengths[res.Class] = append(lengths[res.Class], float64(res.Length))
		case StatusEmpty:
			t.Empty++
		case StatusFailed:
			t.Failed++
		case StatusCancelled:
			t.Cancelled++
		}
	}
	for _, class := range order {
		t := byClass[class]
		if l := lengths[class]; len(l) > 1 {
			t.MeanLength, t.StdLength = stat.MeanStdDev(l, nil)
		} else if len(l) == 1 {
			t.MeanLength = l[0]
		}
		r.Classes = append(r.Classes, *t)
	}
	return r
}

// Failed counts records without an output because of an error.
func (r *Report) Failed() int {
	n := 0
	for _, t := range r.Classes {
		n += t.Failed
	}
	return n
}

// Cancelled counts records never started.
func (r *Report) Cancelled() int {
	n := 0
	for _, t := range r.Classes {
		n += t.Cancelled
	}
	return n
}

// Succeeded counts records whose output was written.
func (r *Report) Succeeded() int {
	n := 0
	for _, t := range r.Classes {
		n += t.OK
	}
	return n
}

var reportHeader = []string{
	"class", "accession", "file", "index", "status", "length", "skipped_windows", "output", "digest", "error",
}

// WriteCSV writes one line per result.
func (r *Report) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		row := []string{
			res.Class, res.Accession, res.File, strconv.Itoa(res.Index), string(res.Status),
			strconv.Itoa(res.Length), strconv.Itoa(res.Skipped), res.Output, res.Digest, msg,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV atomically writes the CSV report to path.
func (r *Report) SaveCSV(path string) error {
	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return err
	}
	return common.WriteFileAtomic(path, buf.Bytes())
}

// Log emits the per-record lines and per-class tallies in report order.
func (r *Report) Log(log *logrus.Logger) {
	for _, res := range r.Results {
		entry := log.WithFields(logrus.Fields{
			"class":     res.Class,
			"accession": res.Accession,
			"file":      res.File,
		})
		switch res.Status {
		case StatusOK:
			if res.Length == 0 {
				entry.WithField("path", res.Output).Info("empty sequence, wrote all-zero matrix")
				continue
			}
			entry.WithFields(logrus.Fields{"path": res.Output, "skipped": res.Skipped}).Debug("encoded")
		case StatusEmpty:
			entry.Info("empty record, nothing written")
		case StatusFailed:
			entry.WithError(res.Err).Warn("record failed")
		case StatusCancelled:
			entry.Debug("record cancelled")
		}
	}
	for _, t := range r.Classes {
		log.WithFields(logrus.Fields{
			"class":       t.Class,
			"total":       t.Total,
			"ok":          t.OK,
			"empty":       t.Empty,
			"failed":      t.Failed,
			"cancelled":   t.Cancelled,
			"mean_length": strconv.FormatFloat(t.MeanLength, 'f', 1, 64),
			"std_length":  strconv.FormatFloat(t.StdLength, 'f', 1, 64),
		}).Info("class summary")
	}
	log.WithFields(logrus.Fields{
		"ok":        r.Succeeded(),
		"failed":    r.Failed(),
		"cancelled": r.Cancelled(),
	}).Info("run complete")
}
