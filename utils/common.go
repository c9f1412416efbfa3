// Common package contains commonly used functions that benefit multiple tools
// Exporting these functions from the Common package reduces redundant code
package common

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"seq2img/tools/alphabet"
)

func init() {
	// Symbols outside the nucleotide alphabet are skipped by the encoders, not rejected by the reader.
	seq.ValidateSeq = false
}

// FastaRecord is one parsed record. Seq is folded to uppercase and owned by the handler.
type FastaRecord struct {
	Header string // full header line without '>'
	ID     string // first whitespace-delimited token of the header
	Seq    []byte
	Index  int // 0-based position of the record in its file
}

type FastaHandler func(rec FastaRecord) error

// StreamFasta calls handler for every record of a FASTA file, plain or gzip compressed.
// An empty file yields no records and no error.
func StreamFasta(file string, handler FastaHandler) error {
	info, err := os.Stat(file)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", file)
	}
	if info.Size() == 0 {
		return nil
	}

	reader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return errors.Wrapf(err, "failed to read seq file %s", file)
	}
	defer reader.Close()

	for i := 0; ; i++ {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrapf(err, "read seq %d in %s", i, file)
		}
		rec := FastaRecord{
			Header: string(record.Name),
			ID:     string(record.ID),
			Seq:    alphabet.Fold(dropSpace(record.Seq.Seq)),
			Index:  i,
		}
		if err := handler(rec); err != nil {
			return errors.Wrapf(err, "handler error (%s)", rec.ID)
		}
	}
}

// dropSpace returns a copy of seq without ASCII whitespace. The reader joins lines but keeps
// blanks and tabs inside them.
func dropSpace(seq []byte) []byte {
	out := make([]byte, 0, len(seq))
	for _, s := range seq {
		switch s {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			continue
		}
		out = append(out, s)
	}
	return out
}

// ReadFasta collects every record of file.
func ReadFasta(file string) ([]FastaRecord, error) {
	var records []FastaRecord
	err := StreamFasta(file, func(rec FastaRecord) error {
		records = append(records, rec)
		return nil
	})
	return records, err
}

// WrapFasta breaks seq into lines of width symbols, each terminated by a newline.
func WrapFasta(seq string, width int) string {
	var out strings.Builder
	for i := 0; i < len(seq); i += width {
		end := i + width
		if end > len(seq) {
			end = len(seq)
		}
		out.WriteString(seq[i:end] + "\n")
	}
	return out.String()
}
