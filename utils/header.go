package common

import "strings"

// Positions of the pipe-delimited header fields, by the dataset convention
// ">accession|date|class|...".
const (
	AccessionField = 0
	ClassField     = 2
)

// Header is a FASTA header split on '|'.
type Header struct {
	Fields []string
}

// ParseHeader splits a header line (with or without the leading '>').
func ParseHeader(line string) Header {
	line = strings.TrimPrefix(strings.TrimSpace(line), ">")
	fields := strings.Split(line, "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return Header{Fields: fields}
}

// Field returns field i, or "" when the header is shorter.
func (h Header) Field(i int) string {
	if i < 0 || i >= len(h.Fields) {
		return ""
	}
	return h.Fields[i]
}

// Accession returns the first token of field i.
func (h Header) Accession(i int) string {
	if f := strings.Fields(h.Field(i)); len(f) > 0 {
		return f[0]
	}
	return ""
}

// SafeAccession turns an accession into a file stem: '.' becomes '_' so the stem never carries an
// extension, and path separators are replaced for the same reason.
func SafeAccession(acc string) string {
	return strings.NewReplacer(".", "_", "/", "_", "\\", "_").Replace(acc)
}
