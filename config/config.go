package config // CLI configuration file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"

	"seq2img/tools/fcgr"
)

// MaxK bounds the k-mer length so that a (2^k)x(2^k) float64 matrix per worker stays small.
const MaxK = 12

const (
	EncoderCGR    = "cgr"
	EncoderKmer   = "kmer"
	EncoderOneHot = "onehot"

	NormNone = "none"
	NormSum  = "sum"
	NormMax  = "max"
	NormBoth = "both"

	FormatImage   = "image"
	FormatMatrix  = "matrix"
	FormatNpy     = "npy"
	FormatHeatmap = "heatmap"
)

var (
	Encoders       = []string{EncoderCGR, EncoderKmer, EncoderOneHot}
	Normalizations = []string{NormNone, NormSum, NormMax, NormBoth}
	OutputFormats  = []string{FormatImage, FormatMatrix, FormatNpy, FormatHeatmap}
)

// Options holds everything a dataset run needs. It is immutable once validated.
type Options struct {
	InDir         string
	OutDir        string
	K             int
	Encoder       string
	Normalization string
	OutputFormat  string
	Workers       int
	Extensions    []string
}

// Default returns the options used when nothing else is given.
func Default() Options {
	return Options{
		K:             3,
		Encoder:       EncoderCGR,
		Normalization: NormBoth,
		OutputFormat:  FormatImage,
		Workers:       runtime.NumCPU(),
		Extensions:    []string{".fasta", ".fa", ".fna", ".fasta.gz"},
	}
}

// Error is a configuration error. Runs fail on it before any record is touched.
type Error struct {
	Key   string
	Value string
	Msg   string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Key, e.Msg)
	}
	return fmt.Sprintf("invalid configuration: %s=%q: %s", e.Key, e.Value, e.Msg)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate checks every option and returns the first *Error found.
func (o Options) Validate() error {
	if o.K < 1 || o.K > MaxK {
		return &Error{"k", strconv.Itoa(o.K), fmt.Sprintf("must be an integer in [1, %d]", MaxK)}
	}
	if !oneOf(o.Encoder, Encoders) {
		return &Error{"encoder", o.Encoder, "expected one of " + strings.Join(Encoders, "|")}
	}
	if o.Encoder == EncoderKmer && o.K > fcgr.MaxGridK {
		return &Error{"k", strconv.Itoa(o.K), fmt.Sprintf("the kmer grid is 4^k x 4^k; k must be at most %d", fcgr.MaxGridK)}
	}
	if !oneOf(o.Normalization, Normalizations) {
		return &Error{"normalization", o.Normalization, "expected one of " + strings.Join(Normalizations, "|")}
	}
	if !oneOf(o.OutputFormat, OutputFormats) {
		return &Error{"output_format", o.OutputFormat, "expected one of " + strings.Join(OutputFormats, "|")}
	}
	if o.Workers < 1 {
		return &Error{"worker_count", strconv.Itoa(o.Workers), "must be a positive integer"}
	}
	if len(o.Extensions) == 0 {
		return &Error{"extensions", "", "at least one sequence file extension is required"}
	}
	if o.InDir == "" {
		return &Error{"in_dir", "", "is required"}
	}
	if o.OutDir == "" {
		return &Error{"out_dir", "", "is required"}
	}
	isDir, err := pathutil.IsDir(o.InDir)
	if err != nil || !isDir {
		return &Error{"in_dir", o.InDir, "must be an existing directory"}
	}
	if filepath.Clean(o.InDir) == filepath.Clean(o.OutDir) {
		return &Error{"out_dir", o.OutDir, "must differ from in_dir"}
	}
	return nil
}

// Set assigns one option from its textual key=value form.
func (o *Options) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.TrimSpace(key) {
	case "k", "k_mer":
		k, err := strconv.Atoi(value)
		if err != nil {
			return &Error{"k", value, "must be an integer"}
		}
		o.K = k
	case "encoder":
		o.Encoder = strings.ToLower(value)
	case "normalization":
		o.Normalization = strings.ToLower(value)
	case "output_format":
		o.OutputFormat = strings.ToLower(value)
	case "worker_count", "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &Error{"worker_count", value, "must be an integer"}
		}
		o.Workers = n
	case "extensions", "ext":
		o.Extensions = SplitList(value)
	case "in_dir":
		o.InDir = value
	case "out_dir":
		o.OutDir = value
	default:
		return &Error{key, value, "unknown option"}
	}
	return nil
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseArgs applies key=value pairs on top of o.
func (o *Options) ParseArgs(args []string) error {
	for _, arg := range args {
		kv := splitOption(arg)
		if err := o.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile applies a key=value config file on top of o. Blank lines and # comments are ignored.
func (o *Options) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open config file %s", path)
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args = append(args, line)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	return o.ParseArgs(args)
}

func splitOption(arg string) [2]string {
	var kv [2]string
	for i, ch := range arg {
		if ch == '=' {
			kv[0] = arg[:i]
			kv[1] = arg[i+1:]
			return kv
		}
	}
	kv[0] = arg
	kv[1] = ""
	return kv
}
