// Package dataset_pipeline materializes a per-class sequence tree into a mirrored tree of encoded
// matrices, one output file per sequence record.
//
// A run is owned by a Session: it is created from validated options, holds the worker pool, the
// selected encoder, normalization policy and matrix writer, and is released with Close. Nothing
// about a run lives in package-level state.
package dataset_pipeline

import (
	"io"
	"strconv"
	"time"

	"github.com/pbenner/threadpool"
	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"gonum.org/v1/gonum/mat"

	"seq2img/config"
	"seq2img/tools/fcgr"
	"seq2img/tools/matrix_writer"
	"seq2img/tools/normalize"
	"seq2img/tools/one_hot"
)

// Encoder maps one uppercase sequence to a matrix, also returning how many windows (or columns)
// were skipped for holding symbols outside the alphabet.
type Encoder interface {
	K() int
	Encode(seq []byte) (*mat.Dense, int)
}

// Session is the execution context of one run.
type Session struct {
	Opts config.Options

	log       *logrus.Logger
	pool      threadpool.ThreadPool
	encoder   Encoder
	policy    normalize.Policy
	normalize bool
	writer    matrix_writer.Writer

	progressOut io.Writer
	progress    *mpb.Progress

	started time.Time
	closed  bool
}

type SessionOption func(*Session)

// WithLogger routes run logging to log.
func WithLogger(log *logrus.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithProgress draws a progress bar on w while records are encoded.
func WithProgress(w io.Writer) SessionOption {
	return func(s *Session) { s.progressOut = w }
}

// NewEncoder returns the encoder configured by opts.
func NewEncoder(opts config.Options) (Encoder, error) {
	switch opts.Encoder {
	case config.EncoderCGR:
		e, err := fcgr.NewEncoder(opts.K)
		if err != nil {
			return nil, &config.Error{Key: "k", Value: strconv.Itoa(opts.K), Msg: err.Error()}
		}
		return e, nil
	case config.EncoderKmer:
		g, err := fcgr.NewGridEncoder(opts.K)
		if err != nil {
			return nil, &config.Error{Key: "k", Value: strconv.Itoa(opts.K), Msg: err.Error()}
		}
		return g, nil
	case config.EncoderOneHot:
		return one_hot.Encoder{}, nil
	}
	return nil, &config.Error{Key: "encoder", Value: opts.Encoder, Msg: "unknown encoder"}
}

// NewSession validates opts and prepares everything a run needs. Any configuration problem is
// reported here, before a single file is read.
func NewSession(opts config.Options, options ...SessionOption) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	encoder, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	}
	policy, err := normalize.Parse(opts.Normalization)
	if err != nil {
		return nil, &config.Error{Key: "normalization", Value: opts.Normalization, Msg: err.Error()}
	}
	writer, err := matrix_writer.New(opts.OutputFormat)
	if err != nil {
		return nil, &config.Error{Key: "output_format", Value: opts.OutputFormat, Msg: err.Error()}
	}

	s := &Session{
		Opts:      opts,
		log:       logrus.StandardLogger(),
		encoder:   encoder,
		policy:    policy,
		normalize: opts.Encoder != config.EncoderOneHot,
		writer:    writer,
		started:   time.Now(),
	}
	for _, o := range options {
		o(s)
	}
	if !s.normalize && policy != normalize.None {
		s.log.WithField("normalization", policy).Info("one-hot output is already binary; normalization ignored")
	}
	s.pool = threadpool.New(opts.Workers, 100*opts.Workers)
	if s.progressOut != nil {
		s.progress = mpb.New(mpb.WithWidth(40), mpb.WithOutput(s.progressOut))
	}

	s.log.WithFields(logrus.Fields{
		"in_dir":        opts.InDir,
		"out_dir":       opts.OutDir,
		"encoder":       opts.Encoder,
		"k":             encoder.K(),
		"normalization": policy,
		"output_format": opts.OutputFormat,
		"workers":       opts.Workers,
	}).Info("session started")
	return s, nil
}

// Close releases the session. It is safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.progress != nil {
		s.progress.Wait()
	}
	s.pool.Stop()
	s.log.WithField("elapsed", time.Since(s.started).Round(time.Millisecond)).Info("session closed")
}
