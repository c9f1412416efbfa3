package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"seq2img/config"
	"seq2img/tools/dataset_pipeline"
	"seq2img/tools/demux"
	"seq2img/tools/sanity_check"
	"seq2img/tools/seq_generator"
	"seq2img/tools/split_set"
	common "seq2img/utils"
)

// optionFlags lists the encode flags that map one to one onto config keys.
var optionFlags = []string{"in_dir", "out_dir", "k", "encoder", "normalization", "output_format", "workers", "ext"}

func newEncodeCmd() *cobra.Command {
	def := config.Default()
	var (
		configFile string
		reportFile string
		progress   bool
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a per-class FASTA tree into a per-class matrix tree",
		Args:  cobra.NoArgs,
	}
	f := cmd.Flags()
	f.String("in_dir", "", "input directory, one subdirectory per class")
	f.String("out_dir", "", "output directory, mirrors the class subdirectories")
	f.Int("k", def.K, "k-mer length (cgr and kmer encoders)")
	f.String("encoder", def.Encoder, "cgr|kmer|onehot")
	f.String("normalization", def.Normalization, "none|sum|max|both")
	f.String("output_format", def.OutputFormat, "image|matrix|npy|heatmap")
	f.Int("workers", def.Workers, "number of concurrent workers")
	f.String("ext", "", "comma separated sequence file extensions (default .fasta,.fa,.fna,.fasta.gz)")
	f.StringVar(&configFile, "config", "", "key=value configuration file, overridden by explicit flags")
	f.StringVar(&reportFile, "report", "", "write the per-record report as CSV to this file")
	f.BoolVar(&progress, "progress", false, "draw a progress bar on stderr")

	cmd.RunE = tool(func(cmd *cobra.Command, args []string) error {
		opts := config.Default()
		if configFile != "" {
			if err := opts.LoadFile(configFile); err != nil {
				return err
			}
		}
		for _, name := range optionFlags {
			if cmd.Flags().Changed(name) {
				if err := opts.Set(name, cmd.Flags().Lookup(name).Value.String()); err != nil {
					return err
				}
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sessionOpts := []dataset_pipeline.SessionOption{dataset_pipeline.WithLogger(log)}
		if progress {
			sessionOpts = append(sessionOpts, dataset_pipeline.WithProgress(os.Stderr))
		}
		report, err := dataset_pipeline.Run(ctx, opts, sessionOpts...)
		if report != nil && reportFile != "" {
			if saveErr := report.SaveCSV(reportFile); saveErr != nil {
				log.WithError(saveErr).WithField("path", reportFile).Error("could not write report")
			} else {
				log.WithField("path", reportFile).Info("saved report")
			}
		}
		if err != nil {
			return err
		}
		if n := report.Failed(); n > 0 {
			return errors.Errorf("%d records failed", n)
		}
		return nil
	})
	return cmd
}

func newDemuxCmd() *cobra.Command {
	var opts demux.Options
	cmd := &cobra.Command{
		Use:   "demux",
		Short: "Split a combined FASTA file into <out>/<class>/<accession>.fasta",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.InFile, "in_file", "", "combined FASTA file")
	cmd.Flags().StringVar(&opts.OutDir, "out_dir", "", "output class tree")
	cmd.Flags().IntVar(&opts.ClassField, "class_field", common.ClassField, "0-based '|' header field holding the class")
	cmd.Flags().IntVar(&opts.AccessionField, "accession_field", common.AccessionField, "0-based '|' header field holding the accession")
	cmd.RunE = tool(func(cmd *cobra.Command, args []string) error {
		summary, err := demux.Run(opts, log)
		if err != nil {
			return err
		}
		for class, n := range summary.Written {
			log.WithFields(logrus.Fields{"class": class, "records": n}).Info("demultiplexed class")
		}
		log.WithFields(logrus.Fields{"skipped": summary.Skipped, "duplicates": summary.Duplicates}).Info("demux complete")
		return nil
	})
	return cmd
}

func newSplitCmd() *cobra.Command {
	opts := split_set.Options{TrainRatio: 0.75, Seed: 1}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Copy each class into train/ and val/ subsets",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.InDir, "in_dir", "", "class tree to split")
	cmd.Flags().StringVar(&opts.OutDir, "out_dir", "", "destination holding train/ and val/")
	cmd.Flags().Float64Var(&opts.TrainRatio, "train_ratio", opts.TrainRatio, "fraction of each class copied to train/")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "shuffle seed")
	cmd.RunE = tool(func(cmd *cobra.Command, args []string) error {
		_, err := split_set.Run(opts, log)
		return err
	})
	return cmd
}

func newSimulateCmd() *cobra.Command {
	opts := seq_generator.Options{PerClass: 10, Length: 1000, GCBias: 0.5, Seed: 1}
	var classes string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic class tree of random DNA",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.OutDir, "out_dir", "", "output class tree")
	cmd.Flags().StringVar(&classes, "classes", "A,B", "comma separated class names")
	cmd.Flags().IntVar(&opts.PerClass, "per_class", opts.PerClass, "sequences per class")
	cmd.Flags().IntVar(&opts.PerFile, "per_file", 1, "records per FASTA file")
	cmd.Flags().IntVar(&opts.Length, "length", opts.Length, "bases per sequence")
	cmd.Flags().Float64Var(&opts.GCBias, "gc_bias", opts.GCBias, "fraction of G+C")
	cmd.Flags().Float64Var(&opts.NRate, "n_rate", 0, "probability of an ambiguous N")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	cmd.RunE = tool(func(cmd *cobra.Command, args []string) error {
		opts.Classes = config.SplitList(classes)
		summary, err := seq_generator.Run(opts)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"out_dir":   opts.OutDir,
			"classes":   len(summary.Files),
			"sequences": summary.Total,
			"seed":      strconv.FormatInt(opts.Seed, 10),
		}).Info("wrote synthetic dataset")
		return nil
	})
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the encoder self tests",
		Args:  cobra.NoArgs,
		RunE: tool(func(cmd *cobra.Command, args []string) error {
			_, err := sanity_check.Run(log)
			return err
		}),
	}
}
