package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"seq2img/benchmark"
	"seq2img/config"
)

var (
	log = logrus.New()

	benchmarking bool
	verbose      bool
)

func printVersion() {
	fmt.Println("seq2img - Version Information Menu")
	fmt.Println("Central Executable:")
	fmt.Printf("\tseq2img:\t\t%s\n", config.Main_version)
	fmt.Printf("\nModular tools:\n")
	fmt.Printf("\tDataset Encoder:\t%s\n", config.Dataset_Encoder)
	fmt.Printf("\tDemultiplexer:\t\t%s\n", config.Demux)
	fmt.Printf("\tTrain/Val Split:\t%s\n", config.Split_Set)
	fmt.Printf("\tSequence Generator:\t%s\n", config.Seq_Generator)
	fmt.Printf("\tSanity Check:\t\t%s\n", config.Sanity_check)
	fmt.Printf("\tBenchmark:\t\t%s\n", config.Benchmark)
	fmt.Println("")
}

// tool wraps a command body with the global --benchmark flag.
func tool(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !benchmarking {
			return run(cmd, args)
		}
		var err error
		label := strings.TrimSpace(cmd.CommandPath() + " " + strings.Join(args, " "))
		benchmark.Run(log, label, func() { err = run(cmd, args) })
		return err
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "seq2img",
		Short: "Turn labelled nucleotide sequences into image datasets",
		Long: `seq2img encodes a per-class tree of FASTA files into matrices (FCGR, k-mer grid or one-hot)
and writes them as images, CSV, npy or heatmaps in a mirrored per-class tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&benchmarking, "benchmark", false, "report computational resource usage of the command")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-record detail")

	root.AddCommand(
		newEncodeCmd(),
		newDemuxCmd(),
		newSplitCmd(),
		newSimulateCmd(),
		newCheckCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run:   func(cmd *cobra.Command, args []string) { printVersion() },
		},
	)
	return root
}

// Main controller
func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("seq2img failed")
		os.Exit(1)
	}
}
