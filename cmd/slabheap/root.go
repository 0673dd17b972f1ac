package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vkngwrapper/slabheap/heap"
	"golang.org/x/exp/slog"
)

var (
	// Global flags
	verbose  bool
	jsonLogs bool
	heapSize int
)

var rootCmd = &cobra.Command{
	Use:   "slabheap",
	Short: "Inspect and exercise slab-class heaps",
	Long: `slabheap maps a memory region, installs a slab-class heap over it and
reports how the region is partitioned and used. Allocation workloads described
in YAML can be replayed against the heap before its statistics are printed.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentFlags().
		IntVar(&heapSize, "size", heap.MinSize, "Heap size in bytes, a multiple of the minimum heap size")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the logger handed to the heap and the workload runner
func newLogger(cmd *cobra.Command) *slog.Logger {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		options.Level = slog.LevelDebug
	}

	if jsonLogs {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), options))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), options))
}
