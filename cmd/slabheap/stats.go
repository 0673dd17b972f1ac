package main

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/internal/workload"
	"github.com/vkngwrapper/slabheap/kalloc"
	"github.com/vkngwrapper/slabheap/region"
	"golang.org/x/exp/slog"
)

var (
	statsWorkloads []string
	statsDetailed  bool
	statsLeaks     bool
	statsUnsynced  bool
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().StringArrayVarP(&statsWorkloads, "workload", "w", nil, "Workload file to replay before printing statistics (repeatable)")
	cmd.Flags().BoolVar(&statsDetailed, "detailed", false, "Include the detailed block map")
	cmd.Flags().BoolVar(&statsLeaks, "leaks", false, "Log every block left live by the workloads")
	cmd.Flags().BoolVar(&statsUnsynced, "externally-synchronized", false, "Create the heap without its internal mutex")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show heap statistics as JSON",
		Long: `The stats command maps a fresh region, creates a heap over it, replays the
provided workloads in order and prints the heap statistics as JSON. The region is
released when the command returns.

Blocks a workload does not free stay live for the following workloads and are
counted in the statistics.

Example:
  slabheap stats
  slabheap stats --size 262144 --workload skewed.yaml --detailed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd)
		},
	}
}

func runStats(cmd *cobra.Command) (err error) {
	logger := newLogger(cmd)

	workloads := make([]*workload.Workload, 0, len(statsWorkloads))
	for _, path := range statsWorkloads {
		w, err := workload.LoadFile(path)
		if err != nil {
			return err
		}
		workloads = append(workloads, w)
	}

	r, err := region.Map(heapSize)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := r.Release(); releaseErr != nil {
			err = cerrors.CombineErrors(err, cerrors.Wrap(releaseErr, "failed to release the heap region"))
		}
	}()

	var flags heap.CreateFlags
	if statsUnsynced {
		flags |= heap.HeapCreateExternallySynchronized
	}

	var allocator kalloc.Global
	err = allocator.InitWithOptions(logger, r.Bytes(), heap.CreateOptions{Flags: flags})
	if err != nil {
		return err
	}

	h, err := allocator.Heap()
	if err != nil {
		return err
	}

	logger.Info("heap created",
		slog.Int("size", h.Size()),
		slog.Int("slabSize", h.SlabSize()),
		slog.String("flags", h.Flags().String()),
	)

	runner := workload.NewRunner(logger, &allocator)
	defer runner.Drain()

	for _, w := range workloads {
		result, err := runner.Run(w)
		logger.Info("workload finished",
			slog.String("name", w.Name),
			slog.Int("allocated", result.Allocated),
			slog.Int("freed", result.Freed),
			slog.Int("failed", result.Failed),
			slog.Int("live", result.Live),
		)
		if err != nil {
			return err
		}
	}

	if err := h.CheckCorruption(); err != nil {
		return err
	}

	if statsLeaks {
		live := h.LogLiveAllocations(cmd.Context())
		logger.Info("live blocks", slog.Int("count", live))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), h.BuildStatsString(statsDetailed))
	return err
}
