package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vkngwrapper/slabheap/heap"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show the size classes and slab layout",
		Long: `The classes command shows every size class together with the range of the
heap region its slab occupies and the number of blocks the slab can hold.

Example:
  slabheap classes
  slabheap classes --size 262144`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(cmd)
		},
	}
}

func runClasses(cmd *cobra.Command) error {
	h, err := heap.FromRegion(newLogger(cmd), make([]byte, heapSize), heap.CreateOptions{})
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "CLASS\tBLOCK\tOFFSET\tLENGTH\tCAPACITY")
	for _, class := range heap.SizeClasses {
		offset, length := h.SlabRange(class)
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%d\n", class, class.Size(), offset, length, h.Pool(class).Capacity())
	}

	return writer.Flush()
}
