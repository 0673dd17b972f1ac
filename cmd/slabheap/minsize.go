package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vkngwrapper/slabheap/heap"
)

func init() {
	rootCmd.AddCommand(newMinSizeCmd())
}

func newMinSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minsize",
		Short: "Print the minimum heap size",
		Long: `The minsize command prints the smallest region, in bytes, a heap can be
created over. Every heap region must be a multiple of this size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), heap.MinSize)
			return err
		},
	}
}
