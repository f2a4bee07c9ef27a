package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/p4forest/comm"
	"github.com/katalvlaran/p4forest/connectivity"
	"github.com/katalvlaran/p4forest/forest"
	"github.com/katalvlaran/p4forest/quadrant"
)

var partitionDemoRanks int

type unitCodec struct{}

func (unitCodec) Size() int                 { return 0 }
func (unitCodec) Marshal(struct{}, []byte)  {}
func (unitCodec) Unmarshal([]byte) struct{} { return struct{}{} }

var partitionDemoCmd = &cobra.Command{
	Use:   "partition-demo",
	Short: "Build a brick forest split evenly over N ranks, then move everything onto rank 0",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := partitionDemoRanks
		if n < 1 {
			return fmt.Errorf("--ranks must be >= 1, got %d", n)
		}

		dim := quadrant.Dim2
		if cfg.Brick.Dim == 3 {
			dim = quadrant.Dim3
		}
		conn, err := connectivity.NewBrick(dim, cfg.Brick.Mi, cfg.Brick.Ni, cfg.Brick.Ki, cfg.Brick.Periodic)
		if err != nil {
			return fmt.Errorf("building connectivity: %w", err)
		}

		transports := comm.NewLocal(n)
		forests := make([]*forest.Forest[struct{}], n)
		init := func(int, quadrant.Quadrant) struct{} { return struct{}{} }

		var wg sync.WaitGroup
		errs := make([]error, n)
		for r := 0; r < n; r++ {
			r := r
			wg.Add(1)
			go func() {
				defer wg.Done()
				f, err := forest.NewUniform[struct{}](dim, conn, uint8(cfg.Forest.Level), transports[r], logger, init)
				forests[r] = f
				errs[r] = err
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return fmt.Errorf("building forest: %w", err)
			}
		}

		fmt.Println("before redistribute:")
		for r, f := range forests {
			var total int
			for _, t := range f.Trees {
				total += t.Len()
			}
			fmt.Printf("  rank %d owns %d quadrants\n", r, total)
		}

		newCounts := make([]int64, n)
		newCounts[0] = forests[0].GlobalFirstQuadrant[n]

		for r := 0; r < n; r++ {
			r := r
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[r] = forests[r].Redistribute(context.Background(), newCounts, unitCodec{})
			}()
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return fmt.Errorf("redistribute: %w", err)
			}
		}

		fmt.Println("after redistribute (all on rank 0):")
		for r, f := range forests {
			var total int
			for _, t := range f.Trees {
				total += t.Len()
			}
			fmt.Printf("  rank %d owns %d quadrants\n", r, total)
		}
		return nil
	},
}

func init() {
	partitionDemoCmd.Flags().IntVar(&partitionDemoRanks, "ranks", 2, "number of simulated ranks to split the forest across")
	rootCmd.AddCommand(partitionDemoCmd)
}
