package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Build a brick connectivity and print each tree's adjacent trees",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, _, err := buildConnectivity()
		if err != nil {
			return err
		}

		for tree := 0; tree < conn.NumTrees(); tree++ {
			neighbors := conn.Neighbors(tree)
			sort.Ints(neighbors)
			fmt.Printf("tree %d: %v\n", tree, neighbors)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topologyCmd)
}
