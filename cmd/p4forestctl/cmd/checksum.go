package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum",
	Short: "Build a brick forest and print its CRC32 checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildForest()
		if err != nil {
			return err
		}
		fmt.Printf("0x%08x\n", f.Checksum())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksumCmd)
}
