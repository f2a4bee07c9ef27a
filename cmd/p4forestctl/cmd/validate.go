package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Build a brick forest and run its structural validity check",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildForest()
		if err != nil {
			return err
		}
		ok, err := f.Validate(context.Background())
		if err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		if !ok {
			fmt.Println("forest is NOT valid")
			os.Exit(1)
		}
		fmt.Println("forest is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
