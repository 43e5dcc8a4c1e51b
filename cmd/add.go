package cmd

import (
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "add something to track",
	Long:  `add something to track`,
}

func init() {
	rootCmd.AddCommand(addCmd)
}
