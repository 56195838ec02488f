package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rubiane-edu/finedu-web/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of the ops tools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finedu ops tools version %s\n", version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
