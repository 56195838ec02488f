package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rubiane-edu/finedu-web/internal/versionbump"
)

var bumpCmd = &cobra.Command{
	Use:   "bump-version",
	Short: "Increment the mobile app version, Android versionCode and iOS buildNumber",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := viper.GetString("mobile_root")
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "resolve working directory")
			}
			root = wd
		}

		res, err := versionbump.Bump(root)
		if err != nil {
			return errors.Wrapf(err, "bump version in %s", root)
		}
		for _, line := range res.Lines() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	bumpCmd.Flags().String("root", "", "mobile project root (default is MOBILE_ROOT or the working directory)")
	viper.BindPFlag("mobile_root", bumpCmd.Flags().Lookup("root"))
	RootCmd.AddCommand(bumpCmd)
}
