package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var RootCmd = &cobra.Command{
	Use:   "ops",
	Short: "Operator tools for the finedu site and mobile app",
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig binds settings to the environment: MOBILE_ROOT, API_BASE_URL,
// SMOKE_EMAIL and SMOKE_PASSWORD.
func initConfig() {
	viper.AutomaticEnv()
	viper.SetDefault("api_base_url", "http://localhost:8000/api")
	viper.SetDefault("smoke_email", "smoke@example.com")
	viper.SetDefault("smoke_password", "")
}
