package main

import (
	"os"

	_ "staffadmin/api/swagger" // swagger docs

	"github.com/spf13/cobra"
)

// @title           Staff Admin API
// @version         1.0
// @description     Employee, user and role administration with a role permission model.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in header
// @name Cookie
func main() {
	serve := newServeCommand()

	rootCmd := &cobra.Command{
		Use:          "staffadmin",
		Short:        "Staff administration server",
		Long:         `staffadmin serves the employee, user and role administration API. Without a subcommand it runs serve.`,
		RunE:         serve.RunE,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serve, newSeedCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
