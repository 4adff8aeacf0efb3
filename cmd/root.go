package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:           "go-inject",
	Short:         "Dependency registry demo service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files loaded before the environment (default .env)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
