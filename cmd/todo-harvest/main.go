// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the todo-harvest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/todo-harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the secret
// value for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the todo-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "todo-harvest",
	Short: "Turn TODO lines in Notion pages into To-Do entries",
	Long: `todo-harvest scans a Notion database for pages created on a given day,
extracts lines that start with an open marker (TODO by default) from each
page's body, creates a new database entry per line, and rewrites the source
line's marker to DONE so it is never processed twice.

The run subcommand performs the full pipeline; scan is a read-only dry run
that lists what would be materialized.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./todo-harvest.yaml or ~/.config/todo-harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("todo-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "todo-harvest"))
		}
	}

	viper.SetEnvPrefix("TODO_HARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
