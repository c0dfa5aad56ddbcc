// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/todo-harvest/internal/harvest"
	"github.com/pdiddy/todo-harvest/internal/ledger"
	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/internal/window"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "todo-harvest/0.1"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest TODO lines from pages created on a given day",
	Long: `Run locates database pages created on the target day, scans their blocks
for lines starting with the open marker, creates one To-Do entry per line,
and flips each source line's marker to the closed token.

The exit status is zero when the run completes, even if individual lines
failed (failures are listed in the summary); it is non-zero only when the
date cannot be parsed or the database query itself fails.`,
	RunE: runHarvest,
}

func init() {
	addSelectionFlags(runCmd)
	runCmd.Flags().String("done-marker", "", `closing marker token (default "DONE")`)
	runCmd.Flags().String("ledger", "", "path to a SQLite ledger of processed blocks (off by default)")
	runCmd.Flags().String("report", "", "write the full run report as YAML to this path")
	runCmd.Flags().Bool("json", false, "print the full report as JSON instead of a summary")

	rootCmd.AddCommand(runCmd)
}

// addSelectionFlags registers the flags shared by run and scan.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "target day in dd.mm.yyyy form (default: today)")
	cmd.Flags().String("database", "", "Notion database ID")
	cmd.Flags().String("marker", "", `open marker token (default "TODO")`)
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	cmd.Flags().Int("page-size", 0, "page size for paginated API requests (default 100)")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	dateArg, _ := cmd.Flags().GetString("date")
	date, err := window.ParseDate(dateArg, time.Local)
	if err != nil {
		return err
	}

	var led harvest.Ledger
	if ledgerPath, _ := cmd.Flags().GetString("ledger"); ledgerPath != "" {
		store, err := ledger.Open(ledgerPath)
		if err != nil {
			return err
		}
		defer store.Close()
		led = store
		cfg.LedgerPath = ledgerPath
	}

	cfg.Markers.Closed = firstNonEmpty(
		flagString(cmd, "done-marker"),
		viper.GetString("markers.closed"),
		"DONE",
	)

	client := notion.NewClient(cfg.Notion)
	report, err := harvest.Run(context.Background(), client, cfg, date, led, os.Stdout)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if err := harvest.FormatJSON(report, os.Stdout); err != nil {
			return err
		}
	} else {
		harvest.FormatSummary(report, os.Stdout)
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := harvest.WriteReport(report, reportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}
	return nil
}

// buildConfig assembles the harvest configuration: flags win, then the
// viper config file / environment, then .secrets/ files, then defaults.
func buildConfig(cmd *cobra.Command) (types.HarvestConfig, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("notion.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	pageSize, _ := cmd.Flags().GetInt("page-size")
	if pageSize == 0 {
		pageSize = viper.GetInt("notion.page_size")
	}

	token := secretDefault("notion-token", viper.GetString("token"))
	if token == "" {
		return types.HarvestConfig{}, fmt.Errorf("no Notion token: set TODO_HARVEST_TOKEN or .secrets/notion-token")
	}

	databaseID := firstNonEmpty(
		flagString(cmd, "database"),
		viper.GetString("notion.database_id"),
		secretDefault("notion-database-id", ""),
	)
	if databaseID == "" {
		return types.HarvestConfig{}, fmt.Errorf("no database ID: use --database, notion.database_id in the config file, or .secrets/notion-database-id")
	}

	cfg := types.HarvestConfig{
		Notion: types.NotionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Token:      token,
			DatabaseID: databaseID,
			PageSize:   pageSize,
			MaxRetries: viper.GetInt("notion.max_retries"),
		},
		Markers: types.MarkerConfig{
			Open: firstNonEmpty(
				flagString(cmd, "marker"),
				viper.GetString("markers.open"),
				"TODO",
			),
			Closed: "DONE",
		},
		Properties: types.PropertyConfig{
			Title:     firstNonEmpty(viper.GetString("properties.title"), "Name"),
			Type:      firstNonEmpty(viper.GetString("properties.type"), "Type"),
			Tags:      firstNonEmpty(viper.GetString("properties.tags"), "Tags"),
			TypeValue: firstNonEmpty(viper.GetString("properties.type_value"), "To-Do"),
			TagValue:  firstNonEmpty(viper.GetString("properties.tag_value"), "Auto Generated"),
		},
	}
	return cfg, nil
}

func flagString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
