// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/todo-harvest/internal/harvest"
	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/internal/window"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the TODO lines a run would materialize (dry run)",
	Long: `Scan performs the read-only half of a harvest: it locates pages created
on the target day and lists every line that matches the open marker, without
creating entries or touching the source blocks.`,
	RunE: runScan,
}

func init() {
	addSelectionFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	dateArg, _ := cmd.Flags().GetString("date")
	date, err := window.ParseDate(dateArg, time.Local)
	if err != nil {
		return err
	}

	client := notion.NewClient(cfg.Notion)
	report, candidates, err := harvest.Collect(context.Background(), client, cfg, date, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d page(s) created on %s\n", report.Entries, report.Date)
	for _, c := range candidates {
		fmt.Printf("%s  %s  %q\n", c.PageTitle, c.BlockID, c.Remainder)
	}
	fmt.Printf("\n%d candidate(s); nothing was modified.\n", len(candidates))
	return nil
}
