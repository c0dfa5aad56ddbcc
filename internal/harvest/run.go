// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/internal/scan"
	"github.com/pdiddy/todo-harvest/internal/window"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

// Run executes one harvest: locate pages created on date's calendar day,
// scan their blocks for open markers, and materialize every candidate.
// A locator failure aborts (nothing can proceed without entries); a
// per-page scan failure or per-candidate failure is reported and the run
// continues.
func Run(ctx context.Context, client *notion.Client, cfg types.HarvestConfig, date time.Time, ledger Ledger, w io.Writer) (types.RunReport, error) {
	report := types.RunReport{Date: date.Format(window.DateLayout)}

	scanner, err := scan.NewScanner(client, cfg.Markers)
	if err != nil {
		return report, err
	}
	mat := NewMaterializer(client, cfg, ledger)

	start, end := window.Day(date)
	pages, err := client.QueryCreatedBetween(ctx, cfg.Notion.DatabaseID, start, end)
	if err != nil {
		return report, err
	}
	report.Entries = len(pages)
	fmt.Fprintf(w, "Found %d page(s) created on %s\n", len(pages), report.Date)

	for _, page := range pages {
		fmt.Fprintf(w, "Scanning page: %q\n", page.Title())
		candidates, err := scanner.Scan(ctx, page)
		if err != nil {
			fmt.Fprintf(w, "  warning: could not fetch blocks: %v\n", err)
			continue
		}
		report.Outcomes = append(report.Outcomes, mat.Process(ctx, candidates, w)...)
	}

	return report, nil
}

// Collect is the read-only half of Run: it locates and scans but never
// mutates. Used by the dry-run command.
func Collect(ctx context.Context, client *notion.Client, cfg types.HarvestConfig, date time.Time, w io.Writer) (types.RunReport, []scan.Candidate, error) {
	report := types.RunReport{Date: date.Format(window.DateLayout)}

	scanner, err := scan.NewScanner(client, cfg.Markers)
	if err != nil {
		return report, nil, err
	}

	start, end := window.Day(date)
	pages, err := client.QueryCreatedBetween(ctx, cfg.Notion.DatabaseID, start, end)
	if err != nil {
		return report, nil, err
	}
	report.Entries = len(pages)

	var all []scan.Candidate
	for _, page := range pages {
		candidates, err := scanner.Scan(ctx, page)
		if err != nil {
			fmt.Fprintf(w, "warning: could not fetch blocks of %q: %v\n", page.Title(), err)
			continue
		}
		all = append(all, candidates...)
	}
	return report, all, nil
}
