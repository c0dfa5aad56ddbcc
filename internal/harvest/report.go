// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/todo-harvest/pkg/types"
)

// FormatSummary writes the human-readable run summary to w: one line per
// non-created outcome (with the identifiers needed to reconcile by hand)
// followed by the counts.
func FormatSummary(report types.RunReport, w io.Writer) {
	for _, c := range report.Outcomes {
		switch c.Outcome {
		case types.OutcomePartial:
			fmt.Fprintf(w, "PARTIAL  %s (page %s, block %s): created %s but source marker not flipped: %s\n",
				c.Title, c.PageID, c.BlockID, c.CreatedPageID, c.Error)
		case types.OutcomeFailed:
			fmt.Fprintf(w, "FAILED   %s (page %s, block %s): %s\n",
				c.Title, c.PageID, c.BlockID, c.Error)
		}
	}

	fmt.Fprintf(w, "\nRun summary for %s: %d entries scanned, %d created, %d partial-failure, %d full-failure",
		report.Date, report.Entries, report.Created(), report.Partial(), report.Failed())
	if report.Skipped() > 0 {
		fmt.Fprintf(w, ", %d skipped", report.Skipped())
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the full report as indented JSON to w.
func FormatJSON(report types.RunReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteReport persists the report as YAML at path, creating parent
// directories as needed.
func WriteReport(report types.RunReport, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
