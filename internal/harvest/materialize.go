// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest materializes scanned candidates: each one becomes a
// new database page, and on success the source line's open marker is
// rewritten to the closed token so the line is never processed twice.
package harvest

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/internal/scan"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

// titleMaxLen is the API's limit on a single rich text span.
const titleMaxLen = 2000

// PageWriter is the slice of the Notion client the materializer needs.
type PageWriter interface {
	CreatePage(ctx context.Context, spec notion.PageSpec) (notion.Page, error)
	UpdateBlockText(ctx context.Context, blockID, blockType, text string) error
}

// Ledger is an optional persisted set of processed block IDs. It closes
// the duplicate window left by a partial failure: a block is recorded as
// soon as its page is created, even if the marker flip then fails.
type Ledger interface {
	Seen(blockID string) (bool, error)
	Record(blockID, createdPageID string) error
}

// Materializer converts candidates into pages, one at a time.
type Materializer struct {
	client PageWriter
	cfg    types.HarvestConfig
	ledger Ledger // nil when disabled
}

// NewMaterializer builds a Materializer. ledger may be nil.
func NewMaterializer(client PageWriter, cfg types.HarvestConfig, ledger Ledger) *Materializer {
	return &Materializer{client: client, cfg: cfg, ledger: ledger}
}

// Process runs the create-then-flip sequence for each candidate in
// order, printing per-item status to w. A failure never aborts the loop;
// every candidate gets exactly one outcome.
func (m *Materializer) Process(ctx context.Context, candidates []scan.Candidate, w io.Writer) []types.CandidateOutcome {
	outcomes := make([]types.CandidateOutcome, 0, len(candidates))
	for _, c := range candidates {
		outcomes = append(outcomes, m.materialize(ctx, c, w))
	}
	return outcomes
}

func (m *Materializer) materialize(ctx context.Context, c scan.Candidate, w io.Writer) types.CandidateOutcome {
	out := types.CandidateOutcome{
		PageID:  c.PageID,
		BlockID: c.BlockID,
		Title:   title(c.Remainder),
	}

	if m.ledger != nil {
		seen, err := m.ledger.Seen(c.BlockID)
		if err != nil {
			fmt.Fprintf(w, "  warning: ledger lookup for %s failed: %v\n", c.BlockID, err)
		} else if seen {
			fmt.Fprintf(w, "  skipped: %q (already in ledger)\n", out.Title)
			out.Outcome = types.OutcomeSkipped
			return out
		}
	}

	fmt.Fprintf(w, "  found: %q\n", out.Title)

	page, err := m.client.CreatePage(ctx, m.spec(c, out.Title))
	if err != nil {
		// Nothing was created; the source line is untouched and the
		// candidate is safe to retry on the next run.
		fmt.Fprintf(w, "    -> create failed: %v\n", err)
		out.Outcome = types.OutcomeFailed
		out.Error = err.Error()
		return out
	}
	out.CreatedPageID = page.ID

	if m.ledger != nil {
		if err := m.ledger.Record(c.BlockID, page.ID); err != nil {
			fmt.Fprintf(w, "  warning: ledger record for %s failed: %v\n", c.BlockID, err)
		}
	}

	if err := m.client.UpdateBlockText(ctx, c.BlockID, c.BlockType, c.Flipped(m.cfg.Markers.Closed)); err != nil {
		// The page exists but the source marker is still open: without
		// the ledger, the next run will materialize a duplicate. Report
		// loudly instead of retrying the flip forever.
		fmt.Fprintf(w, "    -> created %s but marker flip FAILED: %v\n", page.ID, err)
		out.Outcome = types.OutcomePartial
		out.Error = err.Error()
		return out
	}

	fmt.Fprintf(w, "    -> created %s\n", page.ID)
	out.Outcome = types.OutcomeCreated
	return out
}

// spec builds the derived page: fixed type and tag values from the
// configuration, the remainder as title and body, and a back-link to
// the source page for traceability.
func (m *Materializer) spec(c scan.Candidate, titleText string) notion.PageSpec {
	p := m.cfg.Properties
	return notion.PageSpec{
		DatabaseID: m.cfg.Notion.DatabaseID,
		TitleProp:  p.Title,
		TitleText:  titleText,
		TypeProp:   p.Type,
		TypeValue:  p.TypeValue,
		TagsProp:   p.Tags,
		Tags:       []string{p.TagValue},
		Body:       []string{c.Remainder},
		SourceURL:  c.PageURL,
	}
}

func title(s string) string {
	runes := []rune(s)
	if len(runes) <= titleMaxLen {
		return s
	}
	return string(runes[:titleMaxLen])
}
