// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan finds actionable lines in a page's blocks. A line is
// actionable when, after leading whitespace, it starts with the open
// marker token at a word boundary and carries a non-empty remainder.
package scan

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

// Candidate is one detected actionable line, carrying enough identity
// to create the derived page and rewrite the source block afterwards.
type Candidate struct {
	PageID    string
	PageTitle string
	PageURL   string
	BlockID   string
	BlockType string

	// Text is the block's full original text.
	Text string

	// MarkerStart/MarkerEnd delimit the matched open-marker token
	// within Text, so a flip touches nothing else.
	MarkerStart int
	MarkerEnd   int

	// Remainder is Text after the marker with exactly one separator
	// removed; it becomes the derived page's title. Never empty.
	Remainder string
}

// Flipped returns the block text with the marker span replaced by the
// closed token. Leading whitespace and the remainder stay byte-for-byte.
func (c Candidate) Flipped(closed string) string {
	return c.Text[:c.MarkerStart] + closed + c.Text[c.MarkerEnd:]
}

// BlockLister is the slice of the Notion client the scanner needs.
type BlockLister interface {
	BlockChildren(ctx context.Context, blockID string) ([]notion.Block, error)
}

// Scanner extracts candidates from pages.
type Scanner struct {
	client  BlockLister
	markers types.MarkerConfig
	open    *regexp.Regexp
}

// NewScanner compiles the open-marker pattern. The token is matched
// case-insensitively at the start of the trimmed line and must end at a
// word boundary, so "TODO buy milk" matches and "TODOS" or "MYTODO x"
// do not. The open and closed tokens must differ case-insensitively or
// a flipped line would be re-extracted forever.
func NewScanner(client BlockLister, markers types.MarkerConfig) (*Scanner, error) {
	if markers.Open == "" || markers.Closed == "" {
		return nil, fmt.Errorf("both marker tokens must be set")
	}
	if strings.EqualFold(markers.Open, markers.Closed) {
		return nil, fmt.Errorf("open marker %q and closed marker %q must differ", markers.Open, markers.Closed)
	}

	pattern, err := regexp.Compile(`(?i)^[\s]*(` + regexp.QuoteMeta(markers.Open) + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compiling marker pattern: %w", err)
	}
	return &Scanner{client: client, markers: markers, open: pattern}, nil
}

// Scan fetches the page's blocks and returns its candidates in block
// order. Blocks without text, without the marker, or with an empty
// remainder are skipped and never mutated.
func (s *Scanner) Scan(ctx context.Context, page notion.Page) ([]Candidate, error) {
	blocks, err := s.client.BlockChildren(ctx, page.ID)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, block := range blocks {
		c, ok := s.match(block)
		if !ok {
			continue
		}
		c.PageID = page.ID
		c.PageTitle = page.Title()
		c.PageURL = page.URL
		candidates = append(candidates, c)
	}
	return candidates, nil
}

// match tests one block against the open-marker convention.
func (s *Scanner) match(block notion.Block) (Candidate, bool) {
	if !block.HasText {
		return Candidate{}, false
	}

	m := s.open.FindStringSubmatchIndex(block.Text)
	if m == nil {
		return Candidate{}, false
	}
	// m[2]:m[3] is the token group; m[0] is always 0.
	start, end := m[2], m[3]

	remainder := stripSeparator(block.Text[end:])
	if remainder == "" {
		// A bare marker has nothing to store as a title.
		return Candidate{}, false
	}

	return Candidate{
		BlockID:     block.ID,
		BlockType:   block.Type,
		Text:        block.Text,
		MarkerStart: start,
		MarkerEnd:   end,
		Remainder:   remainder,
	}, true
}

// stripSeparator removes exactly one separator after the marker token: a
// colon followed by optional spaces, or a run of whitespace. The rest of
// the line is preserved as written.
func stripSeparator(s string) string {
	if strings.HasPrefix(s, ":") {
		return strings.TrimLeft(s[1:], " \t")
	}
	return strings.TrimLeft(s, " \t")
}
