// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/todo-harvest/internal/notion"
	"github.com/pdiddy/todo-harvest/internal/scan"
	"github.com/pdiddy/todo-harvest/pkg/types"
)

func testConfig() types.HarvestConfig {
	return types.HarvestConfig{
		Notion: types.NotionConfig{DatabaseID: "db-1"},
		Markers: types.MarkerConfig{Open: "TODO", Closed: "DONE"},
		Properties: types.PropertyConfig{
			Title:     "Name",
			Type:      "Type",
			Tags:      "Tags",
			TypeValue: "To-Do",
			TagValue:  "Auto Generated",
		},
	}
}

// candidateFor builds the candidate the scanner would emit for text.
func candidateFor(blockID, text string) scan.Candidate {
	start := strings.Index(text, "TODO")
	remainder := strings.TrimLeft(text[start+len("TODO"):], " \t")
	return scan.Candidate{
		PageID:      "page-1",
		PageURL:     "https://www.notion.so/page-1",
		BlockID:     blockID,
		BlockType:   "paragraph",
		Text:        text,
		MarkerStart: start,
		MarkerEnd:   start + len("TODO"),
		Remainder:   remainder,
	}
}

// fakeWriter records create/update calls and fails on demand.
type fakeWriter struct {
	created      []notion.PageSpec
	updates      map[string]string // block id → new text
	createErrFor map[string]error  // keyed by title text
	updateErrFor map[string]error  // keyed by block id
	nextID       int
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		updates:      map[string]string{},
		createErrFor: map[string]error{},
		updateErrFor: map[string]error{},
	}
}

func (f *fakeWriter) CreatePage(ctx context.Context, spec notion.PageSpec) (notion.Page, error) {
	if err := f.createErrFor[spec.TitleText]; err != nil {
		return notion.Page{}, err
	}
	f.created = append(f.created, spec)
	f.nextID++
	return notion.Page{ID: fmt.Sprintf("new-%d", f.nextID)}, nil
}

func (f *fakeWriter) UpdateBlockText(ctx context.Context, blockID, blockType, text string) error {
	if err := f.updateErrFor[blockID]; err != nil {
		return err
	}
	f.updates[blockID] = text
	return nil
}

// fakeLedger is an in-memory Ledger.
type fakeLedger struct {
	seen map[string]string
}

func (f *fakeLedger) Seen(blockID string) (bool, error) {
	_, ok := f.seen[blockID]
	return ok, nil
}

func (f *fakeLedger) Record(blockID, createdPageID string) error {
	f.seen[blockID] = createdPageID
	return nil
}

func TestMaterializeCreated(t *testing.T) {
	writer := newFakeWriter()
	mat := NewMaterializer(writer, testConfig(), nil)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO buy milk"),
	}, io.Discard)

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomeCreated, outcomes[0].Outcome)
	assert.Equal(t, "buy milk", outcomes[0].Title)
	assert.Equal(t, "new-1", outcomes[0].CreatedPageID)

	require.Len(t, writer.created, 1)
	spec := writer.created[0]
	assert.Equal(t, "db-1", spec.DatabaseID)
	assert.Equal(t, "Name", spec.TitleProp)
	assert.Equal(t, "buy milk", spec.TitleText)
	assert.Equal(t, "To-Do", spec.TypeValue)
	assert.Equal(t, []string{"Auto Generated"}, spec.Tags)
	assert.Equal(t, "https://www.notion.so/page-1", spec.SourceURL)

	assert.Equal(t, "DONE buy milk", writer.updates["b1"], "marker must be flipped in place")
}

func TestMaterializePartialFailure(t *testing.T) {
	writer := newFakeWriter()
	writer.updateErrFor["b1"] = fmt.Errorf("block is archived")
	mat := NewMaterializer(writer, testConfig(), nil)

	var out strings.Builder
	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO buy milk"),
	}, &out)

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomePartial, outcomes[0].Outcome)
	// The page exists and its id is reported for manual reconciliation.
	assert.Equal(t, "new-1", outcomes[0].CreatedPageID)
	assert.Contains(t, outcomes[0].Error, "block is archived")

	require.Len(t, writer.created, 1)
	assert.Equal(t, "buy milk", writer.created[0].TitleText)
	assert.Empty(t, writer.updates, "source block must remain unchanged")
	assert.Contains(t, out.String(), "FAILED")
}

func TestMaterializeFullFailure(t *testing.T) {
	writer := newFakeWriter()
	writer.createErrFor["buy milk"] = fmt.Errorf("validation_error")
	mat := NewMaterializer(writer, testConfig(), nil)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO buy milk"),
	}, io.Discard)

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomeFailed, outcomes[0].Outcome)
	assert.Empty(t, outcomes[0].CreatedPageID)

	assert.Empty(t, writer.created, "nothing must be created")
	assert.Empty(t, writer.updates, "source block must remain untouched")
}

func TestMaterializeContinuesAcrossFailures(t *testing.T) {
	writer := newFakeWriter()
	writer.createErrFor["second"] = fmt.Errorf("boom")
	mat := NewMaterializer(writer, testConfig(), nil)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO first"),
		candidateFor("b2", "TODO second"),
		candidateFor("b3", "TODO third"),
	}, io.Discard)

	require.Len(t, outcomes, 3)
	assert.Equal(t, types.OutcomeCreated, outcomes[0].Outcome)
	assert.Equal(t, types.OutcomeFailed, outcomes[1].Outcome)
	assert.Equal(t, types.OutcomeCreated, outcomes[2].Outcome, "one failure must not abort the rest")
	assert.Len(t, writer.created, 2)
}

func TestMaterializeLedgerSkips(t *testing.T) {
	writer := newFakeWriter()
	led := &fakeLedger{seen: map[string]string{"b1": "existing-page"}}
	mat := NewMaterializer(writer, testConfig(), led)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO already done once"),
		candidateFor("b2", "TODO fresh"),
	}, io.Discard)

	require.Len(t, outcomes, 2)
	assert.Equal(t, types.OutcomeSkipped, outcomes[0].Outcome)
	assert.Equal(t, types.OutcomeCreated, outcomes[1].Outcome)
	assert.Len(t, writer.created, 1, "a ledgered block must not be re-created")
}

func TestMaterializeLedgerRecordsBeforeFlip(t *testing.T) {
	writer := newFakeWriter()
	writer.updateErrFor["b1"] = fmt.Errorf("flip failed")
	led := &fakeLedger{seen: map[string]string{}}
	mat := NewMaterializer(writer, testConfig(), led)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO buy milk"),
	}, io.Discard)

	require.Len(t, outcomes, 1)
	assert.Equal(t, types.OutcomePartial, outcomes[0].Outcome)
	// The ledger closes the partial-failure duplicate window: the block
	// is recorded even though its marker is still open.
	assert.Equal(t, "new-1", led.seen["b1"])
}

func TestTitleTruncation(t *testing.T) {
	long := strings.Repeat("x", titleMaxLen+50)
	writer := newFakeWriter()
	mat := NewMaterializer(writer, testConfig(), nil)

	outcomes := mat.Process(context.Background(), []scan.Candidate{
		candidateFor("b1", "TODO "+long),
	}, io.Discard)

	require.Len(t, outcomes, 1)
	assert.Len(t, outcomes[0].Title, titleMaxLen)
	require.Len(t, writer.created, 1)
	assert.Len(t, writer.created[0].TitleText, titleMaxLen)
}
