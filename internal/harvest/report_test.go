// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/todo-harvest/pkg/types"
)

func sampleReport() types.RunReport {
	return types.RunReport{
		Date:    "08.03.2024",
		Entries: 3,
		Outcomes: []types.CandidateOutcome{
			{PageID: "p1", BlockID: "b1", Title: "buy milk", Outcome: types.OutcomeCreated, CreatedPageID: "new-1"},
			{PageID: "p1", BlockID: "b2", Title: "call dentist", Outcome: types.OutcomePartial, CreatedPageID: "new-2", Error: "block gone"},
			{PageID: "p2", BlockID: "b3", Title: "ship release", Outcome: types.OutcomeFailed, Error: "validation_error"},
			{PageID: "p2", BlockID: "b4", Title: "water plants", Outcome: types.OutcomeSkipped},
		},
	}
}

func TestReportCounts(t *testing.T) {
	r := sampleReport()
	assert.Equal(t, 1, r.Created())
	assert.Equal(t, 1, r.Partial())
	assert.Equal(t, 1, r.Failed())
	assert.Equal(t, 1, r.Skipped())
	assert.True(t, r.HasFailures())

	assert.False(t, types.RunReport{}.HasFailures())
}

func TestFormatSummary(t *testing.T) {
	var out strings.Builder
	FormatSummary(sampleReport(), &out)
	s := out.String()

	// Failures carry the identifiers a human needs to reconcile.
	assert.Contains(t, s, "PARTIAL")
	assert.Contains(t, s, "new-2")
	assert.Contains(t, s, "b2")
	assert.Contains(t, s, "block gone")
	assert.Contains(t, s, "FAILED")
	assert.Contains(t, s, "validation_error")

	assert.Contains(t, s, "3 entries scanned, 1 created, 1 partial-failure, 1 full-failure, 1 skipped")
	assert.NotContains(t, s, "buy milk\" (page p1, block b1)", "created outcomes are not listed as failures")
}

func TestWriteReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	require.NoError(t, WriteReport(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.RunReport
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, sampleReport(), got)
}
