// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Outcome classifies what happened to a single candidate line.
type Outcome string

const (
	// OutcomeCreated means the page was created and the source marker flipped.
	OutcomeCreated Outcome = "created"

	// OutcomePartial means the page was created but the marker flip
	// failed: a duplicate will be materialized on the next run unless
	// the ledger is enabled or the line is fixed by hand.
	OutcomePartial Outcome = "partial-failure"

	// OutcomeFailed means page creation failed; the source line is
	// untouched and safe to retry.
	OutcomeFailed Outcome = "full-failure"

	// OutcomeSkipped means the ledger already recorded this block.
	OutcomeSkipped Outcome = "skipped"
)

// CandidateOutcome records the result of materializing one candidate.
type CandidateOutcome struct {
	PageID        string  `json:"page_id" yaml:"page_id"`
	BlockID       string  `json:"block_id" yaml:"block_id"`
	Title         string  `json:"title" yaml:"title"`
	Outcome       Outcome `json:"outcome" yaml:"outcome"`
	CreatedPageID string  `json:"created_page_id,omitempty" yaml:"created_page_id,omitempty"`
	Error         string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunReport is the final product of a harvest run: one outcome per
// candidate plus the scan statistics.
type RunReport struct {
	// Date is the harvested day in dd.mm.yyyy form.
	Date string `json:"date" yaml:"date"`

	// Entries is the number of database pages the locator returned.
	Entries int `json:"entries" yaml:"entries"`

	Outcomes []CandidateOutcome `json:"outcomes" yaml:"outcomes"`
}

// Created counts candidates fully materialized.
func (r RunReport) Created() int { return r.count(OutcomeCreated) }

// Partial counts create-succeeded, flip-failed candidates.
func (r RunReport) Partial() int { return r.count(OutcomePartial) }

// Failed counts candidates whose page creation failed.
func (r RunReport) Failed() int { return r.count(OutcomeFailed) }

// Skipped counts candidates skipped via the ledger.
func (r RunReport) Skipped() int { return r.count(OutcomeSkipped) }

// HasFailures reports whether any candidate ended in partial or full failure.
func (r RunReport) HasFailures() bool { return r.Partial()+r.Failed() > 0 }

func (r RunReport) count(o Outcome) int {
	n := 0
	for _, c := range r.Outcomes {
		if c.Outcome == o {
			n++
		}
	}
	return n
}
