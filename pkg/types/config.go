// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and report structures shared between
// the CLI surface and the internal harvest stages.
package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "todo-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// NotionConfig holds settings for the Notion API client.
type NotionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the integration bearer token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// DatabaseID identifies the database that is both scanned and
	// written to.
	DatabaseID string `json:"database_id" yaml:"database_id"`

	// PageSize is the page_size sent with paginated requests
	// (default 100, the API maximum).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries bounds the backoff loop for rate-limited or
	// server-side transient responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MarkerConfig names the tokens that mark a line as actionable (open)
// or already converted (closed).
type MarkerConfig struct {
	// Open is the token that marks a line for extraction (default "TODO").
	Open string `json:"open" yaml:"open"`

	// Closed is the token the open marker is rewritten to after a
	// successful extraction (default "DONE").
	Closed string `json:"closed" yaml:"closed"`
}

// PropertyConfig names the database properties written on created pages.
// These must match the property names of the target database.
type PropertyConfig struct {
	// Title is the name of the database's title property (default "Name").
	Title string `json:"title" yaml:"title"`

	// Type is the name of a select property for the item type (default "Type").
	Type string `json:"type" yaml:"type"`

	// Tags is the name of a multi-select property (default "Tags").
	Tags string `json:"tags" yaml:"tags"`

	// TypeValue is the select value stamped on created pages (default "To-Do").
	TypeValue string `json:"type_value" yaml:"type_value"`

	// TagValue is the multi-select value stamped on created pages
	// (default "Auto Generated").
	TagValue string `json:"tag_value" yaml:"tag_value"`
}

// HarvestConfig groups everything a harvest run needs.
type HarvestConfig struct {
	Notion     NotionConfig   `json:"notion" yaml:"notion"`
	Markers    MarkerConfig   `json:"markers" yaml:"markers"`
	Properties PropertyConfig `json:"properties" yaml:"properties"`

	// LedgerPath, when non-empty, enables the SQLite processed-block
	// ledger at that path.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}
