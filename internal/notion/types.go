// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notion

import (
	"encoding/json"
	"time"
)

// Page is a database entry as returned by the query endpoint.
type Page struct {
	ID          string                   `json:"id"`
	URL         string                   `json:"url"`
	CreatedTime time.Time                `json:"created_time"`
	Properties  map[string]propertyValue `json:"properties"`
}

// Title returns the plain text of the page's title property, or
// "Untitled" when the page has none.
func (p Page) Title() string {
	for _, prop := range p.Properties {
		if prop.Type != "title" {
			continue
		}
		if s := plainText(prop.Title); s != "" {
			return s
		}
	}
	return "Untitled"
}

type propertyValue struct {
	Type  string     `json:"type"`
	Title []RichText `json:"title,omitempty"`
}

// RichText is one span of a block's or property's rich text array.
type RichText struct {
	Type      string       `json:"type"`
	PlainText string       `json:"plain_text,omitempty"`
	Text      *textContent `json:"text,omitempty"`
}

type textContent struct {
	Content string    `json:"content"`
	Link    *textLink `json:"link,omitempty"`
}

type textLink struct {
	URL string `json:"url"`
}

func plainText(spans []RichText) string {
	var out string
	for _, rt := range spans {
		if rt.PlainText != "" {
			out += rt.PlainText
		} else if rt.Text != nil {
			out += rt.Text.Content
		}
	}
	return out
}

// Block is one unit of a page's body. The API returns a polymorphic
// object whose payload lives under a key named after the block type;
// this system only cares whether that payload carries rich text, and
// what the concatenated plain text is.
type Block struct {
	ID   string
	Type string

	// Text is the concatenated plain text of the block's rich_text.
	// Meaningful only when HasText is true.
	Text string

	// HasText reports whether the block's variant carries a rich_text
	// array at all. Dividers, images and the like do not.
	HasText bool
}

// UnmarshalJSON flattens the type-keyed payload into Text/HasText.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var head struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	b.ID = head.ID
	b.Type = head.Type

	payload, ok := raw[head.Type]
	if !ok {
		return nil
	}
	var body struct {
		RichText []RichText `json:"rich_text"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		// Payloads without rich_text (e.g. child databases) decode
		// into unrelated shapes; treat them as non-text blocks.
		return nil
	}
	if body.RichText == nil {
		return nil
	}
	b.HasText = true
	b.Text = plainText(body.RichText)
	return nil
}

// PageSpec describes a page to be created in a database.
type PageSpec struct {
	DatabaseID string

	// TitleProp names the database's title property; TitleText is its value.
	TitleProp string
	TitleText string

	// TypeProp/TypeValue set a select property; skipped when TypeProp is empty.
	TypeProp  string
	TypeValue string

	// TagsProp/Tags set a multi-select property; skipped when TagsProp is empty.
	TagsProp string
	Tags     []string

	// Body paragraphs appended as the new page's content.
	Body []string

	// SourceURL, when non-empty, appends a "Source:" back-link paragraph.
	SourceURL string
}
