package lsp

import (
	"context"
	"sort"
	"strings"

	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/query"
)

// CompletionItem mirrors the LSP CompletionItem shape.
type CompletionItem struct {
	Label            string `json:"label"`
	Kind             int    `json:"kind"`
	Detail           string `json:"detail"`
	Documentation    string `json:"documentation"`
	FilterText       string `json:"filterText"`
	SortText         string `json:"sortText"`
	InsertTextFormat int    `json:"insertTextFormat"`
	InsertText       string `json:"insertText,omitempty"`
	TextEdit         *TextEdit `json:"textEdit,omitempty"`
}

// TextEdit overwrites Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// CompletionList is the LSP response shape; IsIncomplete is always true,
// signaling the client to re-query.
type CompletionList struct {
	IsIncomplete bool              `json:"isIncomplete"`
	Items        []CompletionItem  `json:"items"`
}

const (
	KindText    = 1
	KindSnippet = 15

	FormatPlainText = 1
	FormatSnippet   = 2

	defaultCompletionLimit = 50
	documentationMaxChars  = 500
)

// CompletionRequest bundles the inputs the completion pipeline needs.
type CompletionRequest struct {
	LanguageID  string
	Line        string
	Character   int
	LineNumber  int
	DocumentURI string
	Interpolate bool // default true
}

// Service is the subset of BookmarkService the completion pipeline
// depends on, narrowed so the pipeline can be tested without a database.
type Service interface {
	Search(ctx context.Context, q *query.BookmarkQuery) ([]*bookmark.Bookmark, error)
}

// Complete implements the completion pipeline: retrieval of _snip_
// bookmarks matching the document's filetype, interpolation, translation
// (skipped for plain snippets), and CompletionItem construction. The word
// under the cursor (ExtractWord) only sets each item's replacement range;
// it does not narrow retrieval. render is the templateengine's Render
// closure; it may be nil to skip interpolation.
func Complete(ctx context.Context, svc Service, req CompletionRequest,
	render func(ctx context.Context, content string) (string, error)) CompletionList {

	q := &query.BookmarkQuery{
		Spec: func(b *bookmark.Bookmark) bool {
			if !b.Tags.IsSnippet() {
				return false
			}
			if req.LanguageID == "" {
				return true
			}
			return b.Tags.Has(bookmark.Tag(req.LanguageID)) || b.Tags.IsUniversal() || b.Tags.IsPlain()
		},
		Limit: defaultCompletionLimit,
	}

	candidates, err := svc.Search(ctx, q)
	if err != nil {
		return CompletionList{IsIncomplete: true, Items: nil}
	}

	filename := filenameFromURI(req.DocumentURI)
	items := make([]CompletionItem, 0, len(candidates))
	for _, b := range candidates {
		content := b.URL

		if req.Interpolate && render != nil {
			rendered, rerr := render(ctx, content)
			if rerr == nil {
				content = rendered
			}
		}

		if b.Tags.IsUniversal() && !b.Tags.IsPlain() {
			content = Translate(content, req.LanguageID, filename)
		}

		items = append(items, buildItem(b, content, req))
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })

	return CompletionList{IsIncomplete: true, Items: items}
}

func buildItem(b *bookmark.Bookmark, content string, req CompletionRequest) CompletionItem {
	doc := content
	if len(doc) > documentationMaxChars {
		doc = doc[:documentationMaxChars]
	}

	item := CompletionItem{
		Label:         b.Title,
		Documentation: doc,
		FilterText:    b.Title,
		SortText:      b.Title,
	}

	if b.Tags.IsPlain() {
		item.Kind = KindText
		item.Detail = "bkmr plain text"
		item.InsertTextFormat = FormatPlainText
	} else {
		item.Kind = KindSnippet
		item.Detail = "bkmr snippet"
		item.InsertTextFormat = FormatSnippet
	}

	_, rng := ExtractWord(req.Line, req.Character)
	rng.Start.Line, rng.End.Line = req.LineNumber, req.LineNumber
	item.TextEdit = &TextEdit{Range: rng, NewText: content}

	return item
}

func filenameFromURI(uri string) string {
	if idx := strings.LastIndexAny(uri, "/\\"); idx >= 0 {
		return uri[idx+1:]
	}
	return uri
}
