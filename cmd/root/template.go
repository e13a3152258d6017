package root

import (
	"context"
	"fmt"
	"os"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// editTemplate writes tmpl's rendered text-doc form to a temp file, opens
// $EDITOR on it, and parses the result back. A parse failure re-opens the
// editor with the offending error prepended as a comment-free inline
// message, rather than discarding the edit.
func editTemplate(ctx context.Context, app *App, tmpl *bookmark.Template) (*bookmark.Template, error) {
	doc := tmpl.Render()

	for {
		tmp, err := os.CreateTemp("", "bkmr-edit-*.txt")
		if err != nil {
			return nil, err
		}
		path := tmp.Name()
		if _, err := tmp.WriteString(doc); err != nil {
			tmp.Close()
			os.Remove(path)
			return nil, err
		}
		tmp.Close()

		editErr := app.svc.Deps.EditFile(ctx, path)
		if editErr != nil {
			os.Remove(path)
			return nil, editErr
		}

		edited, err := app.svc.Deps.ReadFile(path)
		os.Remove(path)
		if err != nil {
			return nil, err
		}

		parsed, parseErr := bookmark.ParseTemplate(edited)
		if parseErr == nil {
			return parsed, nil
		}

		fmt.Fprintf(os.Stderr, "template error: %v\nre-opening editor...\n", parseErr)
		doc = "=== ERROR: " + parseErr.Error() + " ===\n" + edited
	}
}

// templateToBookmark merges an edited Template back onto existing (which
// supplies fields the template doesn't carry: access count, timestamps,
// embedding state left for the service layer to recompute).
func templateToBookmark(t *bookmark.Template, existing *bookmark.Bookmark) *bookmark.Bookmark {
	b := &bookmark.Bookmark{
		URL:         t.URL,
		Title:       t.Title,
		Description: t.Comments,
		Tags:        t.Tags,
		Embeddable:  t.Embeddable,
	}
	if existing != nil {
		b.ID = existing.ID
		b.AccessCount = existing.AccessCount
		b.CreatedAt = existing.CreatedAt
		b.UpdatedAt = existing.UpdatedAt
		b.Provenance = existing.Provenance
	}
	if t.ID != nil {
		b.ID = *t.ID
	}
	return b
}
