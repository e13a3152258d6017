package fileimport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/fsx"
)

var supportedExtensions = map[string]bool{".sh": true, ".py": true, ".md": true}

// Plan is the result of a dry-run: the (add, update, delete) sets without
// any mutation.
type Plan struct {
	ToAdd    []*bookmark.Bookmark
	ToUpdate []*bookmark.Bookmark
	ToDelete []*bookmark.Bookmark
	Skipped  []SkipReason
}

// SkipReason records why a candidate file was not imported, surfaced in
// --verbose mode instead of a single summary warning.
type SkipReason struct {
	Path   string
	Reason string
}

// Existing abstracts the repository lookups the importer needs, so it can
// be tested without a real database.
type Existing interface {
	GetByName(ctx context.Context, name string) (*bookmark.Bookmark, bool, error)
	GetImportedFromPaths(ctx context.Context, basePaths []string) ([]*bookmark.Bookmark, error)
}

// Options configures an import run.
type Options struct {
	Update        bool
	DeleteMissing bool
	DryRun        bool
	Verbose       bool
	BasePath      string
}

// DuplicateNameError reports a name collision when --update is not set.
type DuplicateNameError struct {
	Name       string
	ExistingID int64
	FilePath   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q (existing id %d) at %s", e.Name, e.ExistingID, e.FilePath)
}

// BuildPlan walks paths, parses frontmatter, and computes the
// (add, update, delete) plan against the current catalog, without
// mutating it.
func BuildPlan(ctx context.Context, existing Existing, paths []string, opts Options) (*Plan, error) {
	plan := &Plan{}
	seenPaths := map[string]bool{}

	for _, root := range paths {
		matcher, err := fsx.NewVCSMatcher(root)
		if err != nil {
			return nil, fmt.Errorf("resolving git-ignore rules for %s: %w", root, err)
		}

		shouldIgnore := func(path string) bool {
			if matcher == nil {
				return false
			}
			return matcher.ShouldIgnore(path)
		}

		files, err := fsx.CollectFiles([]string{root}, shouldIgnore)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}

		for _, path := range files {
			seenPaths[path] = true
			ext := filepath.Ext(path)
			if !supportedExtensions[ext] {
				continue
			}

			b, skip, err := fileToBookmark(path, ext)
			if err != nil {
				return nil, err
			}
			if skip != "" {
				plan.Skipped = append(plan.Skipped, SkipReason{Path: path, Reason: skip})
				continue
			}

			existingBookmark, found, err := existing.GetByName(ctx, b.Title)
			if err != nil {
				return nil, err
			}
			if !found {
				plan.ToAdd = append(plan.ToAdd, b)
				continue
			}
			if !opts.Update {
				return nil, &DuplicateNameError{Name: b.Title, ExistingID: existingBookmark.ID, FilePath: path}
			}
			if existingBookmark.Provenance != nil && existingBookmark.Provenance.Hash == b.Provenance.Hash {
				continue // unchanged, no write needed
			}
			b.ID = existingBookmark.ID
			plan.ToUpdate = append(plan.ToUpdate, b)
		}
	}

	if opts.DeleteMissing {
		imported, err := existing.GetImportedFromPaths(ctx, paths)
		if err != nil {
			return nil, err
		}
		for _, b := range imported {
			if b.Provenance == nil {
				continue
			}
			if _, err := os.Stat(b.Provenance.Path); errors.Is(err, os.ErrNotExist) {
				plan.ToDelete = append(plan.ToDelete, b)
			}
		}
	}

	return plan, nil
}

func fileToBookmark(path, ext string) (*bookmark.Bookmark, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}

	parsed, err := Parse(string(content))
	if err != nil {
		return nil, "", err
	}
	if !parsed.HasFrontmatter {
		return nil, "no frontmatter block found", nil
	}
	if parsed.Frontmatter.Name == "" {
		return nil, "missing required name field", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}

	tags := bookmark.NewTagSet(parsed.Frontmatter.Tags)
	tags.Add(ContentType(parsed.Frontmatter, ext))
	tags.Add(bookmark.SysImported)

	b := &bookmark.Bookmark{
		URL:         parsed.Body,
		Title:       parsed.Frontmatter.Name,
		Description: "",
		Tags:        tags,
		UpdatedAt:   time.Now(),
		Provenance: &bookmark.FileProvenance{
			Path:  path,
			MTime: info.ModTime().Unix(),
			Hash:  SHA256Hex(parsed.Body),
		},
	}
	return b, "", nil
}

// ApplyPlan commits a previously built Plan through the given mutators.
// It must not be called when opts.DryRun is set.
func ApplyPlan(ctx context.Context, plan *Plan, add func(context.Context, *bookmark.Bookmark) error,
	update func(context.Context, *bookmark.Bookmark) error, del func(context.Context, int64) error) error {
	for _, b := range plan.ToAdd {
		if err := add(ctx, b); err != nil {
			return bkmrerr.New(bkmrerr.KindRepository, "fileimport.add", err)
		}
	}
	for _, b := range plan.ToUpdate {
		if err := update(ctx, b); err != nil {
			return bkmrerr.New(bkmrerr.KindRepository, "fileimport.update", err)
		}
	}
	for _, b := range plan.ToDelete {
		if err := del(ctx, b.ID); err != nil {
			return bkmrerr.New(bkmrerr.KindRepository, "fileimport.delete", err)
		}
	}
	return nil
}
