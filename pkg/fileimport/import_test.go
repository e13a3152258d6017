package fileimport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysid/bkmr/pkg/bookmark"
)

type fakeExisting struct {
	byName    map[string]*bookmark.Bookmark
	imported  []*bookmark.Bookmark
}

func (f *fakeExisting) GetByName(_ context.Context, name string) (*bookmark.Bookmark, bool, error) {
	b, ok := f.byName[name]
	return b, ok, nil
}

func (f *fakeExisting) GetImportedFromPaths(_ context.Context, _ []string) ([]*bookmark.Bookmark, error) {
	return f.imported, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildPlanAddsNewFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy.sh", "#name: deploy\n#tags: ops,deploy\n#!/bin/sh\necho deploying\n")

	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{}}
	plan, err := BuildPlan(t.Context(), existing, []string{dir}, Options{})
	require.NoError(t, err)

	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, "deploy", plan.ToAdd[0].Title)
	assert.True(t, plan.ToAdd[0].Tags.IsShell())
	assert.True(t, plan.ToAdd[0].Tags.IsImported())
	assert.True(t, plan.ToAdd[0].Tags.Has(bookmark.Tag("ops")))
}

func TestBuildPlanSkipsFileWithoutFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.sh", "echo hello\n")

	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{}}
	plan, err := BuildPlan(t.Context(), existing, []string{dir}, Options{})
	require.NoError(t, err)

	assert.Empty(t, plan.ToAdd)
	require.Len(t, plan.Skipped, 1)
	assert.Contains(t, plan.Skipped[0].Reason, "frontmatter")
}

func TestBuildPlanDuplicateNameWithoutUpdateFails(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "deploy.sh", "#name: deploy\n#tags: ops\necho hi\n")

	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{
		"deploy": {ID: 42, Title: "deploy"},
	}}
	_, err := BuildPlan(t.Context(), existing, []string{dir}, Options{})
	require.Error(t, err)

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, int64(42), dup.ExistingID)
	assert.Equal(t, path, dup.FilePath)
}

func TestBuildPlanUpdateModeSkipsUnchangedHash(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy.sh", "#name: deploy\necho hi\n")

	unchangedHash := SHA256Hex("echo hi\n")
	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{
		"deploy": {ID: 42, Title: "deploy", Provenance: &bookmark.FileProvenance{Hash: unchangedHash}},
	}}
	plan, err := BuildPlan(t.Context(), existing, []string{dir}, Options{Update: true})
	require.NoError(t, err)

	assert.Empty(t, plan.ToAdd)
	assert.Empty(t, plan.ToUpdate)
}

func TestBuildPlanUpdateModeUpdatesChangedContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy.sh", "#name: deploy\necho changed\n")

	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{
		"deploy": {ID: 42, Title: "deploy", Provenance: &bookmark.FileProvenance{Hash: "stale-hash"}},
	}}
	plan, err := BuildPlan(t.Context(), existing, []string{dir}, Options{Update: true})
	require.NoError(t, err)

	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, int64(42), plan.ToUpdate[0].ID)
}

func TestBuildPlanDeleteMissingFindsRemovedFiles(t *testing.T) {
	dir := t.TempDir()
	goneBookmark := &bookmark.Bookmark{
		ID:         7,
		Provenance: &bookmark.FileProvenance{Path: filepath.Join(dir, "gone.sh")},
	}
	existing := &fakeExisting{byName: map[string]*bookmark.Bookmark{}, imported: []*bookmark.Bookmark{goneBookmark}}

	plan, err := BuildPlan(t.Context(), existing, []string{dir}, Options{DeleteMissing: true})
	require.NoError(t, err)

	require.Len(t, plan.ToDelete, 1)
	assert.Equal(t, int64(7), plan.ToDelete[0].ID)
}

func TestApplyPlanInvokesMutatorsInOrder(t *testing.T) {
	var added, updated, deleted []int64
	plan := &Plan{
		ToAdd:    []*bookmark.Bookmark{{ID: 1}},
		ToUpdate: []*bookmark.Bookmark{{ID: 2}},
		ToDelete: []*bookmark.Bookmark{{ID: 3}},
	}

	err := ApplyPlan(t.Context(), plan,
		func(_ context.Context, b *bookmark.Bookmark) error { added = append(added, b.ID); return nil },
		func(_ context.Context, b *bookmark.Bookmark) error { updated = append(updated, b.ID); return nil },
		func(_ context.Context, id int64) error { deleted = append(deleted, id); return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, added)
	assert.Equal(t, []int64{2}, updated)
	assert.Equal(t, []int64{3}, deleted)
}
