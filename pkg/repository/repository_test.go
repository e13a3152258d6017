package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/query"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	repo, err := Open(t.Context(), filepath.Join(dir, "bkmr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAddAndGetByIDRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	b := &bookmark.Bookmark{
		URL:         "https://example.com",
		Title:       "Example",
		Description: "a site",
		Tags:        bookmark.NewTagSet("a,b"),
		UpdatedAt:   time.Now(),
	}

	require.NoError(t, repo.Add(t.Context(), b))
	assert.NotZero(t, b.ID)

	got, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.URL, got.URL)
	assert.Equal(t, b.Title, got.Title)
	assert.True(t, b.Tags.Equal(got.Tags))
	assert.Zero(t, got.AccessCount)
}

func TestAddDuplicateURLFails(t *testing.T) {
	repo := newTestRepo(t)
	b := &bookmark.Bookmark{URL: "https://dup.example", Title: "x", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	require.NoError(t, repo.Add(t.Context(), b))

	dup := &bookmark.Bookmark{URL: "https://dup.example", Title: "y", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	err := repo.Add(t.Context(), dup)
	assert.ErrorIs(t, err, bkmrerr.ErrBookmarkExists)
}

func TestRecordAccessMonotonic(t *testing.T) {
	repo := newTestRepo(t)
	b := &bookmark.Bookmark{URL: "https://access.example", Title: "x", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	require.NoError(t, repo.Add(t.Context(), b))

	require.NoError(t, repo.RecordAccess(t.Context(), b.ID))
	first, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.AccessCount)

	require.NoError(t, repo.RecordAccess(t.Context(), b.ID))
	second, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.AccessCount)
	assert.True(t, !second.UpdatedAt.Before(first.UpdatedAt))
}

func TestDeleteDoesNotCompactIDs(t *testing.T) {
	repo := newTestRepo(t)
	b1 := &bookmark.Bookmark{URL: "https://one.example", Title: "1", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	b2 := &bookmark.Bookmark{URL: "https://two.example", Title: "2", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	require.NoError(t, repo.Add(t.Context(), b1))
	require.NoError(t, repo.Add(t.Context(), b2))

	require.NoError(t, repo.Delete(t.Context(), b1.ID))

	b3 := &bookmark.Bookmark{URL: "https://three.example", Title: "3", Tags: bookmark.TagSet{}, UpdatedAt: time.Now()}
	require.NoError(t, repo.Add(t.Context(), b3))
	assert.Greater(t, b3.ID, b2.ID, "ids keep advancing after a delete rather than reusing the freed id")
}

func TestSearchFTSThenFilters(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Add(t.Context(), &bookmark.Bookmark{
		URL: "https://golang.example", Title: "Go Concurrency", Description: "goroutines",
		Tags: bookmark.NewTagSet("go,concurrency"), UpdatedAt: time.Now(),
	}))
	require.NoError(t, repo.Add(t.Context(), &bookmark.Bookmark{
		URL: "https://python.example", Title: "Python Concurrency", Description: "asyncio",
		Tags: bookmark.NewTagSet("python,concurrency"), UpdatedAt: time.Now(),
	}))

	results, err := repo.Search(t.Context(), &query.BookmarkQuery{
		Text:    "concurrency",
		TagsAll: bookmark.NewTagSet("go"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Go Concurrency", results[0].Title)
}

func TestGetAllTagsAndRelated(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Add(t.Context(), &bookmark.Bookmark{URL: "https://a.example", Title: "a", Tags: bookmark.NewTagSet("x,y"), UpdatedAt: time.Now()}))
	require.NoError(t, repo.Add(t.Context(), &bookmark.Bookmark{URL: "https://b.example", Title: "b", Tags: bookmark.NewTagSet("x,z"), UpdatedAt: time.Now()}))

	all, err := repo.GetAllTags(t.Context())
	require.NoError(t, err)
	byTag := map[string]int{}
	for _, tc := range all {
		byTag[tc.Tag] = tc.Count
	}
	assert.Equal(t, 2, byTag["x"])
	assert.Equal(t, 1, byTag["y"])

	related, err := repo.GetRelatedTags(t.Context(), "y")
	require.NoError(t, err)
	relByTag := map[string]int{}
	for _, tc := range related {
		relByTag[tc.Tag] = tc.Count
	}
	_, hasZ := relByTag["z"]
	assert.False(t, hasZ, "z never co-occurs with y")
	assert.Equal(t, 1, relByTag["x"])
}

func TestEmbeddingBlobRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	b := &bookmark.Bookmark{
		URL: "https://emb.example", Title: "t", Tags: bookmark.TagSet{}, UpdatedAt: time.Now(),
		Embeddable: true, Embedding: []float32{0.1, 0.2, 0.3},
	}
	b.ContentHash = ContentHashOf(b)
	require.NoError(t, repo.Add(t.Context(), b))

	got, err := repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	require.Len(t, got.Embedding, 3)
	assert.InDelta(t, 0.2, got.Embedding[1], 1e-6)
	assert.Equal(t, b.ContentHash, got.ContentHash)
}
