package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysid/bkmr/pkg/action"
	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/embedding"
	"github.com/sysid/bkmr/pkg/environment"
	"github.com/sysid/bkmr/pkg/repository"
	"github.com/sysid/bkmr/pkg/templateengine"
)

func newTestService(t *testing.T, embedder embedding.Embedder) *BookmarkService {
	t.Helper()
	repo, err := repository.Open(t.Context(), filepath.Join(t.TempDir(), "bkmr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	engine := templateengine.NewEngine(environment.NewOsEnvProvider(), nil)
	var stdout []string
	deps := &action.Deps{
		Render: func(ctx context.Context, text string) (string, error) { return engine.Render(ctx, text) },
		Stdout: func(s string) { stdout = append(stdout, s) },
	}
	return New(repo, embedder, engine, deps)
}

type fakeEmbedder struct{ vec []float32 }

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, bool) { return f.vec, true }
func (f fakeEmbedder) Kind() embedding.Kind                            { return embedding.KindRemote }

func TestAddRejectsEmptyURL(t *testing.T) {
	svc := newTestService(t, embedding.DummyEmbedder{})
	err := svc.Add(t.Context(), &bookmark.Bookmark{URL: ""})
	assert.Error(t, err)
}

func TestAddComputesEmbeddingWhenEmbeddable(t *testing.T) {
	svc := newTestService(t, fakeEmbedder{vec: []float32{1, 2, 3}})
	b := &bookmark.Bookmark{URL: "https://example.com", Title: "t", Tags: bookmark.NewTagSet("go"), Embeddable: true}

	require.NoError(t, svc.Add(t.Context(), b))
	assert.NotNil(t, b.Embedding)
	assert.NotNil(t, b.ContentHash)
}

func TestUpdateClearsEmbeddingWhenNotEmbeddable(t *testing.T) {
	svc := newTestService(t, fakeEmbedder{vec: []float32{1, 2, 3}})
	b := &bookmark.Bookmark{URL: "https://example.com", Title: "t", Tags: bookmark.TagSet{}, Embeddable: true}
	require.NoError(t, svc.Add(t.Context(), b))

	b.Embeddable = false
	require.NoError(t, svc.Update(t.Context(), b, false))
	assert.Nil(t, b.Embedding)
	assert.Nil(t, b.ContentHash)
}

func TestSemanticSearchRefusesDummyEmbedder(t *testing.T) {
	svc := newTestService(t, embedding.DummyEmbedder{})
	_, err := svc.SemanticSearch(t.Context(), "query", 10)
	assert.ErrorIs(t, err, bkmrerr.ErrDummyEmbedder)
}

func TestOpenRecordsAccess(t *testing.T) {
	svc := newTestService(t, embedding.DummyEmbedder{})
	b := &bookmark.Bookmark{URL: "https://example.com", Title: "t", Tags: bookmark.TagSet{}}
	require.NoError(t, svc.Add(t.Context(), b))

	svc.Deps.OpenPath = func(context.Context, string) error { return nil }
	require.NoError(t, svc.Open(t.Context(), b.ID, false, nil))

	got, err := svc.Repo.GetByID(t.Context(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AccessCount)
}

func TestBackfillRefusesDummyEmbedder(t *testing.T) {
	svc := newTestService(t, embedding.DummyEmbedder{})
	_, err := svc.Backfill(t.Context(), false)
	assert.ErrorIs(t, err, bkmrerr.ErrDummyEmbedder)
}

func TestBackfillForceRecomputesExistingEmbeddings(t *testing.T) {
	svc := newTestService(t, fakeEmbedder{vec: []float32{1, 2, 3}})

	withEmbedding := &bookmark.Bookmark{URL: "https://a.example", Title: "a", Tags: bookmark.TagSet{}, Embeddable: true}
	require.NoError(t, svc.Add(t.Context(), withEmbedding))
	require.NotNil(t, withEmbedding.Embedding)

	imported := &bookmark.Bookmark{URL: "https://b.example", Title: "b", Tags: bookmark.NewTagSet("_imported_"), Embeddable: true}
	require.NoError(t, svc.Add(t.Context(), imported))

	// Plain backfill finds nothing: every embeddable bookmark already has
	// an embedding (or is excluded as imported).
	n, err := svc.Backfill(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Force backfill recomputes the one non-imported embeddable bookmark
	// even though it already has an embedding, and still skips _imported_.
	n, err = svc.Backfill(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
