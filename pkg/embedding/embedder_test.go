package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysid/bkmr/pkg/bookmark"
)

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarityMismatchedLength(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
}

func TestDummyEmbedderRefusesToEmbed(t *testing.T) {
	_, ok := DummyEmbedder{}.Embed(t.Context(), "anything")
	assert.False(t, ok)
	assert.Equal(t, KindDummy, DummyEmbedder{}.Kind())
}

func TestSearchRanksBySimilarityDescending(t *testing.T) {
	embedder := &RemoteEmbedder{Fn: func(context.Context, string) ([]float32, error) {
		return []float32{1, 0}, nil
	}}

	b1 := &bookmark.Bookmark{ID: 1, Embedding: []float32{1, 0}}
	b2 := &bookmark.Bookmark{ID: 2, Embedding: []float32{0, 1}}
	b3 := &bookmark.Bookmark{ID: 3, Embedding: []float32{0.7, 0.7}}

	results, ok := Search(t.Context(), embedder, "query", []*bookmark.Bookmark{b2, b1, b3}, 10)
	require := assert.New(t)
	require.True(ok)
	if require.Len(results, 3) {
		require.Equal(int64(1), results[0].Bookmark.ID)
		require.Equal(int64(3), results[1].Bookmark.ID)
		require.Equal(int64(2), results[2].Bookmark.ID)
	}
}

func TestSearchReturnsFalseWhenEmbedderFails(t *testing.T) {
	embedder := &RemoteEmbedder{Fn: func(context.Context, string) ([]float32, error) {
		return nil, assert.AnError
	}}
	_, ok := Search(t.Context(), embedder, "query", nil, 10)
	assert.False(t, ok)
}
