package embedding

import (
	"context"
	"sort"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// SearchResult pairs a bookmark with its cosine similarity to the query.
type SearchResult struct {
	Bookmark   *bookmark.Bookmark
	Similarity float64
}

// DefaultTopN is the result count used when the caller doesn't specify one.
const DefaultTopN = 10

// Search embeds query, scores every candidate with a non-nil embedding by
// cosine similarity, and returns the top N sorted descending.
func Search(ctx context.Context, embedder Embedder, query string, candidates []*bookmark.Bookmark, topN int) ([]SearchResult, bool) {
	qvec, ok := embedder.Embed(ctx, query)
	if !ok {
		return nil, false
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	results := make([]SearchResult, 0, len(candidates))
	for _, b := range candidates {
		if len(b.Embedding) == 0 {
			continue
		}
		results = append(results, SearchResult{Bookmark: b, Similarity: CosineSimilarity(qvec, b.Embedding)})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	if len(results) > topN {
		results = results[:topN]
	}
	return results, true
}
