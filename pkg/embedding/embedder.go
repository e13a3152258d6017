// Package embedding implements the Embedder capability and cosine-similarity
// semantic search over persisted embedding vectors stored as float32
// blobs.
package embedding

import (
	"context"
	"math"
)

// Kind identifies which embedder implementation is active, so commands
// that require a real embedder (backfill, load-texts) can refuse when the
// dummy is in use.
type Kind string

const (
	KindDummy  Kind = "dummy"
	KindRemote Kind = "remote"
)

// Embedder is the pluggable vector-production capability. Embed returns
// (nil, false) when no vector could be produced.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
	Kind() Kind
}

// DummyEmbedder produces no vectors. It is the default and is used in
// tests; commands that require real embeddings must refuse when this is
// the active embedder.
type DummyEmbedder struct{}

func (DummyEmbedder) Embed(context.Context, string) ([]float32, bool) { return nil, false }
func (DummyEmbedder) Kind() Kind                                      { return KindDummy }

// RemoteEmbedFunc adapts a caller-supplied embedding function (e.g. an
// HTTP client to a local or hosted embedding model) to the Embedder
// interface.
type RemoteEmbedFunc func(ctx context.Context, text string) ([]float32, error)

// RemoteEmbedder wraps a RemoteEmbedFunc, treating any error as "no
// vector produced" rather than propagating it.
type RemoteEmbedder struct {
	Fn RemoteEmbedFunc
}

func (r *RemoteEmbedder) Embed(ctx context.Context, text string) ([]float32, bool) {
	v, err := r.Fn(ctx, text)
	if err != nil || len(v) == 0 {
		return nil, false
	}
	return v, true
}

func (r *RemoteEmbedder) Kind() Kind { return KindRemote }

// CosineSimilarity computes the cosine similarity between two equal-length
// vectors, returning 0 for mismatched lengths or zero-magnitude vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
