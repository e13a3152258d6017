// Package service implements BookmarkService, the application layer that
// orchestrates the repository, query, template, and embedding layers and
// enforces the bookmark catalog's application invariants.
package service

import (
	"context"
	"time"

	"github.com/sysid/bkmr/pkg/action"
	"github.com/sysid/bkmr/pkg/bkmrerr"
	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/embedding"
	"github.com/sysid/bkmr/pkg/query"
	"github.com/sysid/bkmr/pkg/repository"
	"github.com/sysid/bkmr/pkg/templateengine"
)

// BookmarkService is the application-layer facade over the repository,
// embedder, template engine, and action resolver.
type BookmarkService struct {
	Repo     *repository.Repository
	Embedder embedding.Embedder
	Engine   *templateengine.Engine
	Deps     *action.Deps
	Now      func() time.Time
}

// New builds a BookmarkService from its collaborators.
func New(repo *repository.Repository, embedder embedding.Embedder, engine *templateengine.Engine, deps *action.Deps) *BookmarkService {
	return &BookmarkService{Repo: repo, Embedder: embedder, Engine: engine, Deps: deps, Now: time.Now}
}

// Search runs a structured query against the catalog.
func (s *BookmarkService) Search(ctx context.Context, q *query.BookmarkQuery) ([]*bookmark.Bookmark, error) {
	return s.Repo.Search(ctx, q)
}

// SemanticSearch embeds the query text and ranks candidates by cosine
// similarity. It refuses when the active embedder is the dummy.
func (s *BookmarkService) SemanticSearch(ctx context.Context, text string, topN int) ([]embedding.SearchResult, error) {
	if s.Embedder.Kind() == embedding.KindDummy {
		return nil, bkmrerr.ErrDummyEmbedder
	}
	candidates, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	results, ok := embedding.Search(ctx, s.Embedder, text, candidates, topN)
	if !ok {
		return nil, bkmrerr.New(bkmrerr.KindEmbedding, "service.semsearch", bkmrerr.ErrDummyEmbedder)
	}
	return results, nil
}

// Add validates and inserts a new bookmark, computing its embedding when
// embeddable. A duplicate URL fails without mutation, enforced by
// Repository.Add.
func (s *BookmarkService) Add(ctx context.Context, b *bookmark.Bookmark) error {
	if err := bookmark.ValidateURL(b.URL); err != nil {
		return bkmrerr.New(bkmrerr.KindValidation, "service.add", err)
	}
	bookmark.WarnUnknownSystemTags(b.Tags)

	if b.Embeddable {
		s.computeEmbedding(ctx, b)
	}
	return s.Repo.Add(ctx, b)
}

// Update persists changes to an existing bookmark, recomputing its
// embedding when embeddable is true and either force is set or the
// content hash differs from the current source.
func (s *BookmarkService) Update(ctx context.Context, b *bookmark.Bookmark, force bool) error {
	if !b.Embeddable {
		b.Embedding = nil
		b.ContentHash = nil
		return s.Repo.Update(ctx, b)
	}

	currentHash := repository.ContentHashOf(b)
	hashDiffers := string(b.ContentHash) != string(currentHash)
	if force || hashDiffers {
		s.computeEmbedding(ctx, b)
	}
	return s.Repo.Update(ctx, b)
}

func (s *BookmarkService) computeEmbedding(ctx context.Context, b *bookmark.Bookmark) {
	source := repository.CanonicalEmbeddingSource(b)
	vec, ok := s.Embedder.Embed(ctx, source)
	if !ok {
		b.Embedding = nil
		b.ContentHash = nil
		return
	}
	b.Embedding = vec
	b.ContentHash = repository.ContentHashOf(b)
}

// Delete removes a bookmark permanently (no id compaction).
func (s *BookmarkService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// Open resolves and executes the action for the bookmark with the given
// id, then records access.
func (s *BookmarkService) Open(ctx context.Context, id int64, noEdit bool, scriptArgs []string) error {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	act := action.Resolve(b, s.Deps, noEdit, scriptArgs)
	execErr := act.Execute(ctx, b)
	if recErr := s.Repo.RecordAccess(ctx, id); recErr != nil && execErr == nil {
		return recErr
	}
	return execErr
}

// Backfill computes and persists embeddings for embeddable bookmarks that
// lack one. In force mode, all embeddable bookmarks are recomputed except
// those tagged _imported_. Refuses loudly when the active
// embedder is the dummy.
func (s *BookmarkService) Backfill(ctx context.Context, force bool) (int, error) {
	if s.Embedder.Kind() == embedding.KindDummy {
		return 0, bkmrerr.ErrDummyEmbedder
	}

	var targets []*bookmark.Bookmark
	var err error
	if force {
		targets, err = s.Repo.GetEmbeddableForForcedBackfill(ctx)
	} else {
		targets, err = s.Repo.GetWithoutEmbeddings(ctx)
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, b := range targets {
		s.computeEmbedding(ctx, b)
		if b.Embedding == nil {
			continue
		}
		if err := s.Repo.Update(ctx, b); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// RelatedTags returns tags co-occurring with tag (empty tag returns all
// tags with counts).
func (s *BookmarkService) RelatedTags(ctx context.Context, tag string) ([]repository.TagCount, error) {
	if tag == "" {
		return s.Repo.GetAllTags(ctx)
	}
	return s.Repo.GetRelatedTags(ctx, tag)
}

// Surprise returns n random bookmarks.
func (s *BookmarkService) Surprise(ctx context.Context, n int) ([]*bookmark.Bookmark, error) {
	return s.Repo.GetRandom(ctx, n)
}
