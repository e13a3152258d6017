package repository

import (
	"context"

	"github.com/sysid/bkmr/pkg/bookmark"
	"github.com/sysid/bkmr/pkg/query"
)

// Search runs a two-phase search: if the query carries a non-empty text
// term, fetch matching ids via FTS (preserving rank order); otherwise
// collect all ids. Then apply every remaining filter in memory.
func (r *Repository) Search(ctx context.Context, q *query.BookmarkQuery) ([]*bookmark.Bookmark, error) {
	var candidates []*bookmark.Bookmark

	if q.HasText() {
		ids, err := r.FTSIds(ctx, q.Text)
		if err != nil {
			return nil, err
		}
		candidates, err = r.GetByIDsOrdered(ctx, ids)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		candidates, err = r.GetAll(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Sort by updated-at is only applied by ApplyNonTextFilters when the
	// caller explicitly requested one; FTS rank order is otherwise
	// preserved.
	return q.ApplyNonTextFilters(candidates), nil
}
