// Package query implements bkmr's composable predicate algebra over
// bookmarks and the structured BookmarkQuery search request.
package query

import (
	"strings"

	"github.com/sysid/bkmr/pkg/bookmark"
)

// Specification is a predicate over a bookmark, combinable by And/Or/Not.
type Specification func(b *bookmark.Bookmark) bool

// IsSatisfiedBy evaluates the specification against b.
func (s Specification) IsSatisfiedBy(b *bookmark.Bookmark) bool {
	return s(b)
}

// And returns a specification satisfied when both s and other are.
func (s Specification) And(other Specification) Specification {
	return func(b *bookmark.Bookmark) bool { return s(b) && other(b) }
}

// Or returns a specification satisfied when either s or other is.
func (s Specification) Or(other Specification) Specification {
	return func(b *bookmark.Bookmark) bool { return s(b) || other(b) }
}

// Not returns the negation of s.
func (s Specification) Not() Specification {
	return func(b *bookmark.Bookmark) bool { return !s(b) }
}

// AllTags is satisfied when the bookmark's tag set is a superset of set.
// An empty set is a no-op (always true).
func AllTags(set bookmark.TagSet) Specification {
	return func(b *bookmark.Bookmark) bool {
		if len(set) == 0 {
			return true
		}
		return set.IsSubsetOf(b.Tags)
	}
}

// AnyTag is satisfied when the bookmark's tag set intersects set. An empty
// set is a no-op and therefore never matches (false).
func AnyTag(set bookmark.TagSet) Specification {
	return func(b *bookmark.Bookmark) bool {
		if len(set) == 0 {
			return false
		}
		return set.Intersects(b.Tags)
	}
}

// ExactTags is satisfied when the bookmark's tag set equals set exactly.
func ExactTags(set bookmark.TagSet) Specification {
	return func(b *bookmark.Bookmark) bool {
		return set.Equal(b.Tags)
	}
}

// TextSearch is the in-memory fallback specification used when FTS is not
// invoked: case-insensitive substring match against title + description +
// space-joined tags.
func TextSearch(term string) Specification {
	term = strings.ToLower(term)
	return func(b *bookmark.Bookmark) bool {
		if term == "" {
			return true
		}
		tags := make([]string, 0, len(b.Tags))
		for _, t := range b.Tags.Sorted() {
			tags = append(tags, string(t))
		}
		haystack := strings.ToLower(b.Title + " " + b.Description + " " + strings.Join(tags, " "))
		return strings.Contains(haystack, term)
	}
}

// TagPrefix is satisfied when the bookmark has at least one tag starting
// with prefix. An empty prefix is a no-op (always true).
func TagPrefix(prefix string) Specification {
	return func(b *bookmark.Bookmark) bool {
		if prefix == "" {
			return true
		}
		return b.Tags.HasPrefix(prefix)
	}
}
