package root

import "github.com/sysid/bkmr/pkg/bookmark"

// tagSet parses a comma-separated tag list flag value into a TagSet,
// case-folding, trimming, and dropping empty entries.
func tagSet(csv string) bookmark.TagSet {
	if csv == "" {
		return bookmark.TagSet{}
	}
	return bookmark.NewTagSet(csv)
}
