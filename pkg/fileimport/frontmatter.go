// Package fileimport recursively ingests .sh/.py/.md files bearing a
// YAML or hash-comment frontmatter block into the bookmark catalog. The
// directory walk uses CollectFiles and a git-ignore-aware VCSMatcher from
// pkg/fsx.
package fileimport

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/sysid/bkmr/pkg/bookmark"
)

// Frontmatter is the metadata block a file carries, in either YAML or
// hash-comment form.
type Frontmatter struct {
	Name string
	Tags string
	Type string
}

// ParsedFile is the result of stripping frontmatter from a file's content.
type ParsedFile struct {
	Frontmatter Frontmatter
	Body        string
	HasFrontmatter bool
}

var yamlFence = regexp.MustCompile(`(?s)^---\r?\n(.*?)\r?\n---\r?\n?`)
var hashMetaLine = regexp.MustCompile(`^#\s*(name|tags|type)\s*:\s*(.*)$`)

// Parse detects and strips a frontmatter block from content, returning the
// metadata and the remaining body. HasFrontmatter is false when no
// recognized block is present.
func Parse(content string) (*ParsedFile, error) {
	if m := yamlFence.FindStringSubmatch(content); m != nil {
		var fm struct {
			Name string `yaml:"name"`
			Tags string `yaml:"tags"`
			Type string `yaml:"type"`
		}
		if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
			return nil, fmt.Errorf("parsing YAML frontmatter: %w", err)
		}
		body := content[len(m[0]):]
		return &ParsedFile{
			Frontmatter:    Frontmatter{Name: fm.Name, Tags: fm.Tags, Type: fm.Type},
			Body:           body,
			HasFrontmatter: true,
		}, nil
	}

	if fm, bodyStart, ok := parseHashFrontmatter(content); ok {
		return &ParsedFile{Frontmatter: fm, Body: content[bodyStart:], HasFrontmatter: true}, nil
	}

	return &ParsedFile{Body: content, HasFrontmatter: false}, nil
}

// parseHashFrontmatter scans leading lines for #name:/#tags:/#type: hash
// comments. The block terminates at the first line that is neither a
// hash-comment metadata line, an empty line, nor a shebang.
func parseHashFrontmatter(content string) (Frontmatter, int, bool) {
	var fm Frontmatter
	found := false
	offset := 0

	lines := strings.SplitAfter(content, "\n")
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\n\r")
		switch {
		case strings.HasPrefix(trimmed, "#!"):
			offset += len(line)
			continue
		case strings.TrimSpace(trimmed) == "":
			offset += len(line)
			continue
		default:
			if m := hashMetaLine.FindStringSubmatch(trimmed); m != nil {
				found = true
				switch m[1] {
				case "name":
					fm.Name = strings.TrimSpace(m[2])
				case "tags":
					fm.Tags = strings.TrimSpace(m[2])
				case "type":
					fm.Type = strings.TrimSpace(m[2])
				}
				offset += len(line)
				continue
			}
			// Not a metadata line: block ends here.
			return fm, offset, found
		}
	}
	return fm, offset, found
}

// ContentType resolves the system tag for a file, from explicit
// Frontmatter.Type if set, else from extension (.md -> _md_, else _shell_).
func ContentType(fm Frontmatter, ext string) bookmark.Tag {
	switch fm.Type {
	case "shell", "_shell_":
		return bookmark.SysShell
	case "markdown", "_md_", "md":
		return bookmark.SysMarkdown
	case "snippet", "_snip_":
		return bookmark.SysSnippet
	case "env", "_env_":
		return bookmark.SysEnv
	}
	if ext == ".md" {
		return bookmark.SysMarkdown
	}
	return bookmark.SysShell
}

// SHA256Hex returns the SHA-256 hex digest of content, used as the
// file_hash provenance field.
func SHA256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
