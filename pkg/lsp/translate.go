package lsp

import (
	"regexp"
	"strings"
)

// LanguageRule describes how a target language renders comments and
// indentation, for rewriting a "universal" (Rust-comment-convention)
// snippet.
type LanguageRule struct {
	LineComment   string // e.g. "#", "//"; empty if the language has none
	BlockCommentStart string
	BlockCommentEnd   string
	IndentChar    string // repeated per 4-space indentation level
}

// languageRegistry maps LSP language-id to its comment/indent
// conventions. Languages not listed fall back to defaultRule (identical
// to Rust's own conventions, i.e. a no-op translation).
var languageRegistry = map[string]LanguageRule{
	"python":     {LineComment: "#", IndentChar: "    "},
	"ruby":       {LineComment: "#", IndentChar: "  "},
	"shellscript": {LineComment: "#", IndentChar: "  "},
	"yaml":       {LineComment: "#", IndentChar: "  "},
	"go":         {LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", IndentChar: "\t"},
	"javascript": {LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", IndentChar: "  "},
	"typescript": {LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", IndentChar: "  "},
	"rust":       {LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", IndentChar: "    "},
	"html":       {BlockCommentStart: "<!--", BlockCommentEnd: "-->", IndentChar: "  "},
}

var defaultRule = LanguageRule{LineComment: "//", BlockCommentStart: "/*", BlockCommentEnd: "*/", IndentChar: "    "}

func ruleFor(languageID string) LanguageRule {
	if r, ok := languageRegistry[languageID]; ok {
		return r
	}
	return defaultRule
}

var (
	leadingCommentPattern = regexp.MustCompile(`^(\s*)//(.*)$`)
	trailingCommentPattern = regexp.MustCompile(`^(.*\S.*?)\s*//(.*)$`)
	rustIndentPattern     = regexp.MustCompile(`^( {4})+`)
	blockCommentPattern   = regexp.MustCompile(`(?s)/\*(.*?)\*/`)
)

// Translate rewrites content authored in Rust-comment convention into
// languageID's convention, and substitutes {{ filename }} with
// filepath's basename. content must already have had its
// {% raw %} regions stripped by the caller. If content's tags do not include "universal",
// the caller should skip Translate and use content unchanged.
func Translate(content, languageID, filename string) string {
	rule := ruleFor(languageID)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = translateLine(line, rule)
	}
	result := strings.Join(lines, "\n")

	result = blockCommentPattern.ReplaceAllStringFunc(result, func(m string) string {
		inner := blockCommentPattern.FindStringSubmatch(m)[1]
		if rule.BlockCommentStart != "" {
			return rule.BlockCommentStart + inner + rule.BlockCommentEnd
		}
		return rule.LineComment + inner
	})

	result = strings.ReplaceAll(result, "{{ filename }}", filename)
	return result
}

func translateLine(line string, rule LanguageRule) string {
	indentLevels := 0
	body := line
	if m := rustIndentPattern.FindString(line); m != "" {
		indentLevels = len(m) / 4
		body = line[len(m):]
	}

	if m := leadingCommentPattern.FindStringSubmatch(body); m != nil {
		marker := rule.LineComment
		if marker == "" {
			marker = rule.BlockCommentStart
			body = marker + m[2] + rule.BlockCommentEnd
		} else {
			body = marker + m[2]
		}
	} else if m := trailingCommentPattern.FindStringSubmatch(body); m != nil {
		marker := rule.LineComment
		if marker == "" {
			body = m[1] + " " + rule.BlockCommentStart + m[2] + rule.BlockCommentEnd
		} else {
			body = m[1] + " " + marker + m[2]
		}
	}

	return strings.Repeat(rule.IndentChar, indentLevels) + body
}
