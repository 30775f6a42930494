package feed

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// EmptyPostTitle is used when a post has no text to build a title from
	EmptyPostTitle = "No text"
	// MaxTitleLength is the maximum title length in symbols, not counting the ellipsis
	MaxTitleLength = 80
	// MinParagraphLengthForTitle is the minimum length of the second and following
	// paragraphs to be used in the title when the title is already long
	MinParagraphLengthForTitle = 30
)

var (
	lineBreakPattern = regexp.MustCompile(`<br\s*/?>`)
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
)

// GenerateTitle builds a title from the flattened text of a post.
func GenerateTitle(text string) string {
	text = stripTags(text)

	var paragraphs []string
	titleLength := 0

	for _, paragraph := range lineBreakPattern.Split(text, -1) {
		paragraph = strings.TrimSpace(html.UnescapeString(paragraph))

		// empty paragraphs and hashtag lists say nothing about the post
		if isHashTagsOnly(paragraph) {
			continue
		}
		paragraph = humanizeHashTags(paragraph)

		length := utf8.RuneCountInString(paragraph)
		if titleLength >= MaxTitleLength ||
			(length < MinParagraphLengthForTitle && titleLength+MinParagraphLengthForTitle >= MaxTitleLength) {
			break
		}

		if !endsWithAny(paragraph, ".!?,:;") {
			paragraph += "."
		}
		titleLength += utf8.RuneCountInString(paragraph)
		paragraphs = append(paragraphs, paragraph)
	}

	if len(paragraphs) == 0 {
		return EmptyPostTitle
	}

	// capitalization may lengthen the first letter, so the bound is checked after it
	title := capitalize(strings.Join(paragraphs, " "))
	if utf8.RuneCountInString(title) > MaxTitleLength {
		title = truncateTitle(title)
	}

	return title
}

// stripTags removes all markup except line breaks.
func stripTags(text string) string {
	return tagPattern.ReplaceAllStringFunc(text, func(tag string) string {
		if lineBreakPattern.FindString(tag) == tag {
			return tag
		}
		return ""
	})
}

// truncateTitle cuts the title at the last word boundary within MaxTitleLength runes
// and marks the cut with an ellipsis unless the sentence is already complete.
func truncateTitle(title string) string {
	runes := []rune(title)
	cut := runes[:MaxTitleLength]

	if !unicode.IsSpace(runes[MaxTitleLength]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}

	truncated := strings.TrimRightFunc(string(cut), unicode.IsSpace)
	if truncated == "" {
		return truncated
	}

	last, size := utf8.DecodeLastRuneInString(truncated)
	switch {
	case strings.ContainsRune(",:;-", last):
		truncated = truncated[:len(truncated)-size] + "..."
	case !strings.ContainsRune(".!?)", last):
		truncated += "..."
	}

	return truncated
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func endsWithAny(s, chars string) bool {
	last, _ := utf8.DecodeLastRuneInString(s)
	return last != utf8.RuneError && strings.ContainsRune(chars, last)
}

// capitalize upper-cases the first letter with full case mapping, so "ß" becomes "SS".
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}
