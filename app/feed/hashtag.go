package feed

import (
	"regexp"
	"strings"
)

// hashTag matches "#name" with an optional "@target" suffix; group 1 is the name.
const hashTag = `#([а-яёА-ЯЁa-zA-Z0-9_]+)(?:@[a-zA-Z0-9_]+)?`

var (
	hashTagPattern     = regexp.MustCompile(hashTag)
	hashTagOnlyPattern = regexp.MustCompile(`^\s*(?:` + hashTag + `\s*)*$`)
)

// ExtractHashTags returns hashtag names in order of appearance, duplicates and underscores kept.
func ExtractHashTags(text string) []string {
	matches := hashTagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

func isHashTagsOnly(paragraph string) bool {
	return hashTagOnlyPattern.MatchString(paragraph)
}

// humanizeHashTags turns "#cool_stuff@club" into "cool stuff".
func humanizeHashTags(paragraph string) string {
	return hashTagPattern.ReplaceAllStringFunc(paragraph, func(match string) string {
		name := hashTagPattern.FindStringSubmatch(match)[1]
		return strings.ReplaceAll(name, "_", " ")
	})
}
