package feed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	// VerticalDelimiter separates text from different parts of a post in the item description
	VerticalDelimiter = " <br/> ________________ <br/> "
	lineBreak         = "<br/>"
)

// internalLinkPattern matches wall mentions like [id123|Alice] or [club1|Some group]
var internalLinkPattern = regexp.MustCompile(`\[[^|]+\|([^\]]+)\]`)

type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Fragments collects the text of a post in a fixed order: repost comment, own text,
// media captions and the link preview.
func (a *Assembler) Fragments(post Post) []string {
	var fragments []string

	if post.CopyText != nil {
		fragments = append(fragments, *post.CopyText)
	}
	if post.Text != "" {
		fragments = append(fragments, post.Text)
	}
	if post.PhotoCaption != "" {
		fragments = append(fragments, post.PhotoCaption)
	}
	if post.VideoCaption != "" {
		fragments = append(fragments, post.VideoCaption)
	}
	if post.LinkPreview != nil {
		fragments = append(fragments, post.LinkPreview.Title+lineBreak+post.LinkPreview.Description)
	}

	return fragments
}

// AppendAttachments adds one markup fragment per renderable attachment. Attachments
// missing the URL they need are skipped.
func (a *Assembler) AppendAttachments(fragments []string, attachments []Attachment) []string {
	for _, attachment := range attachments {
		if markup, ok := renderAttachment(attachment); ok {
			fragments = append(fragments, markup)
		}
	}
	return fragments
}

func renderAttachment(attachment Attachment) (string, bool) {
	switch attachment.Kind {
	case AttachmentPhoto:
		if attachment.Photo == nil || attachment.Photo.SrcURL == "" {
			return "", false
		}
		return fmt.Sprintf("<br><img src='%s'/>", html.EscapeString(attachment.Photo.SrcURL)), true
	case AttachmentDoc:
		if attachment.Doc == nil || attachment.Doc.URL == "" {
			return "", false
		}
		return anchor(attachment.Doc.URL, attachment.Doc.Title), true
	case AttachmentLink:
		if attachment.Link == nil || attachment.Link.URL == "" {
			return "", false
		}
		return anchor(attachment.Link.URL, attachment.Link.Title), true
	default:
		// video, audio and unknown kinds are not rendered
		return "", false
	}
}

func anchor(url, title string) string {
	if title == "" {
		title = url
	}
	return fmt.Sprintf("<br><a href='%s'>%s</a>", html.EscapeString(url), html.EscapeString(title))
}

// RewriteInternalLinks replaces [target|Name] mentions with Name in every fragment.
func (a *Assembler) RewriteInternalLinks(fragments []string) []string {
	rewritten := make([]string, len(fragments))
	for i, fragment := range fragments {
		rewritten[i] = internalLinkPattern.ReplaceAllString(fragment, "$1")
	}
	return rewritten
}

func (a *Assembler) Description(fragments []string) string {
	return strings.Join(fragments, VerticalDelimiter)
}

// TextContent is the flattened view used for titles and hashtags.
func (a *Assembler) TextContent(fragments []string) string {
	return strings.Join(fragments, lineBreak)
}
