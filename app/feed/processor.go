package feed

import (
	"fmt"
	"log/slog"
)

const wallPostURLFormat = "https://vk.com/wall%d_%d"

// Processor turns wall posts into feed items. It holds no per-post state and is
// safe for concurrent use.
type Processor struct {
	assembler *Assembler
}

func NewProcessor() *Processor {
	return &Processor{
		assembler: NewAssembler(),
	}
}

// Run converts posts in order, leaving out the ones rejected by the filterer.
func (p *Processor) Run(posts []Post, filterer *Filterer) []Item {
	items := make([]Item, 0, len(posts))
	for _, post := range posts {
		item, ok := p.Process(post, filterer)
		if !ok {
			slog.Debug("Post filtered out", "post_id", post.ID, "owner_id", post.wallOwnerID())
			continue
		}
		items = append(items, item)
	}
	return items
}

// Process converts a single post. The second result is false when the post is filtered out.
func (p *Processor) Process(post Post, filterer *Filterer) (Item, bool) {
	fragments := p.assembler.Fragments(post)

	if filterer != nil && !filterer.Allows(fragments) {
		return Item{}, false
	}

	fragments = p.assembler.AppendAttachments(fragments, post.Attachments)
	fragments = p.assembler.RewriteInternalLinks(fragments)

	textContent := p.assembler.TextContent(fragments)
	link := PostURL(post)

	return Item{
		GUID:        link,
		Title:       GenerateTitle(textContent),
		Link:        link,
		Description: p.assembler.Description(fragments),
		PublishedAt: post.Date,
		Categories:  ExtractHashTags(textContent),
	}, true
}

func PostURL(post Post) string {
	return fmt.Sprintf(wallPostURLFormat, post.wallOwnerID(), post.ID)
}

// wallOwnerID is the wall the post was published on; older responses only carry to_id.
func (p Post) wallOwnerID() int64 {
	if p.ToID != 0 {
		return p.ToID
	}
	return p.OwnerID
}
