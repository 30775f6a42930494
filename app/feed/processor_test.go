package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustFilterer(t *testing.T, include, exclude string) *Filterer {
	t.Helper()

	filterer, err := NewFilterer(include, exclude)
	if err != nil {
		t.Fatalf("Failed to compile filters: %v", err)
	}
	return filterer
}

func TestProcessor_EmptyPost(t *testing.T) {
	item, ok := NewProcessor().Process(Post{ID: 1, ToID: -5}, nil)
	if !ok {
		t.Fatal("Expected empty post to be retained")
	}

	if item.Title != EmptyPostTitle {
		t.Errorf("Expected placeholder title, got %q", item.Title)
	}
	if item.Description != "" {
		t.Errorf("Expected empty description, got %q", item.Description)
	}
	if len(item.Categories) != 0 {
		t.Errorf("Expected no categories, got %v", item.Categories)
	}
}

func TestProcessor_Scenarios(t *testing.T) {
	date := time.Date(2024, 2, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		post Post
		want Item
	}{
		{
			name: "sentence kept as is",
			post: Post{ID: 10, ToID: -1, Date: date, Text: "A sentence of exactly thirty characters!"},
			want: Item{
				GUID:        "https://vk.com/wall-1_10",
				Link:        "https://vk.com/wall-1_10",
				Title:       "A sentence of exactly thirty characters!",
				Description: "A sentence of exactly thirty characters!",
				PublishedAt: date,
			},
		},
		{
			name: "hashtags only",
			post: Post{ID: 11, ToID: -1, Date: date, Text: "#sport #news"},
			want: Item{
				GUID:        "https://vk.com/wall-1_11",
				Link:        "https://vk.com/wall-1_11",
				Title:       EmptyPostTitle,
				Description: "#sport #news",
				PublishedAt: date,
				Categories:  []string{"sport", "news"},
			},
		},
		{
			name: "mention rewritten",
			post: Post{ID: 12, OwnerID: 42, Date: date, Text: "[id123|Alice] was here"},
			want: Item{
				GUID:        "https://vk.com/wall42_12",
				Link:        "https://vk.com/wall42_12",
				Title:       "Alice was here.",
				Description: "Alice was here",
				PublishedAt: date,
			},
		},
		{
			name: "hashtag humanized in title only",
			post: Post{ID: 13, ToID: 7, Date: date, Text: "Check this #cool_stuff out"},
			want: Item{
				GUID:        "https://vk.com/wall7_13",
				Link:        "https://vk.com/wall7_13",
				Title:       "Check this cool stuff out.",
				Description: "Check this #cool_stuff out",
				PublishedAt: date,
				Categories:  []string{"cool_stuff"},
			},
		},
		{
			name: "repost with attachments",
			post: Post{
				ID:       14,
				ToID:     -1,
				Date:     date,
				CopyText: strPtr("Look at this #repost"),
				Text:     "Original [club9|Club] post",
				Attachments: []Attachment{
					{Kind: AttachmentPhoto, Photo: &Photo{SrcURL: "https://img/1.jpg"}},
					{Kind: AttachmentDoc, Doc: &Doc{URL: "https://vk.com/doc1", Title: "#file"}},
				},
			},
			want: Item{
				GUID:  "https://vk.com/wall-1_14",
				Link:  "https://vk.com/wall-1_14",
				Title: "Look at this repost. Original Club post.",
				Description: "Look at this #repost" + VerticalDelimiter + "Original Club post" + VerticalDelimiter +
					"<br><img src='https://img/1.jpg'/>" + VerticalDelimiter + "<br><a href='https://vk.com/doc1'>#file</a>",
				PublishedAt: date,
				Categories:  []string{"repost", "file"},
			},
		},
	}

	processor := NewProcessor()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := processor.Process(tt.post, nil)
			if !ok {
				t.Fatal("Expected post to be retained")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Item mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProcessor_MentionAbsentFromOutput(t *testing.T) {
	post := Post{
		ID:           1,
		Text:         "[id1|Ann] and [club2|Team]",
		PhotoCaption: "by [id3|Photographer]",
	}

	item, _ := NewProcessor().Process(post, nil)

	if strings.Contains(item.Description, "|") || strings.Contains(item.Title, "|") {
		t.Errorf("Mention markup left in output: %q / %q", item.Title, item.Description)
	}
	if !strings.Contains(item.Description, "Ann and Team") || !strings.Contains(item.Description, "by Photographer") {
		t.Errorf("Display names missing from description: %q", item.Description)
	}
}

func TestProcessor_FilterActsBeforeAttachments(t *testing.T) {
	post := Post{
		ID:   1,
		Text: "Weekly digest",
		Attachments: []Attachment{
			{Kind: AttachmentLink, Link: &Link{URL: "https://example.com/sale", Title: "Big sale"}},
		},
	}

	if _, ok := NewProcessor().Process(post, mustFilterer(t, "", "sale")); !ok {
		t.Error("Attachment markup must not be visible to the exclude gate")
	}
	if _, ok := NewProcessor().Process(post, mustFilterer(t, "sale", "")); ok {
		t.Error("Attachment markup must not be visible to the include gate")
	}
}

func TestProcessor_FilterSeesCaptionsAndPreview(t *testing.T) {
	post := Post{
		ID:          1,
		Text:        "Look",
		LinkPreview: &LinkPreview{Title: "Casino bonus", Description: "Play now"},
	}

	if _, ok := NewProcessor().Process(post, mustFilterer(t, "", "casino")); ok {
		t.Error("Expected link preview text to be filtered")
	}
}

func TestProcessor_RunPreservesOrder(t *testing.T) {
	posts := []Post{
		{ID: 3, ToID: -1, Text: "Concert tonight"},
		{ID: 2, ToID: -1, Text: "Advertising"},
		{ID: 1, ToID: -1, Text: "Concert tomorrow, advertising included"},
		{ID: 0, ToID: -1, Text: "Another concert"},
	}

	items := NewProcessor().Run(posts, mustFilterer(t, "concert", "advertising"))

	var links []string
	for _, item := range items {
		links = append(links, item.Link)
	}
	want := []string{"https://vk.com/wall-1_3", "https://vk.com/wall-1_0"}

	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("Retained items mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_RunEmpty(t *testing.T) {
	items := NewProcessor().Run(nil, nil)
	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}
}

func TestPostURL(t *testing.T) {
	tests := []struct {
		post Post
		want string
	}{
		{Post{ID: 5, ToID: -100, OwnerID: 3}, "https://vk.com/wall-100_5"},
		{Post{ID: 6, OwnerID: 3}, "https://vk.com/wall3_6"},
	}

	for _, tt := range tests {
		if got := PostURL(tt.post); got != tt.want {
			t.Errorf("PostURL() = %s, want %s", got, tt.want)
		}
	}
}
