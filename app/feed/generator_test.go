package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"
)

func testMetadata() Metadata {
	return Metadata{
		Title:       "Test group",
		Link:        "https://vk.com/club1",
		Description: "Wall of group Test group",
		Language:    DefaultLanguage,
	}
}

func parseGenerated(t *testing.T, rss string) *gofeed.Feed {
	t.Helper()

	parsed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("Generated feed is not parseable: %v\n%s", err, rss)
	}
	if parsed.FeedType != "rss" || parsed.FeedVersion != "2.0" {
		t.Errorf("Expected RSS 2.0, got %s %s", parsed.FeedType, parsed.FeedVersion)
	}
	return parsed
}

func TestGenerateRSS(t *testing.T) {
	published := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	items := []Item{
		{
			GUID:        "https://vk.com/wall-1_2",
			Link:        "https://vk.com/wall-1_2",
			Title:       "Concert tonight.",
			Description: "Concert tonight #music #live" + VerticalDelimiter + "<br><img src='https://pp.vk.me/1.jpg'/>",
			PublishedAt: published,
			Categories:  []string{"music", "live"},
		},
		{
			GUID:        "https://vk.com/wall-1_1",
			Link:        "https://vk.com/wall-1_1",
			Title:       EmptyPostTitle,
			PublishedAt: published.Add(-time.Hour),
		},
	}

	rss, err := NewGenerator("1.2.3").Run(testMetadata(), items, "http://localhost:8080/feeds/test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	parsed := parseGenerated(t, rss)

	if parsed.Title != "Test group" {
		t.Errorf("Expected title 'Test group', got '%s'", parsed.Title)
	}
	if parsed.Link != "https://vk.com/club1" {
		t.Errorf("Expected link 'https://vk.com/club1', got '%s'", parsed.Link)
	}
	if parsed.Description != "Wall of group Test group" {
		t.Errorf("Unexpected description '%s'", parsed.Description)
	}
	if parsed.Language != DefaultLanguage {
		t.Errorf("Expected language %s, got %s", DefaultLanguage, parsed.Language)
	}
	if parsed.Generator != "VK-Comb/1.2.3" {
		t.Errorf("Expected generator 'VK-Comb/1.2.3', got '%s'", parsed.Generator)
	}
	if parsed.UpdatedParsed == nil || !parsed.UpdatedParsed.Equal(published) {
		t.Errorf("Expected lastBuildDate of the newest item, got %v", parsed.UpdatedParsed)
	}
	if !strings.Contains(rss, `<atom:link href="http://localhost:8080/feeds/test" rel="self" type="application/rss+xml" />`) {
		t.Error("Expected atom self link")
	}

	if len(parsed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(parsed.Items))
	}

	first := parsed.Items[0]
	if first.Title != "Concert tonight." {
		t.Errorf("Unexpected item title '%s'", first.Title)
	}
	if first.Link != "https://vk.com/wall-1_2" || first.GUID != "https://vk.com/wall-1_2" {
		t.Errorf("Unexpected item link %s / guid %s", first.Link, first.GUID)
	}
	if !strings.Contains(first.Description, "<img src='https://pp.vk.me/1.jpg'/>") {
		t.Errorf("Expected description markup to survive escaping, got %q", first.Description)
	}
	if first.PublishedParsed == nil || !first.PublishedParsed.Equal(published) {
		t.Errorf("Expected pubDate %v, got %v", published, first.PublishedParsed)
	}
	if diff := cmp.Diff([]string{"music", "live"}, first.Categories); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}

	if parsed.Items[1].Title != EmptyPostTitle {
		t.Errorf("Expected placeholder title, got '%s'", parsed.Items[1].Title)
	}
	if len(parsed.Items[1].Categories) != 0 {
		t.Errorf("Expected no categories, got %v", parsed.Items[1].Categories)
	}
}

func TestGenerateEscapesSpecialCharacters(t *testing.T) {
	metadata := testMetadata()
	metadata.Title = `Tom & Jerry <fan club>`

	items := []Item{{
		GUID:        "https://vk.com/wall-1_1",
		Link:        "https://vk.com/wall-1_1",
		Title:       `Quotes "and" <tags> & more.`,
		Description: "<b>bold</b> & <i>italic</i>",
		PublishedAt: time.Now(),
	}}

	rss, err := NewGenerator("dev").Run(metadata, items, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if strings.Contains(rss, "<b>bold</b>") {
		t.Error("Expected description markup to be escaped")
	}
	if strings.Contains(rss, "atom:link href") {
		t.Error("Expected no self link when none is given")
	}

	parsed := parseGenerated(t, rss)
	if parsed.Title != metadata.Title {
		t.Errorf("Expected title %q, got %q", metadata.Title, parsed.Title)
	}
	if parsed.Items[0].Title != items[0].Title {
		t.Errorf("Expected item title %q, got %q", items[0].Title, parsed.Items[0].Title)
	}
}

func TestGenerateWithEmptyItems(t *testing.T) {
	before := time.Now().Add(-time.Second)

	rss, err := NewGenerator("dev").Run(testMetadata(), nil, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	parsed := parseGenerated(t, rss)
	if len(parsed.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(parsed.Items))
	}
	if parsed.UpdatedParsed == nil || parsed.UpdatedParsed.Before(before.Truncate(time.Second)) {
		t.Errorf("Expected lastBuildDate to be now, got %v", parsed.UpdatedParsed)
	}
}

func TestGenerateDescriptionFallsBackToTitle(t *testing.T) {
	metadata := testMetadata()
	metadata.Description = ""

	rss, err := NewGenerator("dev").Run(metadata, nil, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(rss, "<description>Test group</description>") {
		t.Error("Expected channel description to fall back to the title")
	}
}

func TestIsURL(t *testing.T) {
	g := NewGenerator("dev")

	tests := map[string]bool{
		"https://vk.com/wall1_1": true,
		"http://vk.com/wall1_1":  true,
		"wall1_1":                false,
		"https://":               false,
	}

	for input, want := range tests {
		if got := g.isURL(input); got != want {
			t.Errorf("isURL(%q) = %t, want %t", input, got, want)
		}
	}
}
