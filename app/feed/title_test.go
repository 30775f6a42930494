package feed

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty text",
			text: "",
			want: EmptyPostTitle,
		},
		{
			name: "only line breaks",
			text: "<br/><br><br />",
			want: EmptyPostTitle,
		},
		{
			name: "only hashtags",
			text: "#sport #news",
			want: EmptyPostTitle,
		},
		{
			name: "sentence with terminal punctuation",
			text: "A sentence of exactly thirty characters!",
			want: "A sentence of exactly thirty characters!",
		},
		{
			name: "period appended",
			text: "short news",
			want: "Short news.",
		},
		{
			name: "hashtags humanized",
			text: "Check this #cool_stuff out",
			want: "Check this cool stuff out.",
		},
		{
			name: "mention suffix dropped",
			text: "Meet #new_album@band today",
			want: "Meet new album today.",
		},
		{
			name: "hashtag paragraph skipped",
			text: "#tag1 #tag2<br/>Real content here",
			want: "Real content here.",
		},
		{
			name: "paragraphs joined",
			text: "First line<br/>Second line",
			want: "First line. Second line.",
		},
		{
			name: "tags stripped",
			text: "<b>Bold</b> statement<br><a href='x'>link text</a>",
			want: "Bold statement. link text.",
		},
		{
			name: "empty paragraphs collapse",
			text: "<br/><br/>One<br/><br/><br/>Two<br/>",
			want: "One. Two.",
		},
		{
			name: "trailing comma kept as terminator",
			text: "Dear friends,",
			want: "Dear friends,",
		},
		{
			name: "cyrillic capitalized",
			text: "привет всем",
			want: "Привет всем.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateTitle(tt.text); got != tt.want {
				t.Errorf("GenerateTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestGenerateTitle_StopsOnShortParagraphWhenLong(t *testing.T) {
	first := "This opening paragraph is long enough to fill the title"
	second := "Short one"
	third := "This third paragraph would otherwise be long enough to use"

	got := GenerateTitle(first + "<br/>" + second + "<br/>" + third)
	want := first + "."

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGenerateTitle_TruncatesAtCommaBoundary(t *testing.T) {
	// comma is the 80th rune and is followed by a space
	head := strings.Repeat("word ", 15) + "four,"
	text := head + " and then more!"

	if n := utf8.RuneCountInString(head); n != MaxTitleLength {
		t.Fatalf("Test setup: head has %d runes", n)
	}

	got := GenerateTitle(text)
	want := "W" + strings.TrimSuffix(head, ",")[1:] + "..."

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGenerateTitle_TruncatesPartialWord(t *testing.T) {
	text := strings.Repeat("слово ", 13) + "окончание" // cut falls inside the last word

	got := GenerateTitle(text)
	want := "С" + strings.TrimSpace(strings.Repeat("слово ", 13))[len("с"):] + "..."

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGenerateTitle_KeepsClosingParenthesis(t *testing.T) {
	text := strings.Repeat("abcd ", 15) + "(xyz) tail words that do not fit"

	got := GenerateTitle(text)
	want := "A" + strings.Repeat("abcd ", 15)[1:] + "(xyz)"

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGenerateTitle_HardCutWithoutSpaces(t *testing.T) {
	text := strings.Repeat("x", 120)

	got := GenerateTitle(text)
	want := "X" + strings.Repeat("x", MaxTitleLength-1) + "..."

	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestGenerateTitle_LengthBound(t *testing.T) {
	inputs := []string{
		strings.Repeat("Длинное предложение без точки ", 10),
		strings.Repeat("a, ", 60),
		strings.Repeat("word-", 40),
		"First paragraph that is reasonably long.<br/>" + strings.Repeat("second ", 20),
		strings.Repeat("#tag ", 30) + "<br/>" + strings.Repeat("текст ", 30),
		strings.Repeat("ß", 100),
		"ß" + strings.Repeat("a", 78) + ".",
	}

	for _, input := range inputs {
		title := GenerateTitle(input)
		length := utf8.RuneCountInString(title)

		if length > MaxTitleLength && !(length <= MaxTitleLength+3 && strings.HasSuffix(title, "...")) {
			t.Errorf("Title too long (%d runes): %q", length, title)
		}
	}
}

func TestGenerateTitle_HashTagParagraphNeverInTitle(t *testing.T) {
	title := GenerateTitle("Intro text here<br/>#only_tags #more_tags")

	if strings.Contains(title, "only") || strings.Contains(title, "#") {
		t.Errorf("Hashtag-only paragraph leaked into title: %q", title)
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"a":      "A",
		"ёжик":   "Ёжик",
		"1st":    "1st",
		"Hello":  "Hello",
		"ßtraße": "SStraße",
		"ﬁsh":    "FIsh",
	}

	for input, want := range tests {
		if got := capitalize(input); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestGenerateTitle_ExpandingFirstLetter(t *testing.T) {
	title := GenerateTitle("ß" + strings.Repeat("a", 78) + ".")

	if !strings.HasPrefix(title, "SS") {
		t.Errorf("Expected full upper-case mapping of the first letter, got %q", title)
	}
	if length := utf8.RuneCountInString(title); length > MaxTitleLength+3 {
		t.Errorf("Title too long (%d runes): %q", length, title)
	}
}

func TestGenerateTitle_DecodesEntities(t *testing.T) {
	got := GenerateTitle("<br><a href='https://vk.com/doc2'>Q&amp;A &lt;draft&gt;</a>")

	if want := "Q&A <draft>."; got != want {
		t.Errorf("GenerateTitle() = %q, want %q", got, want)
	}
}
