package feed

import (
	"time"
)

// Wall post types

type AttachmentKind string

const (
	AttachmentPhoto AttachmentKind = "photo"
	AttachmentVideo AttachmentKind = "video"
	AttachmentAudio AttachmentKind = "audio"
	AttachmentDoc   AttachmentKind = "doc"
	AttachmentLink  AttachmentKind = "link"
	AttachmentOther AttachmentKind = "other"
)

// Attachment is a closed variant: only the payload matching Kind is set, and only
// photo, doc and link payloads are ever rendered.
type Attachment struct {
	Kind  AttachmentKind
	Photo *Photo
	Doc   *Doc
	Link  *Link
}

type Photo struct {
	SrcURL string
}

type Doc struct {
	URL   string
	Title string
}

type Link struct {
	URL   string
	Title string
}

// LinkPreview is the single "attachment" object of a post (title and description of a shared page)
type LinkPreview struct {
	URL         string
	Title       string
	Description string
}

type Post struct {
	ID           int64
	OwnerID      int64
	ToID         int64
	Date         time.Time
	Text         string
	CopyText     *string // comment attached to a repost
	PhotoCaption string
	VideoCaption string
	LinkPreview  *LinkPreview
	Attachments  []Attachment
}

// Feed types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
	Categories  []string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Owner    string         `yaml:"owner"`
	Count    int            `yaml:"count"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  ConfigFilters  `yaml:"filters"`

	filterer *Filterer
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"` // seconds
}

type ConfigFilters struct {
	Include string `yaml:"include"`
	Exclude string `yaml:"exclude"`
}

// Filterer returns the compiled include/exclude gate of the wall
func (c *Config) Filterer() *Filterer {
	if c.filterer == nil {
		return &Filterer{}
	}
	return c.filterer
}

func (c *Config) SetFilterer(filterer *Filterer) {
	c.filterer = filterer
}
