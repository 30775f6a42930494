package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	GroupFeedDescriptionPrefix = "Wall of group "
	UserFeedDescriptionPrefix  = "Wall of user "
	DefaultLanguage            = "ru-ru"
)

type rawPost struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	ToID        int64           `json:"to_id"`
	Date        int64           `json:"date"`
	Text        string          `json:"text"`
	CopyText    *string         `json:"copy_text"`
	Attachment  *rawAttachment  `json:"attachment"`
	Attachments []rawAttachment `json:"attachments"`
}

type rawAttachment struct {
	Type  string `json:"type"`
	Photo *struct {
		SrcBig string `json:"src_big"`
		Src    string `json:"src"`
		Text   string `json:"text"`
	} `json:"photo"`
	Video *struct {
		Text string `json:"text"`
	} `json:"video"`
	Doc *struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"doc"`
	Link *struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"link"`
}

type rawGroup struct {
	Name string `json:"name"`
}

type rawUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseWall decodes the "response" collection of wall.get. Its first element holds
// response metadata (the total count) and never becomes a post; malformed posts are skipped.
func (p *Parser) ParseWall(data []byte) ([]Post, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse wall response: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	posts := make([]Post, 0, len(records)-1)
	for i, record := range records[1:] {
		var raw rawPost
		if err := json.Unmarshal(record, &raw); err != nil {
			slog.Warn("Skipping malformed post", "index", i+1, "error", err)
			continue
		}
		posts = append(posts, p.normalizePost(raw))
	}

	return posts, nil
}

func (p *Parser) normalizePost(raw rawPost) Post {
	post := Post{
		ID:          raw.ID,
		OwnerID:     raw.OwnerID,
		ToID:        raw.ToID,
		Date:        time.Unix(raw.Date, 0).UTC(),
		Text:        raw.Text,
		CopyText:    raw.CopyText,
		Attachments: make([]Attachment, 0, len(raw.Attachments)),
	}

	if a := raw.Attachment; a != nil {
		if a.Photo != nil {
			post.PhotoCaption = a.Photo.Text
		}
		if a.Video != nil {
			post.VideoCaption = a.Video.Text
		}
		if a.Link != nil {
			post.LinkPreview = &LinkPreview{
				URL:         a.Link.URL,
				Title:       a.Link.Title,
				Description: a.Link.Description,
			}
		}
	}

	for _, a := range raw.Attachments {
		post.Attachments = append(post.Attachments, p.normalizeAttachment(a))
	}

	return post
}

func (p *Parser) normalizeAttachment(raw rawAttachment) Attachment {
	switch AttachmentKind(raw.Type) {
	case AttachmentPhoto:
		attachment := Attachment{Kind: AttachmentPhoto}
		if raw.Photo != nil {
			src := raw.Photo.SrcBig
			if src == "" {
				src = raw.Photo.Src
			}
			attachment.Photo = &Photo{SrcURL: src}
		}
		return attachment
	case AttachmentDoc:
		attachment := Attachment{Kind: AttachmentDoc}
		if raw.Doc != nil {
			attachment.Doc = &Doc{URL: raw.Doc.URL, Title: raw.Doc.Title}
		}
		return attachment
	case AttachmentLink:
		attachment := Attachment{Kind: AttachmentLink}
		if raw.Link != nil {
			attachment.Link = &Link{URL: raw.Link.URL, Title: raw.Link.Title}
		}
		return attachment
	case AttachmentVideo, AttachmentAudio:
		return Attachment{Kind: AttachmentKind(raw.Type)}
	default:
		return Attachment{Kind: AttachmentOther}
	}
}

// ParseGroup decodes groups.getById; nil metadata means the response was empty.
func (p *Parser) ParseGroup(data []byte, owner Owner) (*Metadata, error) {
	var groups []rawGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse group response: %w", err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	return &Metadata{
		Title:       groups[0].Name,
		Link:        owner.URL(),
		Description: GroupFeedDescriptionPrefix + groups[0].Name,
		Language:    DefaultLanguage,
	}, nil
}

// ParseUser decodes users.get; nil metadata means the response was empty.
func (p *Parser) ParseUser(data []byte, owner Owner) (*Metadata, error) {
	var users []rawUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	name := strings.TrimSpace(users[0].FirstName + " " + users[0].LastName)
	return &Metadata{
		Title:       name,
		Link:        owner.URL(),
		Description: UserFeedDescriptionPrefix + name,
		Language:    DefaultLanguage,
	}, nil
}
