package database

import (
	"time"
)

type Wall struct {
	Name          string // Configuration wall identifier derived from filename
	Owner         string // Owner identifier from configuration (id123, club123, short address)
	Title         string
	Link          string
	Description   string
	Language      string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Item struct {
	ID          int64
	WallName    string
	GUID        string
	Link        string
	Title       string
	Description string
	Categories  []string
	PublishedAt time.Time
	CreatedAt   time.Time
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func parseNullableTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
