package feed

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Owner identifies a user or group wall, either by numeric id (negative for groups)
// or by its short address.
type Owner struct {
	ID     int64
	Domain string
}

var groupPrefixes = []string{"club", "public", "event"}

// ParseOwner accepts "id123", "club123", "public123", "event123", a bare number or a short address.
func ParseOwner(id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, fmt.Errorf("empty identifier of user or group")
	}

	if num, ok := numericSuffix(id, "id"); ok {
		return Owner{ID: num}, nil
	}
	for _, prefix := range groupPrefixes {
		if num, ok := numericSuffix(id, prefix); ok {
			return Owner{ID: -num}, nil
		}
	}
	if num, err := strconv.ParseInt(id, 10, 64); err == nil && num != 0 {
		return Owner{ID: num}, nil
	}

	return Owner{Domain: id}, nil
}

func numericSuffix(id, prefix string) (int64, bool) {
	rest, found := strings.CutPrefix(id, prefix)
	if !found || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	num, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || num == 0 {
		return 0, false
	}
	return num, true
}

// MaybeGroup is true when the owner has to be looked up as a group first.
func (o Owner) MaybeGroup() bool {
	return o.Domain != "" || o.ID < 0
}

// Slug is the wall address on the site: the short address, "id123" or "club123".
func (o Owner) Slug() string {
	switch {
	case o.Domain != "":
		return o.Domain
	case o.ID > 0:
		return fmt.Sprintf("id%d", o.ID)
	default:
		return fmt.Sprintf("club%d", -o.ID)
	}
}

func (o Owner) URL() string {
	return "https://vk.com/" + o.Slug()
}

func (o Owner) WallParams(count int) url.Values {
	params := url.Values{}
	if o.Domain != "" {
		params.Set("domain", o.Domain)
	} else {
		params.Set("owner_id", strconv.FormatInt(o.ID, 10))
	}
	params.Set("count", strconv.Itoa(count))
	return params
}

func (o Owner) GroupParams() url.Values {
	params := url.Values{}
	params.Set("fields", "name")
	if o.Domain != "" {
		params.Set("group_id", o.Domain)
	} else {
		params.Set("group_id", strconv.FormatInt(abs(o.ID), 10))
	}
	return params
}

func (o Owner) UserParams() url.Values {
	params := url.Values{}
	params.Set("fields", "first_name,last_name")
	if o.Domain != "" {
		params.Set("user_ids", o.Domain)
	} else {
		params.Set("user_ids", strconv.FormatInt(o.ID, 10))
	}
	return params
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
