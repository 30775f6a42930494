package vkapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/lysyi3m/vk-comb/app/feed"
)

// ErrUnknownOwner is returned when neither a group nor a user matches the identifier.
var ErrUnknownOwner = errors.New("invalid user or group identifier")

// Wall is a fetched wall: channel metadata plus posts in API order.
type Wall struct {
	Metadata feed.Metadata
	Posts    []feed.Post
}

// FetchWall resolves the owner's display name and downloads the latest count posts.
func (c *Client) FetchWall(ctx context.Context, owner feed.Owner, count int, parser *feed.Parser) (*Wall, error) {
	metadata, err := c.fetchOwner(ctx, owner, parser)
	if err != nil {
		return nil, err
	}

	data, err := c.Call(ctx, MethodWallGet, owner.WallParams(count))
	if err != nil {
		return nil, err
	}

	posts, err := parser.ParseWall(data)
	if err != nil {
		return nil, err
	}

	return &Wall{Metadata: *metadata, Posts: posts}, nil
}

// fetchOwner tries the group lookup first when the identifier may be a group and
// falls back to users.get, the same way the site resolves short addresses.
func (c *Client) fetchOwner(ctx context.Context, owner feed.Owner, parser *feed.Parser) (*feed.Metadata, error) {
	if owner.MaybeGroup() {
		data, err := c.Call(ctx, MethodGroupsGetByID, owner.GroupParams())
		switch {
		case err == nil:
			metadata, err := parser.ParseGroup(data, owner)
			if err != nil {
				return nil, err
			}
			if metadata != nil {
				return metadata, nil
			}
		case IsCode(err, ErrorCodeInvalidParameter):
		default:
			return nil, err
		}
	}

	data, err := c.Call(ctx, MethodUsersGet, owner.UserParams())
	if err != nil {
		return nil, err
	}

	metadata, err := parser.ParseUser(data, owner)
	if err != nil {
		return nil, err
	}
	if metadata == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownOwner, owner.Slug())
	}

	return metadata, nil
}
