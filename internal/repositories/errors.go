package repositories

import "errors"

var (
	// ErrNoUser is returned when a per-user operation is attempted without an
	// identified user. User-scoped keys cannot be derived without a UID.
	ErrNoUser = errors.New("no identified user")

	// ErrPostNotFound is returned when the target post is not in the feed.
	ErrPostNotFound = errors.New("post not found")

	// ErrStaticPost is returned when a mutation targets seed content.
	// Static posts are never persisted and never deletable.
	ErrStaticPost = errors.New("post is static")
)
