package domain

import (
	"context"
	"time"
)

// Article is the part of an article the comment engine reads and maintains
type Article struct {
	ID           int64     // Unique identifier for the article
	Title        string    // Article title
	CommentCount int64     // Approved, non-deleted comments
	UpdatedAt    time.Time // Last update timestamp
	CreatedAt    time.Time // Creation timestamp
}

// ArticleRepository is the article service consumed by the comment engine.
// Article persistence itself lives elsewhere.
type ArticleRepository interface {
	// GetByID retrieves a single article by its ID.
	// Returns ErrNotFound if the article doesn't exist.
	GetByID(ctx context.Context, id int64) (Article, error)

	// AddCommentCount applies a signed delta to the article's comment_count.
	// Returns ErrNotFound if the article doesn't exist.
	AddCommentCount(ctx context.Context, id int64, delta int64) error

	// FetchIDs pages through article ids greater than cursor.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)

	// CommentCountDrift lists articles whose comment_count differs from their
	// approved, non-deleted comments.
	CommentCountDrift(ctx context.Context, limit int) ([]CounterDrift, error)

	// RecountComments recomputes comment_count from the comment rows in a
	// single statement.
	RecountComments(ctx context.Context, id int64) error
}

// ArticleDirectory answers "does this article exist" in front of the article store.
type ArticleDirectory interface {
	// Ensure returns ErrNotFound if the article doesn't exist. Unless confirm is
	// set, a positive answer from the filter is trusted without a store lookup.
	Ensure(ctx context.Context, id int64, confirm bool) error

	// Warm loads every article id into the filter and returns how many were added.
	Warm(ctx context.Context) (int, error)
}
