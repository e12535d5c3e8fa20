package comment

import (
	"context"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// Counter keeps reply_count and article comment_count in step with the events
// that move them. Callers invoke it inside the unit of work of the event, once
// per event, with the aggregated delta.
type Counter struct {
	comments domain.CommentRepository
	articles domain.ArticleRepository
}

func NewCounter(c domain.CommentRepository, a domain.ArticleRepository) *Counter {
	return &Counter{
		comments: c,
		articles: a,
	}
}

func (c *Counter) BumpArticleCommentCount(ctx context.Context, articleID int64, delta int64) error {
	if delta == 0 {
		return nil
	}
	return c.articles.AddCommentCount(ctx, articleID, delta)
}

// BumpParentReplyCount touches the immediate parent only; nil parents are roots.
func (c *Counter) BumpParentReplyCount(ctx context.Context, parentID *int64, delta int64) error {
	if parentID == nil || delta == 0 {
		return nil
	}
	return c.comments.AddReplyCount(ctx, *parentID, delta)
}

// approvedDelta is the comment_count change of moving a comment between two statuses.
func approvedDelta(from, to domain.CommentStatus) int64 {
	var d int64
	if to == domain.StatusApproved {
		d++
	}
	if from == domain.StatusApproved {
		d--
	}
	return d
}
