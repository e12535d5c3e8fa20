package comment

import (
	"context"
	"strings"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// UpdateContent lets the author rewrite a comment nobody has reviewed or
// answered yet.
func (s *Service) UpdateContent(ctx context.Context, actor *domain.User, uid string, in domain.UpdateCommentInput) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}

	var res *domain.Comment
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadLive(ctx, uid)
		if err != nil {
			return err
		}
		if !c.IsAuthoredBy(actor) {
			return domain.ErrForbidden
		}
		if c.Status != domain.StatusPending || c.ReplyCount > 0 {
			return domain.ErrEditLocked
		}
		// reply_count and the child rows must agree, check both
		hasChildren, err := s.commentRepo.HasLiveChildren(ctx, c.ID)
		if err != nil {
			return err
		}
		if hasChildren {
			return domain.ErrEditLocked
		}

		if in.Metadata == nil {
			in.Metadata = c.Metadata
		}
		if err := s.commentRepo.UpdateContent(ctx, c.ID, in); err != nil {
			return err
		}
		c.Content = in.Content
		c.Metadata = in.Metadata
		c.UpdatedAt = s.now()
		res = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
