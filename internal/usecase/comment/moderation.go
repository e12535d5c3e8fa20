package comment

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

func (s *Service) Approve(ctx context.Context, actor *domain.User, uid string, notes string) (*domain.Comment, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, uid, domain.StatusApproved, notes)
}

func (s *Service) Reject(ctx context.Context, actor *domain.User, uid string, notes string) (*domain.Comment, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(notes) == "" {
		return nil, domain.NewValidationError("notes", "is required when rejecting a comment")
	}
	return s.transition(ctx, actor, uid, domain.StatusRejected, notes)
}

func (s *Service) MarkSpam(ctx context.Context, actor *domain.User, uid string, notes string) (*domain.Comment, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, uid, domain.StatusSpam, notes)
}

// transition moves the comment to status `to` and applies the article counter
// delta. The previous status is read under the row lock, before anything is
// written, so repeating a transition never counts twice.
func (s *Service) transition(ctx context.Context, actor *domain.User, uid string, to domain.CommentStatus, notes string) (*domain.Comment, error) {
	var res *domain.Comment
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.loadLive(ctx, uid)
		if err != nil {
			return err
		}
		from := c.Status
		if !from.CanTransitionTo(to) {
			return domain.NewValidationError("status", "cannot move from "+string(from)+" to "+string(to))
		}

		now := s.now()
		moderatorID := actor.ID
		c.Status = to
		c.ModeratorID = &moderatorID
		c.ModeratedAt = &now
		c.ModerationNotes = strings.TrimSpace(notes)
		c.UpdatedAt = now
		if err := s.commentRepo.UpdateModeration(ctx, c); err != nil {
			return err
		}
		if err := s.counter.BumpArticleCommentCount(ctx, c.ArticleID, approvedDelta(from, to)); err != nil {
			return err
		}
		res = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"comment":   res.UID,
		"moderator": actor.ID,
		"status":    res.Status,
	}).Info("comment moderated")
	return res, nil
}

func (s *Service) SetFeatured(ctx context.Context, actor *domain.User, uid string, featured bool) (*domain.Comment, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return nil, err
	}
	c, err := s.commentRepo.GetByUID(ctx, uid, false)
	if err != nil {
		return nil, err
	}
	if c.IsFeatured == featured {
		return c, nil
	}
	if err := s.commentRepo.SetFeatured(ctx, c.ID, featured); err != nil {
		return nil, err
	}
	c.IsFeatured = featured
	return c, nil
}
