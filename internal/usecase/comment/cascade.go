package comment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// Delete soft-deletes the comment. Moderators sweep the whole subtree; authors
// may only remove their own comment while nothing live hangs below it.
func (s *Service) Delete(ctx context.Context, actor *domain.User, uid string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	moderator := s.capability.IsModerator(ctx, actor)

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.loadLive(ctx, uid)
		if err != nil {
			return err
		}
		if !moderator && !target.IsAuthoredBy(actor) {
			return domain.ErrForbidden
		}

		ids, err := s.collectSubtree(ctx, target.ID)
		if err != nil {
			return err
		}
		live, err := s.commentRepo.LockLive(ctx, ids)
		if err != nil {
			return err
		}
		if !moderator && (len(live) > 1 || target.ReplyCount > 0) {
			return domain.ErrHasReplies
		}

		var approved int64
		for i := range live {
			if live[i].IsApproved() {
				approved++
			}
		}
		if _, err := s.commentRepo.SoftDelete(ctx, ids, s.now()); err != nil {
			return err
		}
		if err := s.counter.BumpArticleCommentCount(ctx, target.ArticleID, -approved); err != nil {
			return err
		}
		if err := s.counter.BumpParentReplyCount(ctx, target.ParentID, -1); err != nil {
			return err
		}

		if len(live) > 1 {
			logrus.WithFields(logrus.Fields{
				"comment":  target.UID,
				"actor":    actor.ID,
				"rows":     len(live),
				"approved": approved,
			}).Info("comment subtree deleted")
		}
		return nil
	})
}

// collectSubtree returns root and every descendant id, breadth first. Trashed
// rows are walked too so individually restored grandchildren are still reached.
func (s *Service) collectSubtree(ctx context.Context, root int64) ([]int64, error) {
	ids := []int64{root}
	seen := map[int64]struct{}{root: {}}
	level := []int64{root}
	for len(level) > 0 {
		children, err := s.commentRepo.ChildIDs(ctx, level)
		if err != nil {
			return nil, err
		}
		next := make([]int64, 0, len(children))
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			next = append(next, id)
		}
		ids = append(ids, next...)
		level = next
	}
	return ids, nil
}

// Restore brings back a single soft-deleted comment. Its descendants stay trashed.
func (s *Service) Restore(ctx context.Context, actor *domain.User, uid string) (*domain.Comment, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	var res *domain.Comment
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		c, err := s.commentRepo.LockByUID(ctx, uid)
		if err != nil {
			return err
		}
		if !c.IsAuthoredBy(actor) && !s.capability.IsModerator(ctx, actor) {
			return domain.ErrForbidden
		}
		res = c
		if !c.IsDeleted() {
			return nil
		}

		if err := s.commentRepo.Restore(ctx, c.ID); err != nil {
			return err
		}
		if c.IsApproved() {
			if err := s.counter.BumpArticleCommentCount(ctx, c.ArticleID, 1); err != nil {
				return err
			}
		}
		if err := s.counter.BumpParentReplyCount(ctx, c.ParentID, 1); err != nil {
			return err
		}
		c.DeletedAt = nil
		c.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
