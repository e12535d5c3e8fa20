package comment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository"
)

// List returns one page of comments. Only moderators may look past approved,
// live comments.
func (s *Service) List(ctx context.Context, actor *domain.User, f domain.CommentFilter) (domain.CommentPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return domain.CommentPage{}, domain.NewValidationError("status", "must be one of pending, approved, rejected, spam")
	}
	switch f.Trashed {
	case "", domain.WithoutTrashed, domain.WithTrashed, domain.OnlyTrashed:
	default:
		return domain.CommentPage{}, domain.NewValidationError("trashed", "must be one of without, with, only")
	}

	if !s.capability.IsModerator(ctx, actor) {
		f.Status = domain.StatusApproved
		f.Trashed = domain.WithoutTrashed
	}
	if f.ArticleID != 0 {
		if err := s.articles.Ensure(ctx, f.ArticleID, false); err != nil {
			return domain.CommentPage{}, err
		}
	}
	return s.page(ctx, f)
}

// ListReplies pages through the direct replies of a comment visible to actor,
// oldest first.
func (s *Service) ListReplies(ctx context.Context, actor *domain.User, uid string, page, perPage int) (domain.CommentPage, error) {
	parent, err := s.Show(ctx, actor, uid)
	if err != nil {
		return domain.CommentPage{}, err
	}

	parentID := parent.ID
	f := domain.CommentFilter{
		ParentID: &parentID,
		Sort:     domain.SortOldest,
		Page:     page,
		PerPage:  perPage,
	}
	if !s.capability.IsModerator(ctx, actor) {
		f.Status = domain.StatusApproved
	}
	return s.page(ctx, f)
}

// Show returns a comment if actor may see it. Approved live comments are
// public, unapproved ones belong to their author and moderators, trashed ones
// to moderators.
func (s *Service) Show(ctx context.Context, actor *domain.User, uid string) (*domain.Comment, error) {
	c, err := s.commentRepo.GetByUID(ctx, uid, true)
	if err != nil {
		return nil, err
	}
	if c.IsApproved() && !c.IsDeleted() {
		return c, nil
	}
	if !c.IsDeleted() && c.IsAuthoredBy(actor) {
		return c, nil
	}
	if s.capability.IsModerator(ctx, actor) {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *Service) page(ctx context.Context, f domain.CommentFilter) (domain.CommentPage, error) {
	repository.NormalizeFilter(&f)

	var (
		items []domain.Comment
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.commentRepo.Fetch(gctx, f)
		return
	})
	g.Go(func() (err error) {
		total, err = s.commentRepo.Count(gctx, f)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.CommentPage{}, err
	}

	if items == nil {
		items = []domain.Comment{}
	}
	return domain.CommentPage{
		Items:   items,
		Total:   total,
		Page:    f.Page,
		PerPage: f.PerPage,
	}, nil
}
