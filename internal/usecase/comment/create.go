package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/segmentio/ksuid"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

func (s *Service) Create(ctx context.Context, actor *domain.User, in domain.CreateCommentInput) (*domain.Comment, error) {
	c := &domain.Comment{
		UID:       ksuid.New().String(),
		ArticleID: in.ArticleID,
		Content:   strings.TrimSpace(in.Content),
		Metadata:  in.Metadata,
		Status:    domain.StatusPending,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	}
	if c.Content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}
	if err := s.fillAuthor(c, actor, in); err != nil {
		return nil, err
	}
	if s.capability.IsModerator(ctx, actor) {
		c.Status = domain.StatusApproved
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if in.ParentUID != "" {
			if err := s.attachToParent(ctx, c, in.ParentUID); err != nil {
				return err
			}
		} else if err := s.articles.Ensure(ctx, c.ArticleID, true); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("article_id", "does not exist")
			}
			return err
		}

		if err := s.commentRepo.Store(ctx, c); err != nil {
			return err
		}
		if c.IsApproved() {
			if err := s.counter.BumpArticleCommentCount(ctx, c.ArticleID, 1); err != nil {
				return err
			}
		}
		return s.counter.BumpParentReplyCount(ctx, c.ParentID, 1)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// fillAuthor copies identity from the account, or from the guest fields when
// nobody is signed in.
func (s *Service) fillAuthor(c *domain.Comment, actor *domain.User, in domain.CreateCommentInput) error {
	if actor != nil {
		id := actor.ID
		c.UserID = &id
		c.AuthorName = actor.Name
		if c.AuthorName == "" {
			c.AuthorName = actor.Username
		}
		c.AuthorEmail = actor.Email
		return nil
	}

	if !s.allowGuests {
		return domain.ErrUnauthenticated
	}
	c.AuthorName = strings.TrimSpace(in.GuestName)
	c.AuthorEmail = strings.TrimSpace(in.GuestEmail)

	verr := &domain.ValidationError{Fields: map[string]string{}}
	if c.AuthorName == "" {
		verr.Fields["guest_name"] = "is required for guest comments"
	}
	if c.AuthorEmail == "" {
		verr.Fields["guest_email"] = "is required for guest comments"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// attachToParent enforces the reply rules against the locked parent and pins
// the reply to the parent's article.
func (s *Service) attachToParent(ctx context.Context, c *domain.Comment, parentUID string) error {
	// held until commit so a concurrent reject or cascade cannot slip in
	parent, err := s.commentRepo.LockByUID(ctx, parentUID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidReplyTarget
	}
	if err != nil {
		return err
	}
	if parent.IsDeleted() {
		return domain.ErrInvalidReplyTarget
	}
	if !parent.IsApproved() {
		return domain.ErrParentNotApproved
	}
	if err := s.checkDepth(ctx, parent); err != nil {
		return err
	}

	parentID := parent.ID
	c.ParentID = &parentID
	c.ParentUID = parent.UID
	c.ArticleID = parent.ArticleID
	return nil
}

// checkDepth walks at most MaxThreadDepth parent pointers up from parent.
func (s *Service) checkDepth(ctx context.Context, parent *domain.Comment) error {
	depth := 1
	cur := parent
	for cur.ParentID != nil {
		depth++
		if depth >= domain.MaxThreadDepth {
			return domain.ErrTooDeep
		}
		next, err := s.commentRepo.GetByID(ctx, *cur.ParentID, true)
		if errors.Is(err, domain.ErrNotFound) {
			// dangling pointer, treat the ancestor as a root
			return nil
		}
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}
