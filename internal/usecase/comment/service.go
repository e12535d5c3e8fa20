package comment

import (
	"context"
	"time"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

type Service struct {
	commentRepo domain.CommentRepository
	articles    domain.ArticleDirectory
	votes       domain.VoteRepository
	transactor  domain.Transactor
	capability  domain.CapabilityResolver
	counter     *Counter

	allowGuests bool
	now         func() time.Time
}

var _ domain.CommentUsecase = (*Service)(nil)

// NewService will create a new comment service object
func NewService(
	c domain.CommentRepository,
	a domain.ArticleRepository,
	dir domain.ArticleDirectory,
	v domain.VoteRepository,
	t domain.Transactor,
	cr domain.CapabilityResolver,
	allowGuests bool,
) *Service {
	return &Service{
		commentRepo: c,
		articles:    dir,
		votes:       v,
		transactor:  t,
		capability:  cr,
		counter:     NewCounter(c, a),
		allowGuests: allowGuests,
		now:         time.Now,
	}
}

// requireModerator fails with ErrUnauthenticated for anonymous callers and
// ErrForbidden for everyone the resolver turns down.
func (s *Service) requireModerator(ctx context.Context, actor *domain.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !s.capability.IsModerator(ctx, actor) {
		return domain.ErrForbidden
	}
	return nil
}

// loadLive locks the comment for the rest of the unit of work, hiding trashed rows.
func (s *Service) loadLive(ctx context.Context, uid string) (*domain.Comment, error) {
	c, err := s.commentRepo.LockByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
