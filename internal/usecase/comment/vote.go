package comment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// Vote toggles one voter's like or dislike on an approved comment. Repeating
// an action is a no-op; only a changed vote moves the counters.
func (s *Service) Vote(ctx context.Context, voter string, uid string, action domain.VoteAction) (domain.VoteResult, error) {
	if !action.Valid() {
		return domain.VoteResult{}, domain.NewValidationError("action", "must be one of like, unlike, dislike, undislike")
	}
	if voter == "" {
		return domain.VoteResult{}, domain.ErrBadParamInput
	}

	c, err := s.commentRepo.GetByUID(ctx, uid, false)
	if err != nil {
		return domain.VoteResult{}, err
	}
	// only published comments can be voted on
	if !c.IsApproved() {
		return domain.VoteResult{}, domain.ErrNotFound
	}

	kind, add := action.Kind()
	var changed bool
	if add {
		changed, err = s.votes.Add(ctx, c.ID, kind, voter)
	} else {
		changed, err = s.votes.Remove(ctx, c.ID, kind, voter)
	}
	if err != nil {
		return domain.VoteResult{}, err
	}
	if !changed {
		return domain.VoteResult{LikeCount: c.LikeCount, DislikeCount: c.DislikeCount}, nil
	}

	delta := int64(1)
	if !add {
		delta = -1
	}
	var likeDelta, dislikeDelta int64
	if kind == domain.KindLike {
		likeDelta = delta
	} else {
		dislikeDelta = delta
	}

	if err := s.commentRepo.AddVoteCounts(ctx, c.ID, likeDelta, dislikeDelta); err != nil {
		s.undoVote(ctx, c.ID, kind, voter, add)
		return domain.VoteResult{}, err
	}

	updated, err := s.commentRepo.GetByID(ctx, c.ID, false)
	if err != nil {
		logrus.Warnf("failed to reload comment %d after vote: %v", c.ID, err)
		updated = c
		updated.LikeCount = max(updated.LikeCount+likeDelta, 0)
		updated.DislikeCount = max(updated.DislikeCount+dislikeDelta, 0)
	}
	return domain.VoteResult{
		LikeCount:    updated.LikeCount,
		DislikeCount: updated.DislikeCount,
		Changed:      true,
	}, nil
}

// undoVote reverts the voter set after the counter write failed.
func (s *Service) undoVote(ctx context.Context, commentID int64, kind domain.VoteKind, voter string, added bool) {
	var err error
	if added {
		_, err = s.votes.Remove(ctx, commentID, kind, voter)
	} else {
		_, err = s.votes.Add(ctx, commentID, kind, voter)
	}
	if err != nil {
		logrus.Errorf("failed to revert %s vote of %s on comment %d: %v", kind, voter, commentID, err)
	}
}
