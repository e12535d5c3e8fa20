package domain

import "context"

type VoteAction string

const (
	VoteLike      VoteAction = "like"
	VoteUnlike    VoteAction = "unlike"
	VoteDislike   VoteAction = "dislike"
	VoteUndislike VoteAction = "undislike"
)

// VoteKind is the counter a vote action moves
type VoteKind string

const (
	KindLike    VoteKind = "likes"
	KindDislike VoteKind = "dislikes"
)

func (a VoteAction) Valid() bool {
	switch a {
	case VoteLike, VoteUnlike, VoteDislike, VoteUndislike:
		return true
	}
	return false
}

// Kind returns the counter the action applies to and whether it adds or removes a vote.
func (a VoteAction) Kind() (kind VoteKind, add bool) {
	switch a {
	case VoteLike:
		return KindLike, true
	case VoteUnlike:
		return KindLike, false
	case VoteDislike:
		return KindDislike, true
	default:
		return KindDislike, false
	}
}

func (a VoteAction) String() string {
	return string(a)
}

// VoteResult is the outcome of a vote toggle
type VoteResult struct {
	LikeCount    int64
	DislikeCount int64
	Changed      bool
}

// VoteRepository remembers who voted what so toggles stay idempotent per voter.
type VoteRepository interface {
	// Add records the voter's vote; false if it was already recorded.
	Add(ctx context.Context, commentID int64, kind VoteKind, voter string) (bool, error)

	// Remove forgets the voter's vote; false if there was none.
	Remove(ctx context.Context, commentID int64, kind VoteKind, voter string) (bool, error)
}
