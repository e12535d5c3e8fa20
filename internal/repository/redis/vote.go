package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// KeyCommentVoters holds the set of voters of one kind for a comment
const KeyCommentVoters = "comment:%d:%s"

type voteRepo struct {
	client *redis.Client
}

var _ domain.VoteRepository = (*voteRepo)(nil)

func NewVoteRepo(client *redis.Client) *voteRepo {
	return &voteRepo{client}
}

func (r *voteRepo) Add(ctx context.Context, commentID int64, kind domain.VoteKind, voter string) (bool, error) {
	n, err := r.client.SAdd(ctx, voterKey(commentID, kind), voter).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *voteRepo) Remove(ctx context.Context, commentID int64, kind domain.VoteKind, voter string) (bool, error) {
	n, err := r.client.SRem(ctx, voterKey(commentID, kind), voter).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func voterKey(commentID int64, kind domain.VoteKind) string {
	return fmt.Sprintf(KeyCommentVoters, commentID, kind)
}
