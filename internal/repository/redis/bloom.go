package redis

import (
	"context"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

const (
	KeyArticleBloom = "bloom:article:ids"
)

type redisBloomRepo struct {
	client       *redis.Client
	key          string
	BloomBitSize uint64
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

// NewRedisBloomRepo builds a bloom filter stored as a redis bitmap under key
func NewRedisBloomRepo(client *redis.Client, key string, bitSize uint64) *redisBloomRepo {
	return &redisBloomRepo{
		client:       client,
		key:          key,
		BloomBitSize: bitSize,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id int64) error {
	pipe := r.client.Pipeline()
	for _, offset := range r.offsets(id) {
		pipe.SetBit(ctx, r.key, int64(offset), 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := r.client.Pipeline()
	for _, offset := range r.offsets(id) {
		pipe.GetBit(ctx, r.key, int64(offset))
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		val, err := cmd.(*redis.IntCmd).Result()
		if err != nil {
			return false, err
		}
		if val == 0 {
			return false, nil
		}
	}

	return true, nil
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		for _, offset := range r.offsets(id) {
			pipe.SetBit(ctx, r.key, int64(offset), 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// offsets derives k=3 bit positions from crc32, fnv64 and a mix of both
func (r *redisBloomRepo) offsets(id int64) []uint64 {
	data := fmt.Appendf(nil, "%d", id)
	offsets := make([]uint64, 3)

	offsets[0] = uint64(crc32.ChecksumIEEE(data)) % r.BloomBitSize

	h := fnv.New64()
	h.Write(data)
	offsets[1] = h.Sum64() % r.BloomBitSize

	offsets[2] = (offsets[0] + offsets[1] + 0xABC) % r.BloomBitSize

	return offsets
}
