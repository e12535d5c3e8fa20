package repository

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

const warmBatchSize = 500

// articleDirectory coordinates the bloom filter and the article store
type articleDirectory struct {
	db        domain.ArticleRepository
	bloom     domain.BloomRepository
	warmGroup singleflight.Group
}

var _ domain.ArticleDirectory = (*articleDirectory)(nil)

func NewArticleDirectory(db domain.ArticleRepository, bloom domain.BloomRepository) *articleDirectory {
	return &articleDirectory{
		db:    db,
		bloom: bloom,
	}
}

func (r *articleDirectory) Ensure(ctx context.Context, id int64, confirm bool) error {
	if id <= 0 {
		return domain.ErrNotFound
	}

	maybe, bloomErr := r.bloom.Exists(ctx, id)
	if bloomErr != nil {
		logrus.Warnf("bloom filter lookup for article %d failed: %v", id, bloomErr)
	}
	if bloomErr == nil && maybe && !confirm {
		return nil
	}

	// a negative answer only means the filter may not be warm yet
	if _, err := r.db.GetByID(ctx, id); err != nil {
		return err
	}
	if bloomErr == nil && !maybe {
		if err := r.bloom.Add(ctx, id); err != nil {
			logrus.Warnf("failed to add article %d to bloom filter: %v", id, err)
		}
	}
	return nil
}

func (r *articleDirectory) Warm(ctx context.Context) (int, error) {
	v, err, _ := r.warmGroup.Do("warm", func() (any, error) {
		var (
			cursor int64
			total  int
		)
		for {
			ids, err := r.db.FetchIDs(ctx, cursor, warmBatchSize)
			if err != nil {
				return total, err
			}
			if len(ids) == 0 {
				return total, nil
			}
			if err := r.bloom.BulkAdd(ctx, ids); err != nil {
				return total, err
			}
			total += len(ids)
			cursor = ids[len(ids)-1]
			if len(ids) < warmBatchSize {
				return total, nil
			}
		}
	})
	n, _ := v.(int)
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.Errorf("failed to warm article bloom filter after %d ids: %v", n, err)
	}
	return n, err
}
