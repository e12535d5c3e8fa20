package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository/mysql/model"
)

type articleRepository struct {
	DB *gorm.DB
}

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository creates the article side of the comment engine
func NewArticleRepository(db *gorm.DB) *articleRepository {
	return &articleRepository{db}
}

func (m *articleRepository) GetByID(ctx context.Context, id int64) (res domain.Article, err error) {
	var article model.Article
	err = conn(ctx, m.DB).First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, domain.ErrNotFound
	}
	if err != nil {
		return res, err
	}
	res = article.ToDomain()
	return
}

func (m *articleRepository) AddCommentCount(ctx context.Context, id int64, delta int64) error {
	result := conn(ctx, m.DB).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *articleRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = conn(ctx, m.DB).
		Model(&model.Article{}).
		Select("id").
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Find(&ids).Error
	return
}

const commentCountDriftSQL = `
SELECT a.id AS id, a.comment_count AS stored, COUNT(c.id) AS actual
FROM article a
LEFT JOIN comment c ON c.article_id = a.id AND c.status = 'approved' AND c.deleted_at IS NULL
GROUP BY a.id, a.comment_count
HAVING stored <> actual
ORDER BY a.id
LIMIT ?`

func (m *articleRepository) CommentCountDrift(ctx context.Context, limit int) ([]domain.CounterDrift, error) {
	var rows []driftRow
	if err := conn(ctx, m.DB).Raw(commentCountDriftSQL, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toDrifts(rows), nil
}

const recountCommentsSQL = `
UPDATE article SET comment_count = (
	SELECT COUNT(*) FROM comment c
	WHERE c.article_id = article.id AND c.status = 'approved' AND c.deleted_at IS NULL
)
WHERE id = ?`

func (m *articleRepository) RecountComments(ctx context.Context, id int64) error {
	return conn(ctx, m.DB).Exec(recountCommentsSQL, id).Error
}
