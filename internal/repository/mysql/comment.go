package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	if err := conn(ctx, c.DB).Create(m).Error; err != nil {
		return err
	}
	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	comment.UpdatedAt = m.UpdatedAt
	return nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64, withTrashed bool) (*domain.Comment, error) {
	return c.first(c.scoped(ctx, withTrashed), "id = ?", id)
}

func (c *commentRepository) GetByUID(ctx context.Context, uid string, withTrashed bool) (*domain.Comment, error) {
	return c.first(c.scoped(ctx, withTrashed), "uid = ?", uid)
}

func (c *commentRepository) LockByUID(ctx context.Context, uid string) (*domain.Comment, error) {
	db := conn(ctx, c.DB).Unscoped().Clauses(clause.Locking{Strength: "UPDATE"})
	return c.first(db, "uid = ?", uid)
}

func (c *commentRepository) Fetch(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, error) {
	repository.NormalizeFilter(&f)

	q := c.filtered(ctx, f)
	if f.FeaturedFirst {
		q = q.Order("is_featured DESC")
	}
	if f.Sort == domain.SortOldest {
		q = q.Order("created_at ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var comments []model.Comment
	err := q.Offset(repository.Offset(f.Page, f.PerPage)).
		Limit(f.PerPage).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (c *commentRepository) Count(ctx context.Context, f domain.CommentFilter) (int64, error) {
	repository.NormalizeFilter(&f)
	var total int64
	err := c.filtered(ctx, f).Count(&total).Error
	return total, err
}

func (c *commentRepository) HasLiveChildren(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := conn(ctx, c.DB).Model(&model.Comment{}).
		Where("parent_id = ?", id).
		Count(&n).Error
	return n > 0, err
}

func (c *commentRepository) ChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := conn(ctx, c.DB).Unscoped().Model(&model.Comment{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (c *commentRepository) LockLive(ctx context.Context, ids []int64) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := conn(ctx, c.DB).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res, nil
}

func (c *commentRepository) SoftDelete(ctx context.Context, ids []int64, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := conn(ctx, c.DB).Unscoped().Model(&model.Comment{}).
		Where("id IN ?", ids).
		UpdateColumns(map[string]any{
			"deleted_at":  gorm.Expr("COALESCE(deleted_at, ?)", at),
			"reply_count": 0,
			"updated_at":  at,
		})
	return result.RowsAffected, result.Error
}

func (c *commentRepository) Restore(ctx context.Context, id int64) error {
	result := conn(ctx, c.DB).Unscoped().Model(&model.Comment{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumns(map[string]any{
			"deleted_at": nil,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) UpdateContent(ctx context.Context, id int64, in domain.UpdateCommentInput) error {
	return conn(ctx, c.DB).Model(&model.Comment{ID: id}).
		Select("content", "metadata", "updated_at").
		Updates(&model.Comment{Content: in.Content, Metadata: in.Metadata, UpdatedAt: time.Now()}).Error
}

// UpdateModeration writes the moderation field set of an already loaded comment.
func (c *commentRepository) UpdateModeration(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	return conn(ctx, c.DB).Unscoped().Model(&model.Comment{ID: comment.ID}).
		Select("status", "moderator_id", "moderated_at", "moderation_notes", "updated_at").
		Updates(m).Error
}

func (c *commentRepository) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return conn(ctx, c.DB).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("is_featured", featured).Error
}

func (c *commentRepository) AddReplyCount(ctx context.Context, id int64, delta int64) error {
	result := conn(ctx, c.DB).Unscoped().Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) AddVoteCounts(ctx context.Context, id int64, likeDelta, dislikeDelta int64) error {
	return conn(ctx, c.DB).Model(&model.Comment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"like_count":    gorm.Expr("GREATEST(like_count + ?, 0)", likeDelta),
			"dislike_count": gorm.Expr("GREATEST(dislike_count + ?, 0)", dislikeDelta),
		}).Error
}

const replyCountDriftSQL = `
SELECT c.id AS id, c.reply_count AS stored, COUNT(ch.id) AS actual
FROM comment c
LEFT JOIN comment ch ON ch.parent_id = c.id AND ch.deleted_at IS NULL
GROUP BY c.id, c.reply_count
HAVING stored <> actual
ORDER BY c.id
LIMIT ?`

func (c *commentRepository) ReplyCountDrift(ctx context.Context, limit int) ([]domain.CounterDrift, error) {
	var rows []driftRow
	if err := conn(ctx, c.DB).Raw(replyCountDriftSQL, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toDrifts(rows), nil
}

// MySQL refuses a subquery on the table being updated unless it is materialised
// as a derived table.
const recountRepliesSQL = `
UPDATE comment SET reply_count = (
	SELECT COUNT(*) FROM (
		SELECT id FROM comment WHERE parent_id = ? AND deleted_at IS NULL
	) AS live
)
WHERE id = ?`

func (c *commentRepository) RecountReplies(ctx context.Context, id int64) error {
	return conn(ctx, c.DB).Exec(recountRepliesSQL, id, id).Error
}

func (c *commentRepository) scoped(ctx context.Context, withTrashed bool) *gorm.DB {
	db := conn(ctx, c.DB)
	if withTrashed {
		db = db.Unscoped()
	}
	return db
}

func (c *commentRepository) first(db *gorm.DB, query string, arg any) (*domain.Comment, error) {
	var m model.Comment
	err := db.First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	res := m.ToDomain()
	return &res, nil
}

func (c *commentRepository) filtered(ctx context.Context, f domain.CommentFilter) *gorm.DB {
	q := conn(ctx, c.DB).Model(&model.Comment{})
	switch f.Trashed {
	case domain.WithTrashed:
		q = q.Unscoped()
	case domain.OnlyTrashed:
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	}

	if f.ArticleID != 0 {
		q = q.Where("article_id = ?", f.ArticleID)
	}
	if f.ParentID != nil {
		q = q.Where("parent_id = ?", *f.ParentID)
	} else if f.RootsOnly {
		q = q.Where("parent_id IS NULL")
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}

type driftRow struct {
	ID     int64
	Stored int64
	Actual int64
}

func toDrifts(rows []driftRow) []domain.CounterDrift {
	res := make([]domain.CounterDrift, len(rows))
	for i, r := range rows {
		res[i] = domain.CounterDrift{ID: r.ID, Stored: r.Stored, Actual: r.Actual}
	}
	return res
}
