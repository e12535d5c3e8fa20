package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

type Comment struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	UID       string `gorm:"column:uid;type:char(27);uniqueIndex;not null"`
	ArticleID int64  `gorm:"column:article_id;not null;index:idx_comment_article_status"`
	ParentID  *int64 `gorm:"column:parent_id;index"`
	ParentUID string `gorm:"column:parent_uid;type:char(27);default:''"`

	UserID      *int64 `gorm:"column:user_id;index"`
	AuthorName  string `gorm:"column:author_name;type:varchar(100);not null"`
	AuthorEmail string `gorm:"column:author_email;type:varchar(255);not null"`

	Content  string            `gorm:"type:text;not null"`
	Metadata map[string]string `gorm:"type:json;serializer:json"`

	Status       string `gorm:"type:varchar(16);not null;default:'pending';index:idx_comment_article_status"`
	ReplyCount   int64  `gorm:"column:reply_count;not null;default:0"`
	LikeCount    int64  `gorm:"column:like_count;not null;default:0"`
	DislikeCount int64  `gorm:"column:dislike_count;not null;default:0"`
	IsFeatured   bool   `gorm:"column:is_featured;not null;default:false"`

	ModeratorID     *int64     `gorm:"column:moderator_id"`
	ModeratedAt     *time.Time `gorm:"column:moderated_at;type:datetime"`
	ModerationNotes string     `gorm:"column:moderation_notes;type:text"`

	IPAddress string `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent string `gorm:"column:user_agent;type:varchar(512)"`

	CreatedAt time.Time      `gorm:"type:datetime"`
	UpdatedAt time.Time      `gorm:"type:datetime"`
	DeletedAt gorm.DeletedAt `gorm:"type:datetime;index"`
}

func (Comment) TableName() string {
	return "comment"
}

func NewCommentFromDomain(c *domain.Comment) *Comment {
	m := &Comment{
		ID:              c.ID,
		UID:             c.UID,
		ArticleID:       c.ArticleID,
		ParentID:        c.ParentID,
		ParentUID:       c.ParentUID,
		UserID:          c.UserID,
		AuthorName:      c.AuthorName,
		AuthorEmail:     c.AuthorEmail,
		Content:         c.Content,
		Metadata:        c.Metadata,
		Status:          string(c.Status),
		ReplyCount:      c.ReplyCount,
		LikeCount:       c.LikeCount,
		DislikeCount:    c.DislikeCount,
		IsFeatured:      c.IsFeatured,
		ModeratorID:     c.ModeratorID,
		ModeratedAt:     c.ModeratedAt,
		ModerationNotes: c.ModerationNotes,
		IPAddress:       c.IPAddress,
		UserAgent:       c.UserAgent,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if c.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	}
	return m
}

func (m *Comment) ToDomain() domain.Comment {
	c := domain.Comment{
		ID:              m.ID,
		UID:             m.UID,
		ArticleID:       m.ArticleID,
		ParentID:        m.ParentID,
		ParentUID:       m.ParentUID,
		UserID:          m.UserID,
		AuthorName:      m.AuthorName,
		AuthorEmail:     m.AuthorEmail,
		Content:         m.Content,
		Metadata:        m.Metadata,
		Status:          domain.CommentStatus(m.Status),
		ReplyCount:      m.ReplyCount,
		LikeCount:       m.LikeCount,
		DislikeCount:    m.DislikeCount,
		IsFeatured:      m.IsFeatured,
		ModeratorID:     m.ModeratorID,
		ModeratedAt:     m.ModeratedAt,
		ModerationNotes: m.ModerationNotes,
		IPAddress:       m.IPAddress,
		UserAgent:       m.UserAgent,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		c.DeletedAt = &t
	}
	return c
}
