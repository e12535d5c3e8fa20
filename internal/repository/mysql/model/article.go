package model

import (
	"time"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

// Article maps only the columns the comment engine touches
type Article struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Title        string    `gorm:"type:varchar(255);not null"`
	CommentCount int64     `gorm:"column:comment_count;not null;default:0"`
	UpdatedAt    time.Time `gorm:"type:datetime"`
	CreatedAt    time.Time `gorm:"type:datetime"`
}

func (Article) TableName() string {
	return "article"
}

func (m *Article) ToDomain() domain.Article {
	return domain.Article{
		ID:           m.ID,
		Title:        m.Title,
		CommentCount: m.CommentCount,
		UpdatedAt:    m.UpdatedAt,
		CreatedAt:    m.CreatedAt,
	}
}
