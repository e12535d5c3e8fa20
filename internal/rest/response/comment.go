package response

import (
	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

const DateTimeFormat = "2006-01-02 15:04:05"

type Author struct {
	UserID *int64 `json:"user_id"`
	Name   string `json:"name"`
	Guest  bool   `json:"guest"`
}

type Moderation struct {
	ModeratorID *int64 `json:"moderator_id"`
	ModeratedAt string `json:"moderated_at"`
	Notes       string `json:"notes,omitempty"`
}

type Comment struct {
	ID           string            `json:"id"`
	ArticleID    int64             `json:"article_id"`
	ParentID     string            `json:"parent_id,omitempty"`
	Author       Author            `json:"author"`
	Content      string            `json:"content"`
	ContentHTML  string            `json:"content_html"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Status       string            `json:"status"`
	ReplyCount   int64             `json:"reply_count"`
	LikeCount    int64             `json:"like_count"`
	DislikeCount int64             `json:"dislike_count"`
	IsFeatured   bool              `json:"is_featured"`
	Moderation   *Moderation       `json:"moderation,omitempty"`
	CreatedAt    string            `json:"created_at"`
	UpdatedAt    string            `json:"updated_at"`
	DeletedAt    *string           `json:"deleted_at,omitempty"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	res := Comment{
		ID:        c.UID,
		ArticleID: c.ArticleID,
		ParentID:  c.ParentUID,
		Author: Author{
			UserID: c.UserID,
			Name:   c.AuthorName,
			Guest:  c.UserID == nil,
		},
		Content:      c.Content,
		ContentHTML:  RenderContent(c.Content),
		Metadata:     c.Metadata,
		Status:       string(c.Status),
		ReplyCount:   c.ReplyCount,
		LikeCount:    c.LikeCount,
		DislikeCount: c.DislikeCount,
		IsFeatured:   c.IsFeatured,
		CreatedAt:    c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:    c.UpdatedAt.Format(DateTimeFormat),
	}
	if c.ModeratedAt != nil {
		res.Moderation = &Moderation{
			ModeratorID: c.ModeratorID,
			ModeratedAt: c.ModeratedAt.Format(DateTimeFormat),
			Notes:       c.ModerationNotes,
		}
	}
	if c.DeletedAt != nil {
		deletedAt := c.DeletedAt.Format(DateTimeFormat)
		res.DeletedAt = &deletedAt
	}
	return res
}

type Meta struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

type CommentPage struct {
	Data []Comment `json:"data"`
	Meta Meta      `json:"meta"`
}

func NewCommentPageFromDomain(p domain.CommentPage) CommentPage {
	data := make([]Comment, len(p.Items))
	for i := range p.Items {
		data[i] = NewCommentFromDomain(&p.Items[i])
	}

	lastPage := 1
	if p.PerPage > 0 && p.Total > 0 {
		lastPage = int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return CommentPage{
		Data: data,
		Meta: Meta{
			Page:     p.Page,
			PerPage:  p.PerPage,
			Total:    p.Total,
			LastPage: lastPage,
		},
	}
}

type VoteResult struct {
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
	Changed      bool  `json:"changed"`
}

func NewVoteResultFromDomain(v domain.VoteResult) VoteResult {
	return VoteResult{
		LikeCount:    v.LikeCount,
		DislikeCount: v.DislikeCount,
		Changed:      v.Changed,
	}
}
