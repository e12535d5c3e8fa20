package request

import (
	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

type CreateComment struct {
	ArticleID  int64             `json:"article_id" binding:"required_without=ParentID,gte=0"`
	ParentID   string            `json:"parent_id" binding:"omitempty,max=27"`
	Content    string            `json:"content" binding:"required,max=5000"`
	GuestName  string            `json:"guest_name" binding:"omitempty,max=100"`
	GuestEmail string            `json:"guest_email" binding:"omitempty,email,max=255"`
	Metadata   map[string]string `json:"metadata" binding:"omitempty,max=20"`
}

// ToDomain: Request -> Domain
func (r *CreateComment) ToDomain() domain.CreateCommentInput {
	return domain.CreateCommentInput{
		ArticleID:  r.ArticleID,
		ParentUID:  r.ParentID,
		Content:    r.Content,
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		Metadata:   r.Metadata,
	}
}

type UpdateComment struct {
	Content  string            `json:"content" binding:"required,max=5000"`
	Metadata map[string]string `json:"metadata" binding:"omitempty,max=20"`
}

func (r *UpdateComment) ToDomain() domain.UpdateCommentInput {
	return domain.UpdateCommentInput{
		Content:  r.Content,
		Metadata: r.Metadata,
	}
}

// Moderate is the body of approve / reject / spam. Reject additionally needs notes.
type Moderate struct {
	Notes string `json:"notes" binding:"max=1000"`
}

type Feature struct {
	Featured *bool `json:"featured" binding:"required"`
}

type Vote struct {
	Action string `json:"action" binding:"required,oneof=like unlike dislike undislike"`
}

type ListComments struct {
	ArticleID     int64  `form:"article_id" binding:"omitempty,gt=0"`
	Status        string `form:"status" binding:"omitempty,oneof=pending approved rejected spam"`
	Trashed       string `form:"trashed" binding:"omitempty,oneof=without with only"`
	RootsOnly     bool   `form:"roots_only"`
	Sort          string `form:"sort" binding:"omitempty,oneof=newest oldest"`
	FeaturedFirst bool   `form:"featured_first"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

func (r *ListComments) ToFilter() domain.CommentFilter {
	return domain.CommentFilter{
		ArticleID:     r.ArticleID,
		RootsOnly:     r.RootsOnly,
		Status:        domain.CommentStatus(r.Status),
		Trashed:       domain.TrashedMode(r.Trashed),
		Sort:          domain.CommentSort(r.Sort),
		FeaturedFirst: r.FeaturedFirst,
		Page:          r.Page,
		PerPage:       r.PerPage,
	}
}

type Pagination struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
