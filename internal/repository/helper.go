package repository

import "github.com/Guyuepp/Go-Comment-Moderation/domain"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageVerify clamps page and perPage into their valid ranges.
func PageVerify(page, perPage *int) {
	if *page < 1 {
		*page = 1
	}
	if *perPage < 1 {
		*perPage = DefaultPerPage
	}
	if *perPage > MaxPerPage {
		*perPage = MaxPerPage
	}
}

// Offset of the first row of the page
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

// NormalizeFilter fills defaults into a listing filter.
func NormalizeFilter(f *domain.CommentFilter) {
	PageVerify(&f.Page, &f.PerPage)
	if f.Trashed == "" {
		f.Trashed = domain.WithoutTrashed
	}
	if f.Sort != domain.SortOldest {
		f.Sort = domain.SortNewest
	}
}
