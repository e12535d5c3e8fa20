package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
)

func TestPageVerify(t *testing.T) {
	tests := []struct {
		name                  string
		page, perPage         int
		wantPage, wantPerPage int
	}{
		{"defaults", 0, 0, 1, DefaultPerPage},
		{"negative", -3, -1, 1, DefaultPerPage},
		{"too large", 4, 1000, 4, MaxPerPage},
		{"kept", 2, 25, 2, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := tt.page, tt.perPage
			PageVerify(&page, &perPage)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 40, Offset(3, 20))
}

func TestNormalizeFilter(t *testing.T) {
	f := domain.CommentFilter{Sort: "sideways"}
	NormalizeFilter(&f)
	assert.Equal(t, domain.SortNewest, f.Sort)
	assert.Equal(t, domain.WithoutTrashed, f.Trashed)
	assert.Equal(t, 1, f.Page)

	f = domain.CommentFilter{Sort: domain.SortOldest, Trashed: domain.OnlyTrashed}
	NormalizeFilter(&f)
	assert.Equal(t, domain.SortOldest, f.Sort)
	assert.Equal(t, domain.OnlyTrashed, f.Trashed)
}
