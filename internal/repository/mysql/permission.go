package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository/mysql/model"
)

type permissionRepository struct {
	DB *gorm.DB
}

var _ domain.PermissionReader = (*permissionRepository)(nil)

func NewPermissionRepository(db *gorm.DB) *permissionRepository {
	return &permissionRepository{DB: db}
}

// PermissionsByUser walks user_roles -> role_permissions -> permissions
func (r *permissionRepository) PermissionsByUser(ctx context.Context, userID int64) ([]domain.Permission, error) {
	var perms []model.Permission
	err := conn(ctx, r.DB).Model(&model.Permission{}).
		Distinct("permissions.id", "permissions.name", "permissions.slug").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Find(&perms).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Permission, len(perms))
	for i := range perms {
		res[i] = perms[i].ToDomain()
	}
	return res, nil
}
