package model

import "github.com/Guyuepp/Go-Comment-Moderation/domain"

// Role, Permission and the two join tables form the read-only permission graph.
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Permission) TableName() string {
	return "permissions"
}

func (m *Permission) ToDomain() domain.Permission {
	return domain.Permission{
		ID:   m.ID,
		Name: m.Name,
		Slug: m.Slug,
	}
}

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
