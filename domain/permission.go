package domain

import "context"

// Permission is a node of the role/permission graph
type Permission struct {
	ID   int64
	Name string
	Slug string
}

// PermissionReader is the read model of the (user -> roles -> permissions) graph.
type PermissionReader interface {
	// PermissionsByUser returns every permission granted to the user through any role.
	PermissionsByUser(ctx context.Context, userID int64) ([]Permission, error)
}
