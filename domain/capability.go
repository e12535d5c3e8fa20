package domain

import "context"

// CapabilityResolver decides whether an actor may moderate comments.
// It never fails: a nil actor or any lookup error resolves to false.
type CapabilityResolver interface {
	IsModerator(ctx context.Context, actor *User) bool
}
