package domain

import "context"

// Transactor runs fn as one atomic unit of work. Repositories called with the
// context handed to fn join that unit of work; any error rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
