package repository

import (
	"context"
)

// RepositoryFactory creates repository instances bound to a single transaction.
type RepositoryFactory interface {
	UserRepo() UserRepository
}

// TransactionManager runs a unit of work inside one store transaction.
// The read-then-write sequences of the reset flow (find by email or token,
// mutate, save) go through Execute so a concurrent clear of a consumed token
// cannot be lost to a stale read.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
