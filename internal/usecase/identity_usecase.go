package usecase

import (
	"context"

	"gatekeeper/internal/domain/entity"
)

// IdentityUsecase resolves bearer tokens into live identities for the
// transport-layer guard. Resolution always re-checks that the record still
// exists: a deleted account must not authenticate even with a token whose
// signature and expiry are still valid.
type IdentityUsecase interface {
	Resolve(ctx context.Context, bearerToken string) (*entity.Identity, error)
}
