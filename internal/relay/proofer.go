package relay

import (
	"context"

	"github.com/blockvault/storage-proof-relayer/internal/proof"
)

// Proofer fetches storage proofs from an upstream node
type Proofer interface {
	GetStorageProof(ctx context.Context, query proof.StorageQuery) (*proof.StorageProof, error)
}
