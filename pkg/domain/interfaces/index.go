package interfaces

import (
	"context"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
)

// Index is a vector collection store. Rebuild replaces the whole
// collection; partial updates are not supported.
type Index interface {
	// Rebuild drops the collection if it exists and stores the given
	// chunks as its new content. Chunk order is preserved for ranking
	// tie-breaks.
	Rebuild(ctx context.Context, collection types.CollectionID, chunks []*model.Chunk) error

	// Query returns up to limit chunks ranked by ascending cosine
	// distance to the embedding. Returns types.ErrNotInitialized when
	// the collection does not exist.
	Query(ctx context.Context, collection types.CollectionID, embedding []float32, limit int) ([]*model.ScoredChunk, error)

	// Ready reports whether the collection exists.
	Ready(ctx context.Context, collection types.CollectionID) (bool, error)

	Close() error
}
