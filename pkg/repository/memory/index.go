package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
)

// Index is an in-memory vector index. Ranking is brute-force cosine
// distance over the whole collection, which is fine for dataset-sized
// collections and keeps tests hermetic.
type Index struct {
	mu          sync.RWMutex
	collections map[types.CollectionID][]*model.Chunk
}

var _ interfaces.Index = &Index{}

func New() *Index {
	return &Index{
		collections: make(map[types.CollectionID][]*model.Chunk),
	}
}

func (x *Index) Rebuild(ctx context.Context, collection types.CollectionID, chunks []*model.Chunk) error {
	if collection == "" {
		return goerr.New("collection is required")
	}

	stored := make([]*model.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk == nil {
			continue
		}
		if len(chunk.Embedding) == 0 {
			return goerr.New("chunk has no embedding",
				goerr.V("collection", collection),
				goerr.V("chunkID", chunk.ID),
			)
		}
		stored = append(stored, chunk.Clone())
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.collections[collection] = stored

	return nil
}

func (x *Index) Query(ctx context.Context, collection types.CollectionID, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is required", goerr.V("collection", collection))
	}
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	chunks, ok := x.collections[collection]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotInitialized, "unknown collection",
			goerr.V("collection", collection),
		)
	}

	results := make([]*model.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, &model.ScoredChunk{
			Chunk:    chunk.Clone(),
			Distance: cosineDistance(embedding, chunk.Embedding),
		})
	}

	// Stable sort keeps insertion order for equal distances.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (x *Index) Ready(ctx context.Context, collection types.CollectionID) (bool, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.collections[collection]
	return ok, nil
}

func (x *Index) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Zero-norm vectors are
// treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
