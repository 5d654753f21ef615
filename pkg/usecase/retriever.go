package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/service/enhance"
)

// Retriever embeds queries and ranks chunks of one collection. When an
// enhancer is configured the expanded query is embedded, not the
// original.
type Retriever struct {
	embedder   interfaces.Embedder
	index      interfaces.Index
	collection types.CollectionID
	enhancer   *enhance.Enhancer
}

type RetrieverOption func(*Retriever)

// WithEnhancer enables query expansion before embedding.
func WithEnhancer(enhancer *enhance.Enhancer) RetrieverOption {
	return func(r *Retriever) {
		r.enhancer = enhancer
	}
}

func NewRetriever(embedder interfaces.Embedder, index interfaces.Index, collection types.CollectionID, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		embedder:   embedder,
		index:      index,
		collection: collection,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to limit chunks ranked by distance to the query.
func (x *Retriever) Retrieve(ctx context.Context, query string, limit int) ([]*model.ScoredChunk, error) {
	embedQuery := query
	if x.enhancer != nil {
		embedQuery = x.enhancer.Enhance(query)
	}

	vectors, err := x.embedder.Embed(ctx, []string{embedQuery})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query", goerr.V("collection", x.collection))
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, goerr.New("query embedding is empty", goerr.V("collection", x.collection))
	}

	return x.index.Query(ctx, x.collection, vectors[0], limit)
}
