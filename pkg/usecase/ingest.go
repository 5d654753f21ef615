package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// embedBatchSize is how many chunk contents go into one embedding
// request. Batches run sequentially so chunk order is preserved.
const embedBatchSize = 100

func embedChunks(ctx context.Context, embedder interfaces.Embedder, chunks []*model.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return goerr.Wrap(err, "failed to embed chunk batch",
				goerr.V("offset", start),
				goerr.V("size", len(batch)),
			)
		}
		if len(vectors) != len(batch) {
			return goerr.New("embedding batch size mismatch",
				goerr.V("want", len(batch)),
				goerr.V("got", len(vectors)),
			)
		}

		for i, vector := range vectors {
			batch[i].Embedding = vector
		}
	}
	return nil
}

// buildCollection embeds the chunks and rebuilds the target collection
// with them.
func buildCollection(ctx context.Context, embedder interfaces.Embedder, index interfaces.Index, collection types.CollectionID, chunks []*model.Chunk) error {
	runID := uuid.New().String()
	logger := logging.From(ctx)
	logger.Info("rebuilding collection",
		"collection", collection,
		"chunks", len(chunks),
		"run_id", runID,
	)

	if err := embedChunks(ctx, embedder, chunks); err != nil {
		return goerr.Wrap(err, "failed to embed chunks", goerr.V("collection", collection))
	}
	if err := index.Rebuild(ctx, collection, chunks); err != nil {
		return goerr.Wrap(err, "failed to rebuild collection", goerr.V("collection", collection))
	}

	logger.Info("collection rebuilt", "collection", collection, "run_id", runID)
	return nil
}
