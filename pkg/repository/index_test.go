package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/repository/firestore"
	"github.com/campus-lab/minerva/pkg/repository/memory"
)

func TestMemoryIndex(t *testing.T) {
	runIndexTest(t, func(t *testing.T) interfaces.Index {
		return memory.New()
	})
}

func TestFirestoreIndex(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}

	runIndexTest(t, func(t *testing.T) interfaces.Index {
		idx, err := firestore.New(context.Background(), projectID)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, idx.Close())
		})
		return idx
	})
}

func testChunk(id string, embedding []float32) *model.Chunk {
	return &model.Chunk{
		ID:      model.ChunkID(id),
		Content: "content of " + id,
		Metadata: map[string]string{
			"source": "syllabus",
		},
		Type:      types.ChunkTypeOverview,
		Embedding: embedding,
	}
}

func runIndexTest(t *testing.T, newIndex func(t *testing.T) interfaces.Index) {
	ctx := context.Background()

	t.Run("QueryBeforeRebuild", func(t *testing.T) {
		idx := newIndex(t)
		collection := types.CollectionID("test_missing")

		_, err := idx.Query(ctx, collection, []float32{1, 0, 0}, 3)
		gt.Error(t, err).Is(types.ErrNotInitialized)

		ready, err := idx.Ready(ctx, collection)
		gt.NoError(t, err)
		gt.Bool(t, ready).False()
	})

	t.Run("RebuildAndQuery", func(t *testing.T) {
		idx := newIndex(t)
		collection := types.CollectionID("test_ranked")

		chunks := []*model.Chunk{
			testChunk("chunk_0", []float32{1, 0, 0}),
			testChunk("chunk_1", []float32{0, 1, 0}),
			testChunk("chunk_2", []float32{0.9, 0.1, 0}),
		}
		gt.NoError(t, idx.Rebuild(ctx, collection, chunks)).Required()

		ready, err := idx.Ready(ctx, collection)
		gt.NoError(t, err)
		gt.Bool(t, ready).True()

		results, err := idx.Query(ctx, collection, []float32{1, 0, 0}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(2).Required()

		gt.Value(t, results[0].Chunk.ID).Equal("chunk_0")
		gt.Value(t, results[1].Chunk.ID).Equal("chunk_2")
		gt.Number(t, results[0].Distance).LessOrEqual(results[1].Distance)
		gt.Value(t, results[0].Chunk.Metadata["source"]).Equal("syllabus")
	})

	t.Run("LimitBeyondCollectionSize", func(t *testing.T) {
		idx := newIndex(t)
		collection := types.CollectionID("test_small")

		chunks := []*model.Chunk{
			testChunk("chunk_0", []float32{1, 0, 0}),
			testChunk("chunk_1", []float32{0, 1, 0}),
		}
		gt.NoError(t, idx.Rebuild(ctx, collection, chunks)).Required()

		results, err := idx.Query(ctx, collection, []float32{1, 0, 0}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(2)
	})

	t.Run("RebuildReplacesCollection", func(t *testing.T) {
		idx := newIndex(t)
		collection := types.CollectionID("test_replace")

		first := []*model.Chunk{
			testChunk("old_0", []float32{1, 0, 0}),
			testChunk("old_1", []float32{0, 1, 0}),
		}
		gt.NoError(t, idx.Rebuild(ctx, collection, first)).Required()

		second := []*model.Chunk{
			testChunk("new_0", []float32{1, 0, 0}),
		}
		gt.NoError(t, idx.Rebuild(ctx, collection, second)).Required()

		results, err := idx.Query(ctx, collection, []float32{1, 0, 0}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, results).Length(1)
		gt.Value(t, results[0].Chunk.ID).Equal("new_0")
	})

	t.Run("RejectChunkWithoutEmbedding", func(t *testing.T) {
		idx := newIndex(t)
		collection := types.CollectionID("test_invalid")

		chunks := []*model.Chunk{
			testChunk("chunk_0", nil),
		}
		err := idx.Rebuild(ctx, collection, chunks)
		gt.Value(t, err).NotNil()
	})
}
