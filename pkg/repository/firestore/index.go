package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
)

// Index is a Firestore-backed vector index. Each collection is one
// document under "collections" holding a manifest, with its chunks in a
// "chunks" subcollection searched via FindNearest.
type Index struct {
	client *firestore.Client
}

var _ interfaces.Index = &Index{}

type Option func(*options)

type options struct {
	databaseID string
}

// WithDatabase selects a non-default Firestore database.
func WithDatabase(databaseID string) Option {
	return func(o *options) {
		o.databaseID = databaseID
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Index, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var client *firestore.Client
	var err error
	if o.databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, o.databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", o.databaseID),
		)
	}

	return &Index{client: client}, nil
}

// chunkDoc is the Firestore document representation of model.Chunk.
// Embedding is stored as firestore.Vector32 so that FindNearest works.
// Distance is never written; FindNearest fills it on query results.
type chunkDoc struct {
	ID        string             `firestore:"ID"`
	Content   string             `firestore:"Content"`
	Metadata  map[string]string  `firestore:"Metadata"`
	Type      string             `firestore:"Type"`
	Embedding firestore.Vector32 `firestore:"Embedding"`
	Seq       int64              `firestore:"Seq"`
	Distance  float64            `firestore:"Distance,omitempty"`
}

type manifestDoc struct {
	ChunkCount int       `firestore:"ChunkCount"`
	RebuiltAt  time.Time `firestore:"RebuiltAt"`
}

func toChunkDoc(chunk *model.Chunk, seq int64) *chunkDoc {
	return &chunkDoc{
		ID:        string(chunk.ID),
		Content:   chunk.Content,
		Metadata:  chunk.Metadata,
		Type:      chunk.Type.String(),
		Embedding: firestore.Vector32(chunk.Embedding),
		Seq:       seq,
	}
}

func fromChunkDoc(d *chunkDoc) *model.Chunk {
	chunk := &model.Chunk{
		ID:       model.ChunkID(d.ID),
		Content:  d.Content,
		Metadata: d.Metadata,
		Type:     types.ChunkType(d.Type),
	}
	if len(d.Embedding) > 0 {
		chunk.Embedding = []float32(d.Embedding)
	}
	return chunk
}

func (x *Index) manifestRef(collection types.CollectionID) *firestore.DocumentRef {
	return x.client.Collection("collections").Doc(string(collection))
}

func (x *Index) chunksCollection(collection types.CollectionID) *firestore.CollectionRef {
	return x.manifestRef(collection).Collection("chunks")
}

func (x *Index) Rebuild(ctx context.Context, collection types.CollectionID, chunks []*model.Chunk) error {
	if collection == "" {
		return goerr.New("collection is required")
	}

	// Drop existing chunks first. Rebuild is destructive; readers may
	// observe a partially built collection during the rewrite.
	iter := x.chunksCollection(collection).DocumentRefs(ctx)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to list existing chunks", goerr.V("collection", collection))
		}
		if _, err := ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete chunk", goerr.V("collection", collection))
		}
	}

	seq := int64(0)
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
		ref := x.chunksCollection(collection).Doc(string(chunk.ID))
		if _, err := ref.Set(ctx, toChunkDoc(chunk, seq)); err != nil {
			return goerr.Wrap(err, "failed to store chunk",
				goerr.V("collection", collection),
				goerr.V("chunkID", chunk.ID),
			)
		}
		seq++
	}

	manifest := &manifestDoc{
		ChunkCount: int(seq),
		RebuiltAt:  time.Now().UTC(),
	}
	if _, err := x.manifestRef(collection).Set(ctx, manifest); err != nil {
		return goerr.Wrap(err, "failed to store collection manifest", goerr.V("collection", collection))
	}

	return nil
}

func (x *Index) Query(ctx context.Context, collection types.CollectionID, embedding []float32, limit int) ([]*model.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("query embedding is required", goerr.V("collection", collection))
	}
	if limit <= 0 {
		return nil, goerr.New("limit must be positive", goerr.V("limit", limit))
	}

	if _, err := x.manifestRef(collection).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(types.ErrNotInitialized, "unknown collection",
				goerr.V("collection", collection),
			)
		}
		return nil, goerr.Wrap(err, "failed to get collection manifest", goerr.V("collection", collection))
	}

	vq := x.chunksCollection(collection).FindNearest(
		"Embedding",
		firestore.Vector32(embedding),
		limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{
			DistanceResultField: "Distance",
		},
	)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	results := make([]*model.ScoredChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results",
				goerr.V("collection", collection),
			)
		}

		var d chunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}

		results = append(results, &model.ScoredChunk{
			Chunk:    fromChunkDoc(&d),
			Distance: d.Distance,
		})
	}

	return results, nil
}

func (x *Index) Ready(ctx context.Context, collection types.CollectionID) (bool, error) {
	if _, err := x.manifestRef(collection).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to get collection manifest", goerr.V("collection", collection))
	}
	return true, nil
}

func (x *Index) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}
