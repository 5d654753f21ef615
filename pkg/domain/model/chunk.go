package model

import (
	"fmt"
	"strconv"

	"github.com/campus-lab/minerva/pkg/domain/types"
)

// EmbeddingDimension is the vector size used for chunk embeddings
// (Gemini text-embedding models).
const EmbeddingDimension = 768

// ChunkID identifies a chunk within its collection. IDs are
// deterministic so rebuilding a collection from the same dataset
// produces the same IDs.
type ChunkID string

// Chunk is one retrievable unit of knowledge with its metadata and,
// once ingested, its embedding vector.
type Chunk struct {
	ID        ChunkID
	Content   string
	Metadata  map[string]string
	Type      types.ChunkType
	Embedding []float32
}

// Clone returns a deep copy of the chunk.
func (x *Chunk) Clone() *Chunk {
	if x == nil {
		return nil
	}

	clone := &Chunk{
		ID:      x.ID,
		Content: x.Content,
		Type:    x.Type,
	}
	if x.Metadata != nil {
		clone.Metadata = make(map[string]string, len(x.Metadata))
		for k, v := range x.Metadata {
			clone.Metadata[k] = v
		}
	}
	if x.Embedding != nil {
		clone.Embedding = make([]float32, len(x.Embedding))
		copy(clone.Embedding, x.Embedding)
	}
	return clone
}

// ScoredChunk is a chunk ranked by a query, with cosine distance
// (1 - cosine similarity); smaller is closer.
type ScoredChunk struct {
	Chunk    *Chunk
	Distance float64
}

// CleanMetadata converts mixed-type metadata into the string-valued map
// stored on chunks. Nil values are dropped, scalars are stringified.
func CleanMetadata(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case int:
			out[k] = strconv.Itoa(t)
		case int64:
			out[k] = strconv.FormatInt(t, 10)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case fmt.Stringer:
			out[k] = t.String()
		default:
			out[k] = fmt.Sprintf("%v", t)
		}
	}
	return out
}
