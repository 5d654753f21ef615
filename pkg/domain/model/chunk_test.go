package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
)

func TestChunkClone(t *testing.T) {
	src := &model.Chunk{
		ID:        "chunk_0",
		Content:   "body",
		Metadata:  map[string]string{"course_code": "CS101"},
		Type:      types.ChunkTypeOverview,
		Embedding: []float32{1, 2, 3},
	}

	clone := src.Clone()
	clone.Metadata["course_code"] = "MA101"
	clone.Embedding[0] = 9

	gt.Value(t, src.Metadata["course_code"]).Equal("CS101")
	gt.Value(t, src.Embedding[0]).Equal(float32(1))

	var nilChunk *model.Chunk
	gt.Value(t, nilChunk.Clone()).Nil()
}

func TestCleanMetadata(t *testing.T) {
	out := model.CleanMetadata(map[string]any{
		"code":    "CS101",
		"credits": 4,
		"gpa":     3.5,
		"core":    true,
		"type":    types.ChunkTypeOverview,
		"missing": nil,
	})

	gt.Value(t, out["code"]).Equal("CS101")
	gt.Value(t, out["credits"]).Equal("4")
	gt.Value(t, out["gpa"]).Equal("3.5")
	gt.Value(t, out["core"]).Equal("true")
	gt.Value(t, out["type"]).Equal("overview")

	_, ok := out["missing"]
	gt.Bool(t, ok).False()
}
