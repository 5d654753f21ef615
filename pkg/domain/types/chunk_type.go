package types

import "github.com/m-mizutani/goerr/v2"

// ChunkType classifies what a knowledge chunk was derived from.
type ChunkType string

const (
	ChunkTypeOverview        ChunkType = "overview"
	ChunkTypeOutcomes        ChunkType = "outcomes"
	ChunkTypeSyllabusUnit    ChunkType = "syllabus_unit"
	ChunkTypeBooks           ChunkType = "books"
	ChunkTypeSemesterSummary ChunkType = "semester_summary"
	ChunkTypeFAQ             ChunkType = "faq"
	ChunkTypeGuide           ChunkType = "guide"
)

func (x ChunkType) String() string {
	return string(x)
}

func (x ChunkType) Validate() error {
	switch x {
	case ChunkTypeOverview, ChunkTypeOutcomes, ChunkTypeSyllabusUnit,
		ChunkTypeBooks, ChunkTypeSemesterSummary, ChunkTypeFAQ, ChunkTypeGuide:
		return nil
	default:
		return goerr.New("invalid chunk type", goerr.V("type", string(x)))
	}
}
