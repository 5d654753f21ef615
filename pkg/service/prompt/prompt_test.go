package prompt_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/service/prompt"
)

func doc(content string, metadata map[string]string) *model.ScoredChunk {
	return &model.ScoredChunk{
		Chunk: &model.Chunk{
			ID:       "chunk_0",
			Content:  content,
			Metadata: metadata,
			Type:     types.ChunkTypeOverview,
		},
	}
}

func TestComposeContextBlocks(t *testing.T) {
	docs := []*model.ScoredChunk{
		doc("Course Overview for Intro to CS (CS101).", map[string]string{
			"source":      "syllabus",
			"course_code": "CS101",
		}),
		doc("The following courses are offered in Semester 1.", map[string]string{
			"source": "semester_map",
		}),
	}

	out, err := prompt.Compose("What is CS101 about?", docs)
	gt.NoError(t, err).Required()

	gt.String(t, out).Contains("Context Snippet (Source: syllabus, Course: CS101):\nCourse Overview for Intro to CS (CS101).")
	gt.String(t, out).Contains("Context Snippet (Source: semester_map, Course: N/A):")
	gt.String(t, out).Contains("\n---\n")
	gt.String(t, out).Contains("Student's Question: What is CS101 about?")
}

func TestComposeSelectsSyllabusTemplate(t *testing.T) {
	docs := []*model.ScoredChunk{doc("Syllabus for Intro to CS (CS101), Unit 1.", nil)}

	out, err := prompt.Compose("What is the syllabus for CS101?", docs)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("asking specifically about syllabus content")
}

func TestComposeSelectsDefaultTemplate(t *testing.T) {
	docs := []*model.ScoredChunk{doc("Reading materials for Intro to CS (CS101).", nil)}

	// "books" suppresses the syllabus-only template even though the
	// query mentions the syllabus.
	out, err := prompt.Compose("Which books are in the CS101 syllabus?", docs)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("helpful academic assistant")

	out, err = prompt.Compose("What are the prerequisites of CS101?", docs)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("helpful academic assistant")
}

func TestComposeEmptyDocs(t *testing.T) {
	out, err := prompt.Compose("anything", nil)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Student's Question: anything")
}
