package chunker_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/service/chunker"
)

func course(code, name, semester string) model.CourseRecord {
	return model.CourseRecord{
		Metadata: model.CourseMetadata{
			CourseCode: code,
			CourseName: name,
			Semester:   model.Scalar(semester),
			Credits:    "4",
			Category:   "Core",
		},
	}
}

func TestChunkMinimalCourse(t *testing.T) {
	record := course("CS101", "Intro to CS", "1")
	record.Metadata.CourseOutcomes = []string{"Understand loops"}

	chunks, semesters := chunker.Chunk(context.Background(), []model.CourseRecord{record}, nil)

	// Overview, outcomes, and one semester summary. No syllabus units
	// and no books chunk.
	gt.Array(t, chunks).Length(3).Required()

	gt.Value(t, chunks[0].ID).Equal("chunk_0")
	gt.Value(t, chunks[0].Type).Equal(types.ChunkTypeOverview)
	gt.String(t, chunks[0].Content).Contains("Course Overview for Intro to CS (CS101)")
	gt.String(t, chunks[0].Content).Contains("Semester 1 'Core' course with 4 credits")
	gt.String(t, chunks[0].Content).Contains("Prerequisites: Not specified.")

	gt.Value(t, chunks[1].ID).Equal("chunk_1")
	gt.Value(t, chunks[1].Type).Equal(types.ChunkTypeOutcomes)
	gt.String(t, chunks[1].Content).Contains("The course outcomes for Intro to CS (CS101) are: Understand loops")

	gt.Value(t, chunks[2].ID).Equal("semester_1")
	gt.Value(t, chunks[2].Type).Equal(types.ChunkTypeSemesterSummary)
	gt.String(t, chunks[2].Content).Contains("The following courses are offered in Semester 1:")
	gt.String(t, chunks[2].Content).Contains("- CS101: Intro to CS (4 credits, Core)")
	gt.Value(t, chunks[2].Metadata["total_courses"]).Equal("1")

	gt.Value(t, semesters.Len()).Equal(1)
	gt.Array(t, semesters.Courses("1")).Length(1)
}

func TestChunkSkipsMalformedRecords(t *testing.T) {
	records := []model.CourseRecord{
		{Metadata: model.CourseMetadata{CourseName: "No Code", Semester: "1"}},
		{Metadata: model.CourseMetadata{CourseCode: "XX100", Semester: "2"}},
		{Metadata: model.CourseMetadata{CourseCode: "XX200", CourseName: "No Semester"}},
		course("CS101", "Intro to CS", "1"),
	}

	chunks, semesters := chunker.Chunk(context.Background(), records, nil)

	gt.Value(t, semesters.Len()).Equal(1)
	for _, chunk := range chunks {
		if chunk.Type == types.ChunkTypeOverview {
			gt.Value(t, chunk.Metadata["course_code"]).Equal("CS101")
		}
	}
}

func TestChunkNoOutcomesNoChunk(t *testing.T) {
	chunks, _ := chunker.Chunk(context.Background(), []model.CourseRecord{course("CS101", "Intro to CS", "1")}, nil)
	for _, chunk := range chunks {
		gt.Value(t, chunk.Type).NotEqual(types.ChunkTypeOutcomes)
	}
}

func TestChunkBooksFallbacks(t *testing.T) {
	record := course("CS101", "Intro to CS", "1")
	record.Books = model.BookList{Textbooks: []string{"SICP"}}

	chunks, _ := chunker.Chunk(context.Background(), []model.CourseRecord{record}, nil)

	var found bool
	for _, chunk := range chunks {
		if chunk.Type == types.ChunkTypeBooks {
			found = true
			gt.String(t, chunk.Content).Contains("Textbooks: SICP.")
			gt.String(t, chunk.Content).Contains("Reference Books: None listed.")
		}
	}
	gt.Bool(t, found).True()
}

func TestChunkBooksAbsentWhenEmpty(t *testing.T) {
	chunks, _ := chunker.Chunk(context.Background(), []model.CourseRecord{course("CS101", "Intro to CS", "1")}, nil)
	for _, chunk := range chunks {
		gt.Value(t, chunk.Type).NotEqual(types.ChunkTypeBooks)
	}
}

func TestChunkSyllabusUnits(t *testing.T) {
	record := course("CS101", "Intro to CS", "1")
	record.Syllabus = []model.SyllabusUnit{
		{UnitNumber: "1", Title: "Basics", Topics: model.TopicList{"variables", "types"}},
	}

	chunks, _ := chunker.Chunk(context.Background(), []model.CourseRecord{record}, nil)

	var found bool
	for _, chunk := range chunks {
		if chunk.Type == types.ChunkTypeSyllabusUnit {
			found = true
			gt.String(t, chunk.Content).Contains("Syllabus for Intro to CS (CS101), Unit 1 titled 'Basics': variables, types")
		}
	}
	gt.Bool(t, found).True()
}

func TestChunkFAQ(t *testing.T) {
	faqs := []model.FaqEntry{
		{Question: "What is the fee?", Answer: "See the fee schedule.", Category: "fees"},
		{Question: "", Answer: "dropped"},
	}

	chunks, _ := chunker.Chunk(context.Background(), nil, faqs)

	gt.Array(t, chunks).Length(1).Required()
	gt.Value(t, chunks[0].ID).Equal("faq_0")
	gt.Value(t, chunks[0].Content).Equal("Question: What is the fee? Answer: See the fee schedule.")
	gt.Value(t, chunks[0].Metadata["category"]).Equal("fees")
	gt.Value(t, chunks[0].Metadata["source"]).Equal("faq")
}

func TestSplitTextShortInput(t *testing.T) {
	sections := chunker.SplitText("short text", 1000, 200)
	gt.Array(t, sections).Length(1)
	gt.Value(t, sections[0]).Equal("short text")
}

func TestSplitTextLongInput(t *testing.T) {
	paragraph := strings.Repeat("admissions requirements and deadlines. ", 20)
	text := paragraph + "\n\n" + paragraph + "\n\n" + paragraph

	sections := chunker.SplitText(text, 1000, 200)
	gt.Number(t, len(sections)).Greater(1)
	for _, section := range sections {
		gt.Number(t, len([]rune(section))).LessOrEqual(1000)
		gt.Value(t, section).NotEqual("")
	}
}

func TestGuideChunks(t *testing.T) {
	chunks := chunker.GuideChunks("Eligibility: a pass in the qualifying examination.")
	gt.Array(t, chunks).Length(1).Required()
	gt.Value(t, chunks[0].ID).Equal("guide_0")
	gt.Value(t, chunks[0].Type).Equal(types.ChunkTypeGuide)
	gt.Value(t, chunks[0].Metadata["source"]).Equal("guide")
}
