package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

// Chunk converts course records and FAQ entries into retrievable
// chunks and builds the semester index as a side product. Malformed
// records and units are logged and skipped, never fatal.
func Chunk(ctx context.Context, records []model.CourseRecord, faqs []model.FaqEntry) ([]*model.Chunk, *model.SemesterIndex) {
	logger := logging.From(ctx)

	chunks := make([]*model.Chunk, 0, len(records)*3)
	semesters := model.NewSemesterIndex()

	for _, record := range records {
		meta := record.Metadata
		code := meta.CourseCode
		name := meta.CourseName
		semester := meta.Semester.String()

		if code == "" || name == "" || semester == "" {
			logger.Warn("skipping malformed course record",
				"course_code", code,
				"course_name", name,
				"semester", semester,
			)
			continue
		}

		credits := orDefault(meta.Credits.String(), "N/A")
		category := orDefault(meta.Category, "N/A")
		prereq := orDefault(meta.Prerequisites, "Not specified")

		semesters.Add(semester, model.CourseSummary{
			CourseCode: code,
			CourseName: name,
			Credits:    credits,
			Category:   category,
		})

		overview := fmt.Sprintf(
			"Course Overview for %s (%s): This is a Semester %s '%s' course with %s credits. Prerequisites: %s.",
			name, code, semester, category, credits, prereq,
		)
		chunks = appendCourseChunk(chunks, overview, types.ChunkTypeOverview, meta)

		if len(meta.CourseOutcomes) > 0 {
			outcomes := fmt.Sprintf(
				"The course outcomes for %s (%s) are: %s",
				name, code, strings.Join(meta.CourseOutcomes, "; "),
			)
			chunks = appendCourseChunk(chunks, outcomes, types.ChunkTypeOutcomes, meta)
		}

		for _, unit := range record.Syllabus {
			if !unit.Valid() {
				logger.Warn("skipping malformed syllabus unit", "course_code", code)
				continue
			}
			content := fmt.Sprintf(
				"Syllabus for %s (%s), Unit %s titled '%s': %s",
				name, code,
				orDefault(unit.UnitNumber.String(), "N/A"),
				orDefault(unit.Title, "N/A"),
				unit.Topics.Join("Not specified"),
			)
			chunks = appendCourseChunk(chunks, content, types.ChunkTypeSyllabusUnit, meta)
		}

		if !record.Books.Empty() {
			content := fmt.Sprintf(
				"Reading materials for %s (%s). Textbooks: %s. Reference Books: %s.",
				name, code,
				joinOrNone(record.Books.Textbooks),
				joinOrNone(record.Books.ReferenceBooks),
			)
			chunks = appendCourseChunk(chunks, content, types.ChunkTypeBooks, meta)
		}
	}

	for _, semester := range semesters.Semesters() {
		courses := semesters.Courses(semester)
		lines := make([]string, 0, len(courses))
		for _, course := range courses {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s credits, %s)",
				course.CourseCode, course.CourseName, course.Credits, course.Category))
		}

		content := fmt.Sprintf("The following courses are offered in Semester %s:\n%s",
			semester, strings.Join(lines, "\n"))

		chunks = append(chunks, &model.Chunk{
			ID:      model.ChunkID(fmt.Sprintf("semester_%s", semester)),
			Content: content,
			Type:    types.ChunkTypeSemesterSummary,
			Metadata: model.CleanMetadata(map[string]any{
				"semester":      semester,
				"total_courses": len(courses),
				"chunk_type":    types.ChunkTypeSemesterSummary,
				"source":        "semester_map",
			}),
		})
	}

	for i, faq := range faqs {
		if faq.Question == "" || faq.Answer == "" {
			logger.Warn("skipping malformed FAQ entry", "index", i)
			continue
		}
		chunks = append(chunks, &model.Chunk{
			ID:      model.ChunkID(fmt.Sprintf("faq_%d", i)),
			Content: fmt.Sprintf("Question: %s Answer: %s", faq.Question, faq.Answer),
			Type:    types.ChunkTypeFAQ,
			Metadata: model.CleanMetadata(map[string]any{
				"category":   orDefault(faq.Category, "general"),
				"chunk_type": types.ChunkTypeFAQ,
				"source":     "faq",
			}),
		})
	}

	return chunks, semesters
}

// GuideChunks splits free text (the admissions guide) into overlapping
// chunks.
func GuideChunks(text string) []*model.Chunk {
	sections := SplitText(text, DefaultChunkSize, DefaultChunkOverlap)

	chunks := make([]*model.Chunk, 0, len(sections))
	for i, section := range sections {
		chunks = append(chunks, &model.Chunk{
			ID:      model.ChunkID(fmt.Sprintf("guide_%d", i)),
			Content: section,
			Type:    types.ChunkTypeGuide,
			Metadata: model.CleanMetadata(map[string]any{
				"section":    i,
				"chunk_type": types.ChunkTypeGuide,
				"source":     "guide",
			}),
		})
	}
	return chunks
}

func appendCourseChunk(chunks []*model.Chunk, content string, chunkType types.ChunkType, meta model.CourseMetadata) []*model.Chunk {
	return append(chunks, &model.Chunk{
		ID:      model.ChunkID(fmt.Sprintf("chunk_%d", len(chunks))),
		Content: content,
		Type:    chunkType,
		Metadata: model.CleanMetadata(map[string]any{
			"course_code":   meta.CourseCode,
			"course_name":   meta.CourseName,
			"semester":      meta.Semester.String(),
			"credits":       meta.Credits.String(),
			"category":      meta.Category,
			"prerequisites": meta.Prerequisites,
			"chunk_type":    chunkType,
			"source":        "syllabus",
		}),
	})
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, "; ")
}
