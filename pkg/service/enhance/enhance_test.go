package enhance_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/service/enhance"
)

func newTestEnhancer() *enhance.Enhancer {
	semesters := model.NewSemesterIndex()
	semesters.Add("3", model.CourseSummary{CourseCode: "22MA3001", CourseName: "Linear Algebra"})
	semesters.Add("3", model.CourseSummary{CourseCode: "22CS3002", CourseName: "Data Structures"})

	courses := map[string]model.CourseMetadata{
		"22CS3002": {CourseCode: "22CS3002", CourseName: "Data Structures"},
	}

	concepts := model.ConceptMap{
		"programming": {"Data Structures", "Intro to CS", "Compilers"},
	}

	return enhance.New(semesters, courses, concepts)
}

func TestEnhanceSemesterRule(t *testing.T) {
	x := newTestEnhancer()

	out := x.Enhance("What courses are in Semester 3?")
	gt.String(t, out).Contains("What courses are in Semester 3?")
	gt.String(t, out).Contains("Linear Algebra")
	gt.String(t, out).Contains("Data Structures")

	// Abbreviated form matches too.
	gt.String(t, x.Enhance("subjects in sem 3")).Contains("Linear Algebra")
}

func TestEnhanceCourseCodeRule(t *testing.T) {
	x := newTestEnhancer()

	out := x.Enhance("tell me about 22cs3002")
	gt.String(t, out).Contains("Data Structures")

	// Unknown codes add nothing.
	gt.Value(t, x.Enhance("tell me about 22zz9999")).Equal("tell me about 22zz9999")
}

func TestEnhanceConceptRule(t *testing.T) {
	x := newTestEnhancer()

	out := x.Enhance("which programming courses exist?")
	gt.String(t, out).Contains("Data Structures")
	gt.String(t, out).Contains("Intro to CS")
	// Capped at two related courses per concept.
	gt.Number(t, len(out)).Equal(len("which programming courses exist? Data Structures Intro to CS"))
}

func TestEnhanceNoRuleKeepsQuery(t *testing.T) {
	x := newTestEnhancer()

	query := "what is the grading policy?"
	gt.Value(t, x.Enhance(query)).Equal(query)
}

func TestEnhanceRulesAreAdditive(t *testing.T) {
	x := newTestEnhancer()

	out := x.Enhance("semester 3 programming with 22CS3002")
	gt.String(t, out).Contains("Linear Algebra")
	gt.String(t, out).Contains("Intro to CS")
}
