package enhance

import (
	"regexp"
	"strings"

	"github.com/campus-lab/minerva/pkg/domain/model"
)

var (
	semesterPattern   = regexp.MustCompile(`\bsem(?:ester)?\s*(\d+)\b`)
	courseCodePattern = regexp.MustCompile(`\b\d{2}[A-Z&]{2,}\d{4}[A-Z]?\b`)
)

// relatedPerConcept caps how many related courses one concept adds.
const relatedPerConcept = 2

// Enhancer expands a query with dataset-derived terms before embedding
// so that, e.g., "semester 3" pulls the actual course names of that
// semester into the similarity search.
type Enhancer struct {
	semesters *model.SemesterIndex
	courses   map[string]model.CourseMetadata
	concepts  model.ConceptMap
}

// New builds an enhancer. courses is keyed by course code.
func New(semesters *model.SemesterIndex, courses map[string]model.CourseMetadata, concepts model.ConceptMap) *Enhancer {
	return &Enhancer{
		semesters: semesters,
		courses:   courses,
		concepts:  concepts,
	}
}

// Enhance appends expansion terms to the query. Rules are additive and
// independent; when none fires the query is returned unchanged.
func (x *Enhancer) Enhance(query string) string {
	lower := strings.ToLower(query)
	var terms []string

	if x.semesters != nil {
		if m := semesterPattern.FindStringSubmatch(lower); m != nil {
			for _, course := range x.semesters.Courses(m[1]) {
				terms = append(terms, course.CourseName)
			}
		}
	}

	if code := courseCodePattern.FindString(strings.ToUpper(query)); code != "" {
		if meta, ok := x.courses[code]; ok && meta.CourseName != "" {
			terms = append(terms, meta.CourseName)
		}
	}

	for _, concept := range x.concepts.Keys() {
		if !strings.Contains(lower, strings.ToLower(concept)) {
			continue
		}
		related := x.concepts[concept]
		if len(related) > relatedPerConcept {
			related = related[:relatedPerConcept]
		}
		terms = append(terms, related...)
	}

	if len(terms) == 0 {
		return query
	}
	return query + " " + strings.Join(terms, " ")
}
