package model

// CourseSummary is the per-course line of a semester summary.
type CourseSummary struct {
	CourseCode string
	CourseName string
	Credits    string
	Category   string
}

// SemesterIndex groups course summaries by semester, preserving the
// order in which semesters first appear in the dataset.
type SemesterIndex struct {
	order   []string
	courses map[string][]CourseSummary
}

func NewSemesterIndex() *SemesterIndex {
	return &SemesterIndex{
		courses: make(map[string][]CourseSummary),
	}
}

// Add appends a course to the given semester, registering the semester
// on first use.
func (x *SemesterIndex) Add(semester string, course CourseSummary) {
	if _, ok := x.courses[semester]; !ok {
		x.order = append(x.order, semester)
	}
	x.courses[semester] = append(x.courses[semester], course)
}

// Semesters returns semesters in first-appearance order.
func (x *SemesterIndex) Semesters() []string {
	out := make([]string, len(x.order))
	copy(out, x.order)
	return out
}

// Courses returns the courses of a semester in insertion order.
func (x *SemesterIndex) Courses(semester string) []CourseSummary {
	src := x.courses[semester]
	out := make([]CourseSummary, len(src))
	copy(out, src)
	return out
}

// Len returns the number of semesters.
func (x *SemesterIndex) Len() int {
	return len(x.order)
}
