package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Scalar is a JSON value that may arrive as a string, number, bool or
// null, normalized to its string form. Syllabus exports are not strict
// about the types of semester and credit fields.
type Scalar string

func (x *Scalar) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*x = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*x = Scalar(v)
		return nil
	case s == "true" || s == "false":
		*x = Scalar(s)
		return nil
	default:
		var v json.Number
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		if f, err := v.Float64(); err == nil {
			*x = Scalar(strconv.FormatFloat(f, 'f', -1, 64))
			return nil
		}
		*x = Scalar(v.String())
		return nil
	}
}

func (x Scalar) String() string {
	return string(x)
}

// TopicList accepts either a JSON array of strings or a single string.
type TopicList []string

func (x *TopicList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, "[") {
		var items []Scalar
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		topics := make([]string, 0, len(items))
		for _, item := range items {
			topics = append(topics, string(item))
		}
		*x = topics
		return nil
	}

	var single Scalar
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*x = nil
		return nil
	}
	*x = TopicList{string(single)}
	return nil
}

// Join renders the topics comma-joined, or fallback when empty.
func (x TopicList) Join(fallback string) string {
	if len(x) == 0 {
		return fallback
	}
	return strings.Join(x, ", ")
}

// CourseMetadata is the descriptive header of one course record.
type CourseMetadata struct {
	CourseCode     string   `json:"course_code"`
	CourseName     string   `json:"course_name"`
	Semester       Scalar   `json:"semester"`
	Credits        Scalar   `json:"credits"`
	Category       string   `json:"category"`
	Prerequisites  string   `json:"prerequisites"`
	CourseOutcomes []string `json:"course_outcomes"`
}

// SyllabusUnit is one unit of a course syllabus. Units that are not
// JSON objects are tolerated at parse time and reported invalid, so a
// single bad unit does not reject the whole dataset.
type SyllabusUnit struct {
	UnitNumber Scalar    `json:"unit_number"`
	Title      string    `json:"title"`
	Topics     TopicList `json:"topics"`

	valid bool
}

func (x *SyllabusUnit) UnmarshalJSON(data []byte) error {
	type alias SyllabusUnit
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		*x = SyllabusUnit{}
		return nil
	}
	*x = SyllabusUnit(raw)
	x.valid = true
	return nil
}

// Valid reports whether the unit parsed as a well-formed object.
func (x *SyllabusUnit) Valid() bool {
	return x.valid
}

// BookList holds reading material titles for a course.
type BookList struct {
	Textbooks      []string `json:"textbooks"`
	ReferenceBooks []string `json:"reference_books"`
}

// Empty reports whether no reading material is listed at all.
func (x BookList) Empty() bool {
	return len(x.Textbooks) == 0 && len(x.ReferenceBooks) == 0
}

// CourseRecord is one course entry of a syllabus dataset.
type CourseRecord struct {
	Metadata CourseMetadata `json:"metadata"`
	Syllabus []SyllabusUnit `json:"syllabus"`
	Books    BookList       `json:"books"`
}
