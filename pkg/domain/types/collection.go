package types

import "strings"

// CollectionID identifies a vector collection. It is a pure function of
// the dataset identity, so re-ingesting the same dataset always targets
// the same collection.
type CollectionID string

// CollectionAdmissions holds the admissions guide chunks.
const CollectionAdmissions CollectionID = "admissions"

// NewSyllabusCollectionID derives the collection for a department
// dataset, optionally scoped to a regulation year.
func NewSyllabusCollectionID(department, regulation string) CollectionID {
	id := "syllabus_" + strings.ToLower(department)
	if regulation != "" {
		id += "_" + strings.ToLower(regulation)
	}
	return CollectionID(id)
}

func (x CollectionID) String() string {
	return string(x)
}
