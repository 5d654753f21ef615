package model

import "strconv"

// Placement table column names after header normalization.
const (
	PlacementColAcademicYear = "academic_year"
	PlacementColDepartment   = "department"
	PlacementColName         = "name"
	PlacementColRollNo       = "roll_no"
	PlacementColBranch       = "branch"
	PlacementColCompanyName  = "company_name"
	PlacementColPayPackage   = "pay_package_lpa"
)

// PlacementColumns lists the queryable columns of the placements table.
var PlacementColumns = []string{
	PlacementColAcademicYear,
	PlacementColDepartment,
	PlacementColName,
	PlacementColRollNo,
	PlacementColBranch,
	PlacementColCompanyName,
	PlacementColPayPackage,
}

// PlacementRecord is one row of the placements dataset.
type PlacementRecord struct {
	AcademicYear  string
	Department    string
	Name          string
	RollNo        string
	Branch        string
	CompanyName   string
	PayPackageLPA float64
	HasPayPackage bool
}

// Field returns the string form of the named column.
func (x PlacementRecord) Field(column string) (string, bool) {
	switch column {
	case PlacementColAcademicYear:
		return x.AcademicYear, true
	case PlacementColDepartment:
		return x.Department, true
	case PlacementColName:
		return x.Name, true
	case PlacementColRollNo:
		return x.RollNo, true
	case PlacementColBranch:
		return x.Branch, true
	case PlacementColCompanyName:
		return x.CompanyName, true
	case PlacementColPayPackage:
		if !x.HasPayPackage {
			return "", true
		}
		return strconv.FormatFloat(x.PayPackageLPA, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Number returns the numeric value of the named column when it holds
// one for this record.
func (x PlacementRecord) Number(column string) (float64, bool) {
	if column == PlacementColPayPackage && x.HasPayPackage {
		return x.PayPackageLPA, true
	}
	return 0, false
}

// Map renders the record for tool output.
func (x PlacementRecord) Map() map[string]any {
	out := map[string]any{
		PlacementColAcademicYear: x.AcademicYear,
		PlacementColDepartment:   x.Department,
		PlacementColName:         x.Name,
		PlacementColRollNo:       x.RollNo,
		PlacementColBranch:       x.Branch,
		PlacementColCompanyName:  x.CompanyName,
	}
	if x.HasPayPackage {
		out[PlacementColPayPackage] = x.PayPackageLPA
	}
	return out
}

// PlacementTable is the immutable in-memory placements dataset.
type PlacementTable struct {
	rows []PlacementRecord
}

func NewPlacementTable(rows []PlacementRecord) *PlacementTable {
	copied := make([]PlacementRecord, len(rows))
	copy(copied, rows)
	return &PlacementTable{rows: copied}
}

// Rows returns the table rows. Callers must not mutate the result.
func (x *PlacementTable) Rows() []PlacementRecord {
	return x.rows
}

func (x *PlacementTable) Len() int {
	if x == nil {
		return 0
	}
	return len(x.rows)
}
