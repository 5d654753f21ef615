package dataset

import (
	"context"
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

var headerCleaner = regexp.MustCompile(`[^a-z0-9_]+`)

// header aliases seen in real placement exports.
var headerAliases = map[string]string{
	"companyname":        model.PlacementColCompanyName,
	"company":            model.PlacementColCompanyName,
	"paypackageinlpa":    model.PlacementColPayPackage,
	"pay_package_in_lpa": model.PlacementColPayPackage,
	"paypackagelpa":      model.PlacementColPayPackage,
	"pay_package":        model.PlacementColPayPackage,
	"package_lpa":        model.PlacementColPayPackage,
	"rollno":             model.PlacementColRollNo,
	"academicyear":       model.PlacementColAcademicYear,
	"student_name":       model.PlacementColName,
}

// LoadPlacements parses the placements CSV by file name. Rows that do
// not fit the header are skipped with a warning, matching how the
// dataset is exported with occasional junk lines.
func (x *Store) LoadPlacements(ctx context.Context, name string) (*model.PlacementTable, error) {
	logger := logging.From(ctx)

	data, err := x.src.ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse placements CSV", goerr.V("name", name))
	}
	if len(rows) == 0 {
		return model.NewPlacementTable(nil), nil
	}

	columns := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		columns[i] = normalizeHeader(header)
	}

	records := make([]model.PlacementRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(columns) {
			logger.Warn("skipping short placements row", "row", i+2)
			continue
		}

		var record model.PlacementRecord
		for j, column := range columns {
			value := strings.TrimSpace(row[j])
			switch column {
			case model.PlacementColAcademicYear:
				record.AcademicYear = value
			case model.PlacementColDepartment:
				record.Department = value
			case model.PlacementColName:
				record.Name = value
			case model.PlacementColRollNo:
				record.RollNo = value
			case model.PlacementColBranch:
				record.Branch = value
			case model.PlacementColCompanyName:
				record.CompanyName = value
			case model.PlacementColPayPackage:
				if value == "" {
					continue
				}
				pkg, err := strconv.ParseFloat(value, 64)
				if err != nil {
					logger.Warn("skipping unparseable pay package", "row", i+2, "value", value)
					continue
				}
				record.PayPackageLPA = pkg
				record.HasPayPackage = true
			}
		}
		records = append(records, record)
	}

	return model.NewPlacementTable(records), nil
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, " ", "_")
	h = headerCleaner.ReplaceAllString(h, "")
	if canonical, ok := headerAliases[h]; ok {
		return canonical
	}
	return h
}
