package placements

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/domain/model"
)

// maxRowsInResult caps row payloads returned to the model.
const maxRowsInResult = 25

// New builds the fixed tool set the placements agent may use. The
// tools only read the table; there is no way to execute arbitrary
// operations.
func New(table *model.PlacementTable) []gollem.Tool {
	return []gollem.Tool{
		&filterTool{table: table},
		&aggregateTool{table: table},
		&sortTool{table: table},
	}
}

func columnList() string {
	return strings.Join(model.PlacementColumns, ", ")
}

func validColumn(column string) bool {
	for _, c := range model.PlacementColumns {
		if c == column {
			return true
		}
	}
	return false
}

func rowMaps(rows []model.PlacementRecord) []map[string]any {
	n := len(rows)
	if n > maxRowsInResult {
		n = maxRowsInResult
	}
	out := make([]map[string]any, 0, n)
	for _, row := range rows[:n] {
		out = append(out, row.Map())
	}
	return out
}

func stringArg(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
