package placements

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/agent/tool"
	"github.com/campus-lab/minerva/pkg/domain/model"
)

// filterTool selects rows matching a single column condition.
type filterTool struct {
	table *model.PlacementTable
}

func (t *filterTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: "placements__filter",
		Description: "Filter placement records by one column condition. " +
			"String matching is case-insensitive. Columns: " + columnList(),
		Parameters: map[string]*gollem.Parameter{
			"column": {
				Type:        gollem.TypeString,
				Description: "Column to filter on",
				Required:    true,
			},
			"op": {
				Type:        gollem.TypeString,
				Description: "Condition: equals, contains, gte or lte (gte/lte are numeric, pay_package_lpa only)",
				Required:    true,
			},
			"value": {
				Type:        gollem.TypeString,
				Description: "Value to compare against",
				Required:    true,
			},
		},
	}
}

func (t *filterTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	column, err := stringArg(args, "column")
	if err != nil {
		return nil, err
	}
	op, err := stringArg(args, "op")
	if err != nil {
		return nil, err
	}
	value, err := stringArg(args, "value")
	if err != nil {
		return nil, err
	}
	if !validColumn(column) {
		return nil, fmt.Errorf("unknown column: %s (valid: %s)", column, columnList())
	}

	tool.Update(ctx, fmt.Sprintf("Filtering placements: %s %s %q", column, op, value))

	matched, err := filterRows(t.table.Rows(), column, op, value)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"count": len(matched),
		"rows":  rowMaps(matched),
	}, nil
}

func filterRows(rows []model.PlacementRecord, column, op, value string) ([]model.PlacementRecord, error) {
	var matched []model.PlacementRecord

	switch op {
	case "equals", "contains":
		needle := strings.ToLower(value)
		for _, row := range rows {
			field, _ := row.Field(column)
			haystack := strings.ToLower(field)
			if (op == "equals" && haystack == needle) ||
				(op == "contains" && strings.Contains(haystack, needle)) {
				matched = append(matched, row)
			}
		}
	case "gte", "lte":
		threshold, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be numeric for %s: %s", op, value)
		}
		for _, row := range rows {
			n, ok := row.Number(column)
			if !ok {
				continue
			}
			if (op == "gte" && n >= threshold) || (op == "lte" && n <= threshold) {
				matched = append(matched, row)
			}
		}
	default:
		return nil, fmt.Errorf("unknown op: %s (valid: equals, contains, gte, lte)", op)
	}

	return matched, nil
}
