package placements

import (
	"context"
	"fmt"
	"sort"

	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/agent/tool"
	"github.com/campus-lab/minerva/pkg/domain/model"
)

// maxGroups caps group_count output.
const maxGroups = 20

// aggregateTool computes one aggregate over a column, optionally on a
// filtered subset.
type aggregateTool struct {
	table *model.PlacementTable
}

func (t *aggregateTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: "placements__aggregate",
		Description: "Aggregate placement records. Numeric aggregates (sum, avg, min, max) " +
			"work on pay_package_lpa; count, distinct and group_count work on any column. Columns: " + columnList(),
		Parameters: map[string]*gollem.Parameter{
			"op": {
				Type:        gollem.TypeString,
				Description: "Aggregate: count, distinct, sum, avg, min, max or group_count",
				Required:    true,
			},
			"column": {
				Type:        gollem.TypeString,
				Description: "Column to aggregate",
				Required:    true,
			},
			"filter_column": {
				Type:        gollem.TypeString,
				Description: "Optional column to pre-filter on (case-insensitive contains)",
			},
			"filter_value": {
				Type:        gollem.TypeString,
				Description: "Value for the pre-filter",
			},
		},
	}
}

func (t *aggregateTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	op, err := stringArg(args, "op")
	if err != nil {
		return nil, err
	}
	column, err := stringArg(args, "column")
	if err != nil {
		return nil, err
	}
	if !validColumn(column) {
		return nil, fmt.Errorf("unknown column: %s (valid: %s)", column, columnList())
	}

	rows := t.table.Rows()
	if filterColumn, _ := args["filter_column"].(string); filterColumn != "" {
		filterValue, _ := args["filter_value"].(string)
		if filterValue == "" {
			return nil, fmt.Errorf("filter_value is required when filter_column is set")
		}
		if !validColumn(filterColumn) {
			return nil, fmt.Errorf("unknown filter_column: %s", filterColumn)
		}
		rows, err = filterRows(rows, filterColumn, "contains", filterValue)
		if err != nil {
			return nil, err
		}
	}

	tool.Update(ctx, fmt.Sprintf("Aggregating placements: %s(%s) over %d rows", op, column, len(rows)))

	switch op {
	case "count":
		return map[string]any{"count": len(rows)}, nil

	case "distinct":
		seen := make(map[string]struct{})
		var values []string
		for _, row := range rows {
			v, _ := row.Field(column)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				values = append(values, v)
			}
		}
		sort.Strings(values)
		return map[string]any{"count": len(values), "values": values}, nil

	case "group_count":
		counts := make(map[string]int)
		for _, row := range rows {
			v, _ := row.Field(column)
			if v != "" {
				counts[v]++
			}
		}
		type group struct {
			Value string `json:"value"`
			Count int    `json:"count"`
		}
		groups := make([]group, 0, len(counts))
		for v, c := range counts {
			groups = append(groups, group{Value: v, Count: c})
		}
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
			return groups[i].Value < groups[j].Value
		})
		if len(groups) > maxGroups {
			groups = groups[:maxGroups]
		}
		out := make([]map[string]any, 0, len(groups))
		for _, g := range groups {
			out = append(out, map[string]any{"value": g.Value, "count": g.Count})
		}
		return map[string]any{"groups": out}, nil

	case "sum", "avg", "min", "max":
		var values []float64
		for _, row := range rows {
			if n, ok := row.Number(column); ok {
				values = append(values, n)
			}
		}
		if len(values) == 0 {
			return map[string]any{"count": 0}, nil
		}

		sum := 0.0
		minV, maxV := values[0], values[0]
		for _, v := range values {
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}

		result := map[string]any{"count": len(values)}
		switch op {
		case "sum":
			result["sum"] = sum
		case "avg":
			result["avg"] = sum / float64(len(values))
		case "min":
			result["min"] = minV
		case "max":
			result["max"] = maxV
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unknown op: %s (valid: count, distinct, sum, avg, min, max, group_count)", op)
	}
}
