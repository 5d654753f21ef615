package placements

import (
	"context"
	"fmt"
	"sort"

	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/agent/tool"
	"github.com/campus-lab/minerva/pkg/domain/model"
)

const defaultSortLimit = 10

// sortTool returns the top rows ordered by a column.
type sortTool struct {
	table *model.PlacementTable
}

func (t *sortTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: "placements__sort",
		Description: "Sort placement records by a column and return the top rows. " +
			"pay_package_lpa sorts numerically, other columns lexicographically. Columns: " + columnList(),
		Parameters: map[string]*gollem.Parameter{
			"column": {
				Type:        gollem.TypeString,
				Description: "Column to sort by",
				Required:    true,
			},
			"order": {
				Type:        gollem.TypeString,
				Description: "asc or desc (default: desc)",
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum rows to return (default: 10)",
			},
		},
	}
}

func (t *sortTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	column, err := stringArg(args, "column")
	if err != nil {
		return nil, err
	}
	if !validColumn(column) {
		return nil, fmt.Errorf("unknown column: %s (valid: %s)", column, columnList())
	}

	order, _ := args["order"].(string)
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("unknown order: %s (valid: asc, desc)", order)
	}

	limit := defaultSortLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	if limit > maxRowsInResult {
		limit = maxRowsInResult
	}

	tool.Update(ctx, fmt.Sprintf("Sorting placements by %s (%s)", column, order))

	rows := make([]model.PlacementRecord, len(t.table.Rows()))
	copy(rows, t.table.Rows())

	numeric := column == model.PlacementColPayPackage
	sort.SliceStable(rows, func(i, j int) bool {
		if numeric {
			a, aok := rows[i].Number(column)
			b, bok := rows[j].Number(column)
			// Rows without a value sort last regardless of order.
			if aok != bok {
				return aok
			}
			if a == b {
				return false
			}
			if order == "desc" {
				return a > b
			}
			return a < b
		}

		a, _ := rows[i].Field(column)
		b, _ := rows[j].Field(column)
		if a == b {
			return false
		}
		if order == "desc" {
			return a > b
		}
		return a < b
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}

	return map[string]any{
		"count": len(rows),
		"rows":  rowMaps(rows),
	}, nil
}
