package usecase

import (
	"context"
	_ "embed"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/agent/tool"
	placementstool "github.com/campus-lab/minerva/pkg/agent/tool/placements"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

//go:embed prompt/placements_system.md
var placementsSystemPrompt string

// maxAgentLoops caps the tool-calling loop so a confused model cannot
// spin forever.
const maxAgentLoops = 5

// PlacementsUseCase answers questions about placement statistics with a
// tool-calling agent restricted to a fixed read-only operation set.
type PlacementsUseCase struct {
	llm   gollem.LLMClient
	table *model.PlacementTable
}

func NewPlacementsUseCase(llmClient gollem.LLMClient, table *model.PlacementTable) *PlacementsUseCase {
	return &PlacementsUseCase{
		llm:   llmClient,
		table: table,
	}
}

// Ready reports whether the agent can serve queries.
func (x *PlacementsUseCase) Ready() bool {
	return x != nil && x.llm != nil && x.table.Len() > 0
}

// Ask runs the agent for one query.
func (x *PlacementsUseCase) Ask(ctx context.Context, query string) (string, error) {
	if query == "" {
		return "", goerr.New("query is required")
	}
	if !x.Ready() {
		return "", goerr.Wrap(types.ErrNotInitialized, "placements data is not loaded")
	}

	logger := logging.From(ctx)
	logger.Info("running placements agent", "query", query, "rows", x.table.Len())

	// Surface tool progress in the server log.
	ctx = tool.WithUpdate(ctx, func(ctx context.Context, message string) {
		logging.From(ctx).Info("placements agent progress", "message", message)
	})

	agent := gollem.New(x.llm,
		gollem.WithSystemPrompt(placementsSystemPrompt),
		gollem.WithTools(placementstool.New(x.table)...),
		gollem.WithLoopLimit(maxAgentLoops),
	)

	resp, err := agent.Execute(ctx, gollem.Text(query))
	if err != nil {
		return "", goerr.Wrap(types.ErrGeneration, "placements agent failed",
			goerr.V("cause", err.Error()),
			goerr.V("query", query),
		)
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(types.ErrGeneration, "placements agent returned no answer",
			goerr.V("query", query),
		)
	}

	return strings.Join(resp.Texts, "\n"), nil
}
