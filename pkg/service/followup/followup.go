package followup

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/utils/logging"
)

//go:embed prompt/suggest.md
var suggestPromptRaw string

var suggestPrompt = template.Must(template.New("suggest").Parse(suggestPromptRaw))

const (
	contextChunks = 4
	questionCount = 4
)

// Retriever fetches chunks relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]*model.ScoredChunk, error)
}

// Suggester proposes follow-up questions grounded in retrieved context.
// It never fails: any retrieval, generation, or parse problem falls
// back to the default question set.
type Suggester struct {
	retriever Retriever
	generator interfaces.Generator
}

func New(retriever Retriever, generator interfaces.Generator) *Suggester {
	return &Suggester{
		retriever: retriever,
		generator: generator,
	}
}

// DefaultQuestions is the static fallback set.
func DefaultQuestions() []string {
	return []string{
		"What courses are offered in Engineering?",
		"What is the fee for an MBA?",
		"What are the eligibility criteria for B.Tech?",
		"Tell me about the scholarship policy",
		"How do I apply for a Ph.D.?",
	}
}

// Suggest returns follow-up questions for the conversation so far.
func (x *Suggester) Suggest(ctx context.Context, history []model.ChatTurn) []string {
	logger := logging.From(ctx)

	if x == nil || x.retriever == nil || x.generator == nil {
		return DefaultQuestions()
	}
	if len(history) == 0 {
		return DefaultQuestions()
	}

	message, ok := model.LatestUserMessage(history)
	if !ok {
		return DefaultQuestions()
	}

	docs, err := x.retriever.Retrieve(ctx, message, contextChunks)
	if err != nil {
		logger.Warn("follow-up retrieval failed, using defaults", "error", err)
		return DefaultQuestions()
	}

	contents := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc != nil && doc.Chunk != nil {
			contents = append(contents, doc.Chunk.Content)
		}
	}

	var buf bytes.Buffer
	if err := suggestPrompt.Execute(&buf, map[string]string{
		"Context": strings.Join(contents, "\n\n"),
	}); err != nil {
		logger.Warn("follow-up prompt rendering failed, using defaults", "error", err)
		return DefaultQuestions()
	}

	raw, err := x.generator.Generate(ctx, buf.String())
	if err != nil {
		logger.Warn("follow-up generation failed, using defaults", "error", err)
		return DefaultQuestions()
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		logger.Warn("follow-up output rejected, using defaults", "error", err, "raw", raw)
		return DefaultQuestions()
	}
	return questions
}

// parseQuestions validates the model output: a JSON array of exactly
// four non-empty strings, optionally wrapped in a code fence.
func parseQuestions(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var questions []string
	if err := json.Unmarshal([]byte(s), &questions); err != nil {
		return nil, goerr.Wrap(err, "follow-up output is not a JSON string array")
	}
	if len(questions) != questionCount {
		return nil, goerr.New("unexpected follow-up question count",
			goerr.V("count", len(questions)),
		)
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return nil, goerr.New("follow-up question is empty")
		}
	}
	return questions, nil
}
