package llm

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/campus-lab/minerva/pkg/domain/interfaces"
	"github.com/campus-lab/minerva/pkg/domain/model"
	"github.com/campus-lab/minerva/pkg/domain/types"
)

// Client adapts a gollem.LLMClient to the Embedder and Generator
// capabilities used by the pipeline.
type Client struct {
	llm gollem.LLMClient
}

var (
	_ interfaces.Embedder  = &Client{}
	_ interfaces.Generator = &Client{}
)

func New(llmClient gollem.LLMClient) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Client{llm: llmClient}, nil
}

// Embed generates one embedding per input text, preserving order.
func (x *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := x.llm.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embeddings",
			goerr.V("count", len(texts)),
		)
	}
	if len(embeddings) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.V("want", len(texts)),
			goerr.V("got", len(embeddings)),
		)
	}

	vectors := make([][]float32, len(embeddings))
	for i, embedding := range embeddings {
		vector := make([]float32, len(embedding))
		for j, v := range embedding {
			vector[j] = float32(v)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Generate runs a one-shot completion session for the prompt. Failures
// carry types.ErrGeneration so boundaries can map them uniformly.
func (x *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ssn, err := x.llm.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(types.ErrGeneration, "failed to create LLM session",
			goerr.V("cause", err.Error()),
		)
	}

	resp, err := ssn.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(types.ErrGeneration, "failed to generate content",
			goerr.V("cause", err.Error()),
		)
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(types.ErrGeneration, "LLM returned an empty response")
	}

	return strings.Join(resp.Texts, "\n"), nil
}
