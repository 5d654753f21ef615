package interfaces

import "context"

// Embedder turns texts into embedding vectors, one per input text and
// in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a text completion for a fully composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
