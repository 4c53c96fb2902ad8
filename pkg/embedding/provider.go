package embedding

import "context"

// Dimensions is the embedding width produced by text-embedding-3-small.
const Dimensions = 1536

// Provider defines the interface for generating text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
	Model() string
}
