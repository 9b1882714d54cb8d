package embedding

import (
	"context"
	"math"
)

// Provider maps text to fixed-length vectors via a remote model API.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch embeds all texts in a single upstream call where the
	// backend supports it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// normalizeVector scales a vector to unit length. Cosine distance in
// pgvector assumes normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
