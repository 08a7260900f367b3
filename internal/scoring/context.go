package scoring

import (
	"crypto/md5"
	"math"
	"strings"

	"github.com/terra-clan/interview-engine/internal/models"
)

// ContextScorer produces the context-understanding sub-score used in
// rubric scoring. Implementations must return values in [0.6, 1.0] and
// must be deterministic for a given input.
type ContextScorer interface {
	Score(response string, competency models.Competency) float64
}

// ConstantScorer returns a fixed context score. It is the default when
// no semantic model is wired in.
type ConstantScorer struct {
	Value float64
}

// NewConstantScorer creates a constant scorer, clamping into [0.6,1.0].
func NewConstantScorer(v float64) *ConstantScorer {
	if v < 0.6 {
		v = 0.6
	}
	if v > 1.0 {
		v = 1.0
	}
	return &ConstantScorer{Value: v}
}

// Score returns the configured constant
func (s *ConstantScorer) Score(string, models.Competency) float64 {
	return s.Value
}

// EmbeddingScorer approximates semantic relatedness with deterministic
// hash embeddings: the response and the competency's keyword text are
// embedded and their cosine similarity is mapped into [0.6, 1.0].
type EmbeddingScorer struct{}

// NewEmbeddingScorer creates an embedding-based context scorer
func NewEmbeddingScorer() *EmbeddingScorer {
	return &EmbeddingScorer{}
}

// Score maps cosine similarity of hash embeddings into [0.6, 1.0].
func (s *EmbeddingScorer) Score(response string, competency models.Competency) float64 {
	rv := embed(response)
	cv := embed(strings.Join(competency.Keywords, " "))

	sim := cosine(rv, cv)
	// Cosine of non-negative embeddings lands in [0,1]; rescale.
	return 0.6 + 0.4*sim
}

const embeddingDim = 64

// embed produces a deterministic unit-range vector from text. Each
// whitespace token contributes its md5 bytes to the accumulator.
func embed(text string) []float64 {
	v := make([]float64, embeddingDim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		sum := md5.Sum([]byte(token))
		for i, b := range sum {
			v[(i*4)%embeddingDim] += float64(b) / 255.0
		}
	}
	return v
}

// cosine computes cosine similarity, 0 for zero vectors.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
