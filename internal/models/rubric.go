package models

// Competency is one named skill within a rubric. Weights across a rubric
// need not sum to 1; weighted aggregation divides by the total weight.
type Competency struct {
	Weight     float64            `yaml:"weight" json:"weight"`
	Keywords   []string           `yaml:"keywords" json:"keywords"`
	Benchmarks map[string]float64 `yaml:"benchmarks" json:"benchmarks"` // junior/mid/senior
}

// Rubric is a named, weighted set of competencies used to score a session.
type Rubric struct {
	ID           string                `yaml:"id" json:"id"`
	Role         string                `yaml:"role" json:"role"`
	Competencies map[string]Competency `yaml:"competencies" json:"competencies"`
}
