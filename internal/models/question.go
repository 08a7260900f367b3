package models

// Question is an immutable behavioral question drawn from the bank.
type Question struct {
	ID           int      `yaml:"id" json:"id"`
	Prompt       string   `yaml:"prompt" json:"prompt"`
	Category     string   `yaml:"category" json:"category"`
	Competencies []string `yaml:"competencies" json:"competencies"`
	FollowUp     string   `yaml:"follow_up" json:"follow_up,omitempty"`
}
