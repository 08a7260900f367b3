package question

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/interview-engine/internal/models"
)

// Bank holds the fixed behavioral question bank. Questions are immutable
// once loaded; presentation order is decided per assessment via Shuffle.
type Bank struct {
	mu        sync.RWMutex
	questions []models.Question
}

// NewBank creates a bank preloaded with the built-in questions.
func NewBank() *Bank {
	return &Bank{questions: defaultQuestions()}
}

// LoadFromDir replaces the built-in bank with questions from YAML files
// in dir. Files hold a top-level `questions:` list.
func (b *Bank) LoadFromDir(dir string) error {
	slog.Info("loading questions from directory", "dir", dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	var loaded []models.Question
	seen := make(map[int]bool)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("failed to read question file", "file", file, "error", err)
			continue
		}

		var doc struct {
			Questions []models.Question `yaml:"questions"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			slog.Warn("failed to parse question file", "file", file, "error", err)
			continue
		}

		for _, q := range doc.Questions {
			if q.Prompt == "" {
				continue
			}
			if seen[q.ID] {
				return fmt.Errorf("duplicate question id %d in %s", q.ID, file)
			}
			seen[q.ID] = true
			loaded = append(loaded, q)
		}
	}

	if len(loaded) == 0 {
		return fmt.Errorf("no questions found in %s", dir)
	}

	b.mu.Lock()
	b.questions = loaded
	b.mu.Unlock()

	slog.Info("questions loaded", "count", len(loaded))
	return nil
}

// Size returns the number of questions in the bank
func (b *Bank) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questions)
}

// Get returns the question with the given id, nil if absent.
func (b *Bank) Get(id int) *models.Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range b.questions {
		if b.questions[i].ID == id {
			q := b.questions[i]
			return &q
		}
	}
	return nil
}

// Shuffle returns a randomized presentation order over the bank. The
// order is fixed for the assessment once drawn; a non-zero seed makes it
// reproducible.
func (b *Bank) Shuffle(seed int64) []int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	order := make([]int, len(b.questions))
	for i, p := range rng.Perm(len(b.questions)) {
		order[i] = b.questions[p].ID
	}
	return order
}

// defaultQuestions is the built-in STAR question bank.
func defaultQuestions() []models.Question {
	return []models.Question{
		{
			ID:           1,
			Prompt:       "Tell me about a time when you had to work with a difficult team member. How did you handle the situation?",
			Category:     "Teamwork",
			Competencies: []string{"collaboration", "conflict_resolution", "communication"},
			FollowUp:     "What would you do differently if faced with a similar situation?",
		},
		{
			ID:           2,
			Prompt:       "Describe a situation where you had to learn a new technology quickly to complete a project. What was your approach?",
			Category:     "Learning Agility",
			Competencies: []string{"adaptability", "learning", "problem_solving"},
			FollowUp:     "How do you typically stay updated with new technologies?",
		},
		{
			ID:           3,
			Prompt:       "Give me an example of a time when you had to make a decision with incomplete information. What was the outcome?",
			Category:     "Decision Making",
			Competencies: []string{"decision_making", "risk_assessment", "leadership"},
			FollowUp:     "How do you typically handle uncertainty in your work?",
		},
		{
			ID:           4,
			Prompt:       "Tell me about a project where you had to meet a tight deadline. How did you manage your time and resources?",
			Category:     "Time Management",
			Competencies: []string{"time_management", "prioritization", "stress_management"},
			FollowUp:     "What tools or techniques do you use for project management?",
		},
		{
			ID:           5,
			Prompt:       "Describe a situation where you had to give constructive feedback to a colleague. How did you approach it?",
			Category:     "Leadership",
			Competencies: []string{"leadership", "communication", "empathy"},
			FollowUp:     "How do you handle receiving feedback yourself?",
		},
	}
}
