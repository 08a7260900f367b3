package rubric

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/interview-engine/internal/models"
)

// Store holds competency rubrics keyed by rubric id. Pure data, no
// behavior beyond lookup.
type Store struct {
	mu      sync.RWMutex
	rubrics map[string]*models.Rubric
}

// NewStore creates a store preloaded with the built-in default rubrics.
func NewStore() *Store {
	s := &Store{rubrics: make(map[string]*models.Rubric)}
	for _, r := range defaultRubrics() {
		s.rubrics[r.ID] = r
	}
	return s
}

// LoadFromDir loads all YAML rubrics from a directory, overriding any
// defaults with the same id.
func (s *Store) LoadFromDir(dir string) error {
	slog.Info("loading rubrics from directory", "dir", dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		if err := s.LoadFromFile(file); err != nil {
			slog.Warn("failed to load rubric", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("rubrics loaded", "count", loaded, "total_files", len(files))
	return nil
}

// LoadFromFile loads a single rubric from a YAML file
func (s *Store) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var r models.Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if r.ID == "" {
		return fmt.Errorf("rubric id is required")
	}
	if len(r.Competencies) == 0 {
		return fmt.Errorf("rubric %s has no competencies", r.ID)
	}
	for name, c := range r.Competencies {
		if c.Weight <= 0 {
			return fmt.Errorf("competency %s has non-positive weight", name)
		}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("competency %s has no keywords", name)
		}
	}

	s.mu.Lock()
	s.rubrics[r.ID] = &r
	s.mu.Unlock()

	slog.Info("rubric loaded", "id", r.ID, "role", r.Role, "competencies", len(r.Competencies))
	return nil
}

// Get retrieves a rubric by id, nil if absent.
func (s *Store) Get(id string) *models.Rubric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rubrics[id]
}

// List returns all rubric ids
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.rubrics))
	for id := range s.rubrics {
		ids = append(ids, id)
	}
	return ids
}
