package rubric

import "github.com/terra-clan/interview-engine/internal/models"

// defaultRubrics returns the built-in rubrics available without any
// rubrics directory configured.
func defaultRubrics() []*models.Rubric {
	return []*models.Rubric{
		{
			ID:   "backend_v3",
			Role: "Backend Software Engineer",
			Competencies: map[string]models.Competency{
				"technical_skills": {
					Weight:     0.4,
					Keywords:   []string{"algorithm", "database", "api", "system", "architecture", "performance", "scalability"},
					Benchmarks: map[string]float64{"junior": 60, "mid": 75, "senior": 85},
				},
				"problem_solving": {
					Weight:     0.3,
					Keywords:   []string{"problem", "solution", "debug", "troubleshoot", "optimize", "analyze"},
					Benchmarks: map[string]float64{"junior": 65, "mid": 80, "senior": 90},
				},
				"communication": {
					Weight:     0.2,
					Keywords:   []string{"explain", "communicate", "collaborate", "document", "present"},
					Benchmarks: map[string]float64{"junior": 70, "mid": 80, "senior": 85},
				},
				"culture_fit": {
					Weight:     0.1,
					Keywords:   []string{"team", "leadership", "initiative", "learning", "adaptability"},
					Benchmarks: map[string]float64{"junior": 75, "mid": 80, "senior": 85},
				},
			},
		},
		{
			ID:   "frontend_v3",
			Role: "Frontend Software Engineer",
			Competencies: map[string]models.Competency{
				"technical_skills": {
					Weight:     0.4,
					Keywords:   []string{"react", "javascript", "css", "html", "ui", "ux", "responsive", "performance"},
					Benchmarks: map[string]float64{"junior": 60, "mid": 75, "senior": 85},
				},
				"design_sense": {
					Weight:     0.25,
					Keywords:   []string{"design", "user", "interface", "experience", "accessibility", "usability"},
					Benchmarks: map[string]float64{"junior": 65, "mid": 75, "senior": 85},
				},
				"problem_solving": {
					Weight:     0.25,
					Keywords:   []string{"problem", "solution", "debug", "optimize", "performance"},
					Benchmarks: map[string]float64{"junior": 65, "mid": 80, "senior": 90},
				},
				"communication": {
					Weight:     0.1,
					Keywords:   []string{"explain", "communicate", "collaborate", "feedback"},
					Benchmarks: map[string]float64{"junior": 70, "mid": 80, "senior": 85},
				},
			},
		},
	}
}
