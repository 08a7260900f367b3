package rubric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore()

	backend := s.Get("backend_v3")
	require.NotNil(t, backend)
	assert.Equal(t, "Backend Software Engineer", backend.Role)
	require.Len(t, backend.Competencies, 4)

	tech := backend.Competencies["technical_skills"]
	assert.Equal(t, 0.4, tech.Weight)
	assert.Contains(t, tech.Keywords, "scalability")
	assert.Equal(t, 85.0, tech.Benchmarks["senior"])

	frontend := s.Get("frontend_v3")
	require.NotNil(t, frontend)
	assert.Contains(t, frontend.Competencies, "design_sense")

	assert.Nil(t, s.Get("mobile_v1"))
	assert.ElementsMatch(t, []string{"backend_v3", "frontend_v3"}, s.List())
}

func TestStore_LoadFromFile(t *testing.T) {
	dir := t.TempDir()
	doc := `id: data_v1
role: "Data Engineer"
competencies:
  pipelines:
    weight: 0.7
    keywords: ["etl", "pipeline", "batch", "stream"]
    benchmarks:
      junior: 50
      mid: 65
      senior: 80
  modeling:
    weight: 0.3
    keywords: ["schema", "model", "warehouse"]
    benchmarks:
      junior: 55
      mid: 70
      senior: 85
`
	path := filepath.Join(dir, "data_v1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s := NewStore()
	require.NoError(t, s.LoadFromFile(path))

	r := s.Get("data_v1")
	require.NotNil(t, r)
	assert.Equal(t, "Data Engineer", r.Role)
	assert.Equal(t, 0.7, r.Competencies["pipelines"].Weight)
	assert.Equal(t, 80.0, r.Competencies["pipelines"].Benchmarks["senior"])
}

func TestStore_LoadFromFileValidation(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing id",
			doc:  "role: x\ncompetencies:\n  a:\n    weight: 0.5\n    keywords: [\"k\"]\n",
			want: "rubric id is required",
		},
		{
			name: "no competencies",
			doc:  "id: empty_v1\nrole: x\n",
			want: "has no competencies",
		},
		{
			name: "bad weight",
			doc:  "id: w_v1\ncompetencies:\n  a:\n    weight: 0\n    keywords: [\"k\"]\n",
			want: "non-positive weight",
		},
		{
			name: "no keywords",
			doc:  "id: k_v1\ncompetencies:\n  a:\n    weight: 0.5\n",
			want: "has no keywords",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.doc), 0o644))

			err := NewStore().LoadFromFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestStore_LoadFromDirOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := `id: backend_v3
role: "Backend (custom)"
competencies:
  only:
    weight: 1.0
    keywords: ["go"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "override.yaml"), []byte(doc), 0o644))

	s := NewStore()
	require.NoError(t, s.LoadFromDir(dir))

	r := s.Get("backend_v3")
	require.NotNil(t, r)
	assert.Equal(t, "Backend (custom)", r.Role)
	assert.Len(t, r.Competencies, 1)
}
