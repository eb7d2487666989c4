package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/aretw0/intake/pkg/catalog"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Valid(t *testing.T) {
	r, err := registry.New(catalog.Builtin()...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		catalog.WebsiteDevelopment,
		catalog.LeadGeneration,
		catalog.MobileAppDevelopment,
		catalog.SEOOptimization,
	}, r.Services())
}

func TestBuiltin_MobileBranch(t *testing.T) {
	r, err := registry.New(catalog.Builtin()...)
	require.NoError(t, err)
	g, err := r.Get(catalog.MobileAppDevelopment)
	require.NoError(t, err)

	keys := func(answers domain.Answers) []string {
		var out []string
		for _, q := range g.Path(answers) {
			out = append(out, q.Key)
		}
		return out
	}

	assert.Contains(t, keys(domain.Answers{"has_design": "Yes"}), "design_files")
	assert.NotContains(t, keys(domain.Answers{"has_design": "No"}), "design_files")
}

const logoYAML = `
service: Logo Design
openingMessage: Let's sketch your brand.
serviceDetails: |
  Pricing: starts at 5k
  Timeline: 1-2 weeks (with buffer)
questions:
  - key: style
    answerType: single_select
    required: true
    templates: ["Which style fits your brand?"]
    suggestions: [Minimal, Vintage, Playful]
  - key: mascot
    answerType: text
    templates: ["Describe the mascot."]
    when: { key: style, equals: Playful }
  - key: colors
    answerType: multi_select
    templates: ["Any colors?"]
    suggestions: [Red, Blue, Green]
    when:
      not: { key: style, equals: Minimal }
`

func TestParse(t *testing.T) {
	g, err := catalog.Parse([]byte(logoYAML))
	require.NoError(t, err)

	assert.Equal(t, "Logo Design", g.Service)
	assert.Equal(t, "Pricing: starts at 5k\nTimeline: 1-2 weeks (with buffer)", g.ServiceDetails)
	require.Len(t, g.Questions, 3)
	assert.Equal(t, domain.AnswerSingleSelect, g.Questions[0].AnswerType)
	assert.Equal(t, []string{"Minimal", "Vintage", "Playful"}, g.Questions[0].Suggestions)

	mascot := g.Questions[1]
	require.NotNil(t, mascot.When)
	assert.True(t, mascot.Applies(domain.Answers{"style": "Playful"}))
	assert.False(t, mascot.Applies(domain.Answers{"style": "Vintage"}))

	colors := g.Questions[2]
	assert.False(t, colors.Applies(domain.Answers{"style": "Minimal"}))
	assert.True(t, colors.Applies(domain.Answers{"style": "Vintage"}))
}

func TestParse_Errors(t *testing.T) {
	_, err := catalog.Parse([]byte("service: [unclosed"))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	_, err = catalog.Parse([]byte("service: X\nquestionz: []\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidGraph, "unknown fields are rejected")
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"graphs/logo.yaml":  {Data: []byte(logoYAML)},
		"graphs/README.md":  {Data: []byte("# not a graph")},
		"graphs/seo.yml":    {Data: []byte("service: SEO Optimization\nquestions:\n  - key: url\n    templates: [\"URL?\"]\n")},
		"graphs/nested/x.y": {Data: []byte("ignored")},
	}

	graphs, err := catalog.LoadFS(fsys, "graphs")
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, "Logo Design", graphs[0].Service)
	assert.Equal(t, "SEO Optimization", graphs[1].Service)

	r, err := registry.New(append(catalog.Builtin(), graphs...)...)
	require.NoError(t, err)
	seo, err := r.Get("seo optimization")
	require.NoError(t, err)
	assert.Len(t, seo.Questions, 1, "file graph overrides the built-in")
}

func TestNewRegistry_BuiltinOnly(t *testing.T) {
	r, err := catalog.NewRegistry("")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())
}

func TestNewRegistry_MissingDir(t *testing.T) {
	_, err := catalog.NewRegistry(t.TempDir() + "/missing")
	assert.Error(t, err)
}
