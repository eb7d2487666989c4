package dsl_test

import (
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_LinearFlow(t *testing.T) {
	g, err := dsl.New("Logo Design").
		Opening("Let's sketch your brand.").
		Details("Timeline: 1-2 weeks").
		Ask("style").
		SingleSelect("Minimal", "Vintage", "Playful").
		Required().
		Say("Which style fits your brand?", "Pick a style.").
		Ask("mascot").
		Say("Describe the mascot.").
		When(domain.Equals("style", "Playful")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "Logo Design", g.Service)
	assert.Equal(t, "Let's sketch your brand.", g.OpeningMessage)
	require.Len(t, g.Questions, 2)
	assert.False(t, g.Linked())

	style := g.Questions[0]
	assert.Equal(t, "style", style.ID)
	assert.Equal(t, domain.AnswerSingleSelect, style.AnswerType)
	assert.True(t, style.Required)
	assert.Equal(t, []string{"Which style fits your brand?", "Pick a style."}, style.Templates)

	mascot := g.Questions[1]
	assert.Equal(t, domain.AnswerText, mascot.AnswerType)
	assert.False(t, mascot.Applies(domain.Answers{"style": "Minimal"}))
	assert.True(t, mascot.Applies(domain.Answers{"style": "playful"}))
}

func TestBuilder_LinkedFlow(t *testing.T) {
	g := dsl.New("Apps").
		Ask("platform").ID("p").MultiSelect("iOS", "Android").Say("Which platforms?").Next("f").
		Ask("features").ID("f").Say("Key features?").Terminal().
		MustBuild()

	assert.True(t, g.Linked())
	assert.True(t, g.Questions[0].IsMulti())
	next := g.Successor(&g.Questions[0])
	require.NotNil(t, next)
	assert.Equal(t, "features", next.Key)
	assert.Nil(t, g.Successor(next))
}

func TestBuilder_AskReturnsExisting(t *testing.T) {
	b := dsl.New("X")
	b.Ask("a").Say("first")
	b.Ask("a").Required()

	g, err := b.Build()
	require.NoError(t, err)
	require.Len(t, g.Questions, 1)
	assert.True(t, g.Questions[0].Required)
	assert.Equal(t, []string{"first"}, g.Questions[0].Templates)
}

func TestBuilder_Flags(t *testing.T) {
	q := dsl.New("X").Ask("email").ForceAsk().NoSharedContext().AllowCustom().Patterns("mail").Label("Email").Question()
	assert.True(t, q.ForceAsk)
	assert.True(t, q.DisableSharedContext)
	assert.True(t, q.AllowCustom)
	assert.Equal(t, []string{"mail"}, q.Patterns)
	assert.Equal(t, "Email", q.DisplayLabel())
	assert.False(t, q.Prefillable())
}

func TestBuilder_Empty(t *testing.T) {
	_, err := dsl.New("Nothing").Build()
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)
}
