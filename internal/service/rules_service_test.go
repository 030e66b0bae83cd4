package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/model"
)

func TestResolveEffective_RoundRulesWin(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)

	eventRules := model.EventRules{EventID: event.ID, RuleSet: model.DefaultRuleSet()}
	eventRules.MaxTabSwitchWarnings = 5
	require.NoError(t, env.rules.CreateEventRules(&eventRules))

	roundRules := model.RoundRules{RoundID: round.ID, RuleSet: model.DefaultRuleSet()}
	roundRules.MaxTabSwitchWarnings = 1
	require.NoError(t, env.rules.CreateRoundRules(&roundRules))

	effective, err := env.rulesService.ResolveEffective(round.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleSourceRound, effective.Source)
	assert.Equal(t, 1, effective.MaxTabSwitchWarnings)
}

func TestResolveEffective_FallsBackToEventRules(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)

	eventRules := model.EventRules{EventID: event.ID, RuleSet: model.DefaultRuleSet()}
	eventRules.AutoSubmitOnViolation = false
	require.NoError(t, env.rules.CreateEventRules(&eventRules))

	effective, err := env.rulesService.ResolveEffective(round.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleSourceEvent, effective.Source)
	assert.False(t, effective.AutoSubmitOnViolation)
}

func TestResolveEffective_SynthesizesAndPersistsDefaults(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)

	effective, err := env.rulesService.ResolveEffective(round.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleSourceDefault, effective.Source)
	assert.Equal(t, model.DefaultRuleSet(), effective.RuleSet)

	// The defaults are persisted at round level, so the next call is stable.
	again, err := env.rulesService.ResolveEffective(round.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RuleSourceRound, again.Source)
	assert.Equal(t, effective.RuleSet, again.RuleSet)
}

func TestResolveEffective_UnknownRound(t *testing.T) {
	env := newTestEnv()
	_, err := env.rulesService.ResolveEffective(42)
	assert.True(t, apperr.IsNotFound(err))
}
