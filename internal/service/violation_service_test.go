package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/model"
)

func TestLogViolation_TabSwitchThresholdAutoSubmits(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30) // no rules configured: strict defaults, threshold 2
	user := env.addUser("alice", "Alice")
	attempt, err := env.attemptService.Start(user.ID, round.ID)
	require.NoError(t, err)

	first, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationTabSwitch)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TabSwitchCount)
	assert.False(t, first.AutoSubmitted)
	assert.Equal(t, string(model.AttemptInProgress), first.Status)

	second, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationTabSwitch)
	require.NoError(t, err)
	assert.Equal(t, 2, second.TabSwitchCount)
	assert.True(t, second.AutoSubmitted)
	assert.Equal(t, string(model.AttemptAutoSubmitted), second.Status)

	stored, err := env.attempts.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptAutoSubmitted, stored.Status)
	assert.Len(t, stored.ViolationLogs, 2)

	t.Run("third violation against finished attempt conflicts", func(t *testing.T) {
		_, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationTabSwitch)
		assert.True(t, apperr.IsConflict(err))
	})
}

func TestLogViolation_SingleWarningAutoSubmitsImmediately(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	rules := model.EventRules{EventID: event.ID, RuleSet: model.DefaultRuleSet()}
	rules.MaxTabSwitchWarnings = 1
	require.NoError(t, env.rules.CreateEventRules(&rules))
	round := env.addRound(event.ID, 30) // no round rules: event rules apply

	user := env.addUser("alice", "Alice")
	attempt, err := env.attemptService.Start(user.ID, round.ID)
	require.NoError(t, err)

	resp, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationTabSwitch)
	require.NoError(t, err)
	assert.True(t, resp.AutoSubmitted)
	assert.Equal(t, string(model.AttemptAutoSubmitted), resp.Status)
}

func TestLogViolation_RefreshIsCountedButNeverTriggers(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)
	user := env.addUser("alice", "Alice")
	attempt, err := env.attemptService.Start(user.ID, round.ID)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		resp, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationRefresh)
		require.NoError(t, err)
		assert.False(t, resp.AutoSubmitted)
	}

	stored, _ := env.attempts.FindByID(attempt.ID)
	assert.Equal(t, model.AttemptInProgress, stored.Status)
	assert.Equal(t, 5, stored.RefreshAttemptCount)
	assert.Equal(t, 0, stored.TabSwitchCount)
	assert.Len(t, stored.ViolationLogs, 5)
}

func TestLogViolation_UnknownTypeIsLoggedNotCounted(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)
	user := env.addUser("alice", "Alice")
	attempt, err := env.attemptService.Start(user.ID, round.ID)
	require.NoError(t, err)

	resp, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationType("camera_off"))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TabSwitchCount)
	assert.Equal(t, 0, resp.RefreshAttemptCount)

	stored, _ := env.attempts.FindByID(attempt.ID)
	require.Len(t, stored.ViolationLogs, 1)
	assert.Equal(t, model.ViolationType("camera_off"), stored.ViolationLogs[0].Type)
}

func TestLogViolation_AutoSubmitDisabledByRules(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)
	rules := model.RoundRules{RoundID: round.ID, RuleSet: model.DefaultRuleSet()}
	rules.AutoSubmitOnViolation = false
	require.NoError(t, env.rules.CreateRoundRules(&rules))

	user := env.addUser("alice", "Alice")
	attempt, err := env.attemptService.Start(user.ID, round.ID)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		resp, err := env.violationService.LogViolation(attempt.ID, user.ID, model.ViolationTabSwitch)
		require.NoError(t, err)
		assert.False(t, resp.AutoSubmitted)
	}

	stored, _ := env.attempts.FindByID(attempt.ID)
	assert.Equal(t, model.AttemptInProgress, stored.Status)
	assert.Equal(t, 4, stored.TabSwitchCount)
}

func TestLogViolation_Gates(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)
	alice := env.addUser("alice", "Alice")
	bob := env.addUser("bob", "Bob")
	attempt, err := env.attemptService.Start(alice.ID, round.ID)
	require.NoError(t, err)

	t.Run("unknown attempt", func(t *testing.T) {
		_, err := env.violationService.LogViolation(999, alice.ID, model.ViolationTabSwitch)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := env.violationService.LogViolation(attempt.ID, bob.ID, model.ViolationTabSwitch)
		assert.True(t, apperr.IsForbidden(err))
	})
}
