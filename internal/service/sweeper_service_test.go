package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symposium-hq/sympro/config"
	"github.com/symposium-hq/sympro/internal/model"
)

func newSweeper(env *testEnv, graceSeconds int) SweeperService {
	cfg := &config.Config{}
	cfg.Sweeper.GraceSeconds = graceSeconds
	return NewSweeperService(cfg, env.attempts, env.attemptService)
}

func TestReconcileOverdue(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 30)
	mc := env.addQuestion(round.ID, 1, model.QuestionMultipleChoice, 10, "Paris")
	alice := env.addUser("alice", "Alice")
	bob := env.addUser("bob", "Bob")

	// Alice started well past the round duration; Bob just started.
	overdue := model.TestAttempt{
		RoundID:   round.ID,
		UserID:    alice.ID,
		StartedAt: time.Now().Add(-2 * time.Hour),
		Status:    model.AttemptInProgress,
		MaxScore:  10,
	}
	require.NoError(t, env.attempts.Create(&overdue))
	answer := model.Answer{AttemptID: overdue.ID, QuestionID: mc.ID, Answer: "Paris", IsCorrect: ptr(false), AnsweredAt: time.Now().Add(-90 * time.Minute)}
	require.NoError(t, env.answers.Create(&answer))

	fresh, err := env.attemptService.Start(bob.ID, round.ID)
	require.NoError(t, err)

	require.NoError(t, newSweeper(env, 30).ReconcileOverdue())

	swept, _ := env.attempts.FindByID(overdue.ID)
	assert.Equal(t, model.AttemptAutoSubmitted, swept.Status)
	assert.Equal(t, 10, swept.TotalScore, "sweep grades the saved answers")
	require.NotNil(t, swept.SubmittedAt)

	untouched, _ := env.attempts.FindByID(fresh.ID)
	assert.Equal(t, model.AttemptInProgress, untouched.Status)
}

func TestReconcileOverdue_GraceWindowHoldsBack(t *testing.T) {
	env := newTestEnv()
	event := env.addEvent("Quiz Night")
	round := env.addRound(event.ID, 1) // one minute
	alice := env.addUser("alice", "Alice")

	attempt := model.TestAttempt{
		RoundID:   round.ID,
		UserID:    alice.ID,
		StartedAt: time.Now().Add(-70 * time.Second), // 10s past the duration
		Status:    model.AttemptInProgress,
	}
	require.NoError(t, env.attempts.Create(&attempt))

	// A generous grace keeps the attempt alive.
	require.NoError(t, newSweeper(env, 300).ReconcileOverdue())
	stored, _ := env.attempts.FindByID(attempt.ID)
	assert.Equal(t, model.AttemptInProgress, stored.Status)

	// With no grace it is swept.
	require.NoError(t, newSweeper(env, 0).ReconcileOverdue())
	stored, _ = env.attempts.FindByID(attempt.ID)
	assert.Equal(t, model.AttemptAutoSubmitted, stored.Status)
}

func TestReconcileOverdue_NothingToDo(t *testing.T) {
	env := newTestEnv()
	assert.NoError(t, newSweeper(env, 30).ReconcileOverdue())
}
