package service

import (
	"strings"

	"github.com/symposium-hq/sympro/internal/model"
)

// gradeAnswers scores an attempt's answers against the round's questions.
// multiple_choice and true_false answers are compared case-insensitively with
// the question's correct answer and earn full points or none; every other
// question type scores 0 here (manual grading happens elsewhere, if at all).
// Answers whose question no longer exists are skipped and contribute nothing.
// Returns the graded answers and the total score.
func gradeAnswers(questions []model.Question, answers []model.Answer) ([]model.Answer, int) {
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	total := 0
	graded := make([]model.Answer, 0, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		correct := false
		points := 0
		if q.QuestionType.AutoGradable() && q.CorrectAnswer != nil && strings.EqualFold(ans.Answer, *q.CorrectAnswer) {
			correct = true
			points = q.Points
		}
		ans.IsCorrect = &correct
		ans.PointsAwarded = points
		total += points
		graded = append(graded, ans)
	}
	return graded, total
}
