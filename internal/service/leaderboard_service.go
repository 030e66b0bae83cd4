package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/gorm"
)

// LeaderboardService ranks completed attempts. Auto-submitted attempts are
// excluded on purpose: a test cut short by the violation policy or the
// overdue sweep does not compete. Ties on score break on earlier submission.
type LeaderboardService interface {
	RoundLeaderboard(roundID uint) ([]dto.LeaderboardEntry, error)
	EventLeaderboard(eventID uint) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	eventRepo   repository.EventRepository
	roundRepo   repository.RoundRepository
	attemptRepo repository.TestAttemptRepository
	userRepo    repository.UserRepository
}

func NewLeaderboardService(
	eventRepo repository.EventRepository,
	roundRepo repository.RoundRepository,
	attemptRepo repository.TestAttemptRepository,
	userRepo repository.UserRepository,
) LeaderboardService {
	return &leaderboardService{
		eventRepo:   eventRepo,
		roundRepo:   roundRepo,
		attemptRepo: attemptRepo,
		userRepo:    userRepo,
	}
}

func (s *leaderboardService) RoundLeaderboard(roundID uint) ([]dto.LeaderboardEntry, error) {
	if _, err := s.roundRepo.FindByID(roundID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("round %d does not exist", roundID)
		}
		return nil, fmt.Errorf("loading round %d: %w", roundID, err)
	}

	attempts, err := s.attemptRepo.FindByRoundAndStatus(roundID, model.AttemptCompleted)
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts for round %d: %w", roundID, err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(attempts))
	for _, a := range attempts {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:      a.UserID,
			TotalScore:  a.TotalScore,
			MaxScore:    a.MaxScore,
			SubmittedAt: a.SubmittedAt,
		})
	}
	rankEntries(entries)
	if err := s.fillNames(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EventLeaderboard sums each participant's completed attempts across all of
// the event's rounds. The tiebreak timestamp is the participant's latest
// submission, so whoever reached the same total first ranks higher.
func (s *leaderboardService) EventLeaderboard(eventID uint) ([]dto.LeaderboardEntry, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}

	attempts, err := s.attemptRepo.FindByEventAndStatus(eventID, model.AttemptCompleted)
	if err != nil {
		return nil, fmt.Errorf("loading completed attempts for event %d: %w", eventID, err)
	}

	type rollup struct {
		userID      uint
		totalScore  int
		maxScore    int
		submittedAt *time.Time
	}
	byUser := make(map[uint]*rollup)
	order := make([]uint, 0)
	for _, a := range attempts {
		r, ok := byUser[a.UserID]
		if !ok {
			r = &rollup{userID: a.UserID}
			byUser[a.UserID] = r
			order = append(order, a.UserID)
		}
		r.totalScore += a.TotalScore
		r.maxScore += a.MaxScore
		if a.SubmittedAt != nil && (r.submittedAt == nil || a.SubmittedAt.After(*r.submittedAt)) {
			r.submittedAt = a.SubmittedAt
		}
	}

	entries := make([]dto.LeaderboardEntry, 0, len(byUser))
	for _, userID := range order {
		r := byUser[userID]
		entries = append(entries, dto.LeaderboardEntry{
			UserID:      r.userID,
			TotalScore:  r.totalScore,
			MaxScore:    r.maxScore,
			SubmittedAt: r.submittedAt,
		})
	}
	rankEntries(entries)
	if err := s.fillNames(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// rankEntries sorts by score descending, earlier submission first on ties,
// and assigns 1-based ranks in place.
func rankEntries(entries []dto.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		ti, tj := entries[i].SubmittedAt, entries[j].SubmittedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.Before(*tj)
		}
	})
	for i := range entries {
		entries[i].Rank = uint(i + 1)
	}
}

func (s *leaderboardService) fillNames(entries []dto.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("loading leaderboard users: %w", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range entries {
		if u, ok := byID[entries[i].UserID]; ok {
			entries[i].Username = u.Username
			entries[i].FullName = u.FullName
		}
	}
	return nil
}
