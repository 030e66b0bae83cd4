package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	roundLeaderboardLimit = 10
	topPerformersLimit    = 50
)

// ReportService builds immutable report snapshots: a per-event deep dive and
// a symposium-wide rollup. Generating again creates a new row rather than
// mutating an old one, so historical reports stay comparable.
type ReportService interface {
	GenerateEventReport(eventID, generatedBy uint) (*dto.ReportResponse, error)
	GenerateSymposiumReport(generatedBy uint) (*dto.ReportResponse, error)
	Get(reportID uint) (*dto.ReportResponse, error)
	List() ([]dto.ReportResponse, error)
	ListByEvent(eventID uint) ([]dto.ReportResponse, error)
}

type reportService struct {
	eventRepo       repository.EventRepository
	roundRepo       repository.RoundRepository
	questionRepo    repository.QuestionRepository
	attemptRepo     repository.TestAttemptRepository
	answerRepo      repository.AnswerRepository
	participantRepo repository.ParticipantRepository
	userRepo        repository.UserRepository
	reportRepo      repository.ReportRepository
	leaderboards    LeaderboardService
}

func NewReportService(
	eventRepo repository.EventRepository,
	roundRepo repository.RoundRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.TestAttemptRepository,
	answerRepo repository.AnswerRepository,
	participantRepo repository.ParticipantRepository,
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	leaderboards LeaderboardService,
) ReportService {
	return &reportService{
		eventRepo:       eventRepo,
		roundRepo:       roundRepo,
		questionRepo:    questionRepo,
		attemptRepo:     attemptRepo,
		answerRepo:      answerRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		reportRepo:      reportRepo,
		leaderboards:    leaderboards,
	}
}

func (s *reportService) GenerateEventReport(eventID, generatedBy uint) (*dto.ReportResponse, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}

	rounds, err := s.roundRepo.FindByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("loading rounds for event %d: %w", eventID, err)
	}

	data := dto.EventReportData{
		EventID:     event.ID,
		EventName:   event.Name,
		EventStatus: string(event.Status),
		Rounds:      make([]dto.RoundReport, 0, len(rounds)),
		GeneratedAt: time.Now(),
	}

	type rollup struct {
		totalScore      int
		roundsCompleted int
		totalViolations int
	}
	rollups := make(map[uint]*rollup)
	rollupOrder := make([]uint, 0)
	touch := func(userID uint) *rollup {
		r, ok := rollups[userID]
		if !ok {
			r = &rollup{}
			rollups[userID] = r
			rollupOrder = append(rollupOrder, userID)
		}
		return r
	}

	for _, round := range rounds {
		roundReport, err := s.buildRoundReport(round)
		if err != nil {
			return nil, err
		}
		data.Rounds = append(data.Rounds, *roundReport)

		attempts, err := s.attemptRepo.FindByRoundID(round.ID)
		if err != nil {
			return nil, fmt.Errorf("loading attempts for round %d: %w", round.ID, err)
		}
		for _, a := range attempts {
			r := touch(a.UserID)
			r.totalViolations += len(a.ViolationLogs)
			if a.Status == model.AttemptCompleted {
				r.totalScore += a.TotalScore
				r.roundsCompleted++
			}
		}
	}

	data.Participants = make([]dto.ParticipantRollup, 0, len(rollups))
	for _, userID := range rollupOrder {
		r := rollups[userID]
		data.Participants = append(data.Participants, dto.ParticipantRollup{
			UserID:          userID,
			TotalScore:      r.totalScore,
			RoundsCompleted: r.roundsCompleted,
			TotalViolations: r.totalViolations,
		})
	}
	sort.SliceStable(data.Participants, func(i, j int) bool {
		return data.Participants[i].TotalScore > data.Participants[j].TotalScore
	})
	if err := s.fillParticipantNames(data.Participants); err != nil {
		return nil, err
	}

	return s.persist(
		&model.Report{
			EventID:     &event.ID,
			ReportType:  model.ReportEventWise,
			Title:       fmt.Sprintf("Event Report: %s", event.Name),
			GeneratedBy: generatedBy,
		},
		data,
	)
}

func (s *reportService) buildRoundReport(round model.Round) (*dto.RoundReport, error) {
	report := dto.RoundReport{
		RoundID:     round.ID,
		Name:        round.Name,
		RoundNumber: round.RoundNumber,
	}

	questions, err := s.questionRepo.FindByRoundID(round.ID)
	if err != nil {
		return nil, fmt.Errorf("loading questions for round %d: %w", round.ID, err)
	}
	statByQuestion := make(map[uint]*dto.QuestionStat, len(questions))
	report.QuestionStats = make([]dto.QuestionStat, len(questions))
	for i, q := range questions {
		report.QuestionStats[i] = dto.QuestionStat{QuestionID: q.ID, QuestionNumber: q.QuestionNumber}
		statByQuestion[q.ID] = &report.QuestionStats[i]
	}

	attempts, err := s.attemptRepo.FindByRoundID(round.ID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts for round %d: %w", round.ID, err)
	}

	scoreSum := 0
	report.Violations = make([]dto.ParticipantViolationSummary, 0)
	for _, a := range attempts {
		if len(a.ViolationLogs) > 0 || a.TabSwitchCount > 0 || a.RefreshAttemptCount > 0 {
			report.Violations = append(report.Violations, dto.ParticipantViolationSummary{
				UserID:              a.UserID,
				TabSwitchCount:      a.TabSwitchCount,
				RefreshAttemptCount: a.RefreshAttemptCount,
				TotalLogged:         len(a.ViolationLogs),
			})
		}
		if a.Status != model.AttemptCompleted {
			continue
		}
		report.CompletedAttempts++
		scoreSum += a.TotalScore

		answers, err := s.answerRepo.FindByAttemptID(a.ID)
		if err != nil {
			return nil, fmt.Errorf("loading answers for attempt %d: %w", a.ID, err)
		}
		for _, ans := range answers {
			stat, ok := statByQuestion[ans.QuestionID]
			if !ok {
				continue
			}
			stat.TotalAnswers++
			if ans.IsCorrect != nil && *ans.IsCorrect {
				stat.CorrectAnswers++
			}
		}
	}
	if report.CompletedAttempts > 0 {
		report.AverageScore = float64(scoreSum) / float64(report.CompletedAttempts)
	}

	leaderboard, err := s.leaderboards.RoundLeaderboard(round.ID)
	if err != nil {
		return nil, fmt.Errorf("building leaderboard for round %d: %w", round.ID, err)
	}
	if len(leaderboard) > roundLeaderboardLimit {
		leaderboard = leaderboard[:roundLeaderboardLimit]
	}
	report.Leaderboard = leaderboard
	return &report, nil
}

func (s *reportService) GenerateSymposiumReport(generatedBy uint) (*dto.ReportResponse, error) {
	events, err := s.eventRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}

	data := dto.SymposiumReportData{
		TotalEvents:    len(events),
		EventsByStatus: make(map[string]int),
		GeneratedAt:    time.Now(),
	}
	for _, e := range events {
		data.EventsByStatus[string(e.Status)]++
	}

	data.TotalParticipants, err = s.participantRepo.CountDistinctUsers()
	if err != nil {
		return nil, fmt.Errorf("counting participants: %w", err)
	}

	attempts, err := s.attemptRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("loading attempts: %w", err)
	}

	type rollup struct {
		totalScore        int
		completedAttempts int
	}
	rollups := make(map[uint]*rollup)
	order := make([]uint, 0)
	for _, a := range attempts {
		data.TotalTabSwitches += a.TabSwitchCount
		data.TotalRefreshAttempts += a.RefreshAttemptCount
		data.TotalViolationEvents += len(a.ViolationLogs)
		if a.Status != model.AttemptCompleted {
			continue
		}
		data.CompletedAttempts++
		r, ok := rollups[a.UserID]
		if !ok {
			r = &rollup{}
			rollups[a.UserID] = r
			order = append(order, a.UserID)
		}
		r.totalScore += a.TotalScore
		r.completedAttempts++
	}

	performers := make([]dto.PerformerEntry, 0, len(rollups))
	for _, userID := range order {
		r := rollups[userID]
		performers = append(performers, dto.PerformerEntry{
			UserID:            userID,
			TotalScore:        r.totalScore,
			CompletedAttempts: r.completedAttempts,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].TotalScore > performers[j].TotalScore
	})
	if len(performers) > topPerformersLimit {
		performers = performers[:topPerformersLimit]
	}
	if err := s.fillPerformerNames(performers); err != nil {
		return nil, err
	}
	data.TopPerformers = performers

	return s.persist(
		&model.Report{
			ReportType:  model.ReportSymposiumWide,
			Title:       "Symposium Report",
			GeneratedBy: generatedBy,
		},
		data,
	)
}

func (s *reportService) Get(reportID uint) (*dto.ReportResponse, error) {
	report, err := s.reportRepo.FindByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("report %d does not exist", reportID)
		}
		return nil, fmt.Errorf("loading report %d: %w", reportID, err)
	}
	return toReportResponse(report)
}

func (s *reportService) List() ([]dto.ReportResponse, error) {
	reports, err := s.reportRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return toReportResponses(reports)
}

func (s *reportService) ListByEvent(eventID uint) ([]dto.ReportResponse, error) {
	if _, err := s.eventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("event %d does not exist", eventID)
		}
		return nil, fmt.Errorf("loading event %d: %w", eventID, err)
	}
	reports, err := s.reportRepo.FindByEventID(eventID)
	if err != nil {
		return nil, fmt.Errorf("listing reports for event %d: %w", eventID, err)
	}
	return toReportResponses(reports)
}

func (s *reportService) persist(report *model.Report, data interface{}) (*dto.ReportResponse, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding report data: %w", err)
	}
	report.ReportData = datatypes.JSON(payload)
	if err := s.reportRepo.Create(report); err != nil {
		return nil, fmt.Errorf("persisting report: %w", err)
	}
	log.Info().Uint("reportID", report.ID).Str("type", string(report.ReportType)).Msg("Report generated")
	return toReportResponse(report)
}

func (s *reportService) fillParticipantNames(rollups []dto.ParticipantRollup) error {
	ids := make([]uint, 0, len(rollups))
	for _, r := range rollups {
		ids = append(ids, r.UserID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("loading report users: %w", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range rollups {
		if u, ok := byID[rollups[i].UserID]; ok {
			rollups[i].FullName = u.FullName
		}
	}
	return nil
}

func (s *reportService) fillPerformerNames(performers []dto.PerformerEntry) error {
	ids := make([]uint, 0, len(performers))
	for _, p := range performers {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("loading report users: %w", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range performers {
		if u, ok := byID[performers[i].UserID]; ok {
			performers[i].FullName = u.FullName
		}
	}
	return nil
}

func toReportResponse(report *model.Report) (*dto.ReportResponse, error) {
	var resp dto.ReportResponse
	if err := copier.Copy(&resp, report); err != nil {
		return nil, fmt.Errorf("copying report %d to response: %w", report.ID, err)
	}
	resp.ReportData = json.RawMessage(report.ReportData)
	return &resp, nil
}

func toReportResponses(reports []model.Report) ([]dto.ReportResponse, error) {
	responses := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		resp, err := toReportResponse(&reports[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}
