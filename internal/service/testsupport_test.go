package service

import (
	"sort"
	"sync"
	"time"

	"github.com/symposium-hq/sympro/internal/model"
	"github.com/symposium-hq/sympro/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the persistence contracts the
// services rely on: gorm.ErrRecordNotFound for absent rows,
// gorm.ErrDuplicatedKey for unique-index collisions, and the finalized-state
// checks of the attempt repository.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIDs(ids []uint) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []model.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events map[uint]model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uint]model.Event)}
}

func (r *fakeEventRepo) Create(event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now()
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) FindByID(id uint) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (r *fakeEventRepo) FindAll() ([]model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]model.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *fakeEventRepo) Update(event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

type fakeRuleRepo struct {
	mu         sync.Mutex
	nextID     uint
	eventRules map[uint]model.EventRules // by EventID
	roundRules map[uint]model.RoundRules // by RoundID
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{
		eventRules: make(map[uint]model.EventRules),
		roundRules: make(map[uint]model.RoundRules),
	}
}

func (r *fakeRuleRepo) FindByEventID(eventID uint) (*model.EventRules, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rules, ok := r.eventRules[eventID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rules, nil
}

func (r *fakeRuleRepo) CreateEventRules(rules *model.EventRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.eventRules[rules.EventID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	rules.ID = r.nextID
	r.eventRules[rules.EventID] = *rules
	return nil
}

func (r *fakeRuleRepo) UpdateEventRules(rules *model.EventRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventRules[rules.EventID] = *rules
	return nil
}

func (r *fakeRuleRepo) FindByRoundID(roundID uint) (*model.RoundRules, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rules, ok := r.roundRules[roundID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &rules, nil
}

func (r *fakeRuleRepo) CreateRoundRules(rules *model.RoundRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roundRules[rules.RoundID]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	rules.ID = r.nextID
	r.roundRules[rules.RoundID] = *rules
	return nil
}

func (r *fakeRuleRepo) UpdateRoundRules(rules *model.RoundRules) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roundRules[rules.RoundID] = *rules
	return nil
}

type fakeRoundRepo struct {
	mu     sync.Mutex
	nextID uint
	rounds map[uint]model.Round
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: make(map[uint]model.Round)}
}

func (r *fakeRoundRepo) Create(round *model.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	round.ID = r.nextID
	r.rounds[round.ID] = *round
	return nil
}

func (r *fakeRoundRepo) FindByID(id uint) (*model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	round, ok := r.rounds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &round, nil
}

func (r *fakeRoundRepo) FindByEventID(eventID uint) ([]model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rounds []model.Round
	for _, round := range r.rounds {
		if round.EventID == eventID {
			rounds = append(rounds, round)
		}
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	return rounds, nil
}

func (r *fakeRoundRepo) Update(round *model.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rounds[round.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rounds[round.ID] = *round
	return nil
}

func (r *fakeRoundRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rounds, id)
	return nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    uint
	questions map[uint]model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[uint]model.Question)}
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	question.ID = r.nextID
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (r *fakeQuestionRepo) FindByRoundID(roundID uint) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var questions []model.Question
	for _, q := range r.questions {
		if q.RoundID == roundID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].QuestionNumber < questions[j].QuestionNumber })
	return questions, nil
}

func (r *fakeQuestionRepo) SumPointsByRoundID(roundID uint) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, q := range r.questions {
		if q.RoundID == roundID {
			total += q.Points
		}
	}
	return total, nil
}

func (r *fakeQuestionRepo) Update(question *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[question.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.questions[question.ID] = *question
	return nil
}

func (r *fakeQuestionRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
	return nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	nextID       uint
	participants map[uint]model.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[uint]model.Participant)}
}

func (r *fakeParticipantRepo) Create(participant *model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.EventID == participant.EventID && p.UserID == participant.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	participant.ID = r.nextID
	participant.RegisteredAt = time.Now()
	r.participants[participant.ID] = *participant
	return nil
}

func (r *fakeParticipantRepo) FindByEventID(eventID uint) ([]model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var participants []model.Participant
	for _, p := range r.participants {
		if p.EventID == eventID {
			participants = append(participants, p)
		}
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].ID < participants[j].ID })
	return participants, nil
}

func (r *fakeParticipantRepo) FindByUserID(userID uint) ([]model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var participants []model.Participant
	for _, p := range r.participants {
		if p.UserID == userID {
			participants = append(participants, p)
		}
	}
	return participants, nil
}

func (r *fakeParticipantRepo) FindByEventAndUser(eventID, userID uint) (*model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.EventID == eventID && p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeParticipantRepo) Update(participant *model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[participant.ID] = *participant
	return nil
}

func (r *fakeParticipantRepo) CountDistinctUsers() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[uint]struct{})
	for _, p := range r.participants {
		seen[p.UserID] = struct{}{}
	}
	return int64(len(seen)), nil
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	nextID   uint
	attempts map[uint]model.TestAttempt
	rounds   *fakeRoundRepo
	answers  *fakeAnswerRepo
}

func newFakeAttemptRepo(rounds *fakeRoundRepo, answers *fakeAnswerRepo) *fakeAttemptRepo {
	return &fakeAttemptRepo{
		attempts: make(map[uint]model.TestAttempt),
		rounds:   rounds,
		answers:  answers,
	}
}

func (r *fakeAttemptRepo) Create(attempt *model.TestAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.RoundID == attempt.RoundID && a.UserID == attempt.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	attempt.ID = r.nextID
	r.attempts[attempt.ID] = *attempt
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *fakeAttemptRepo) FindByUserAndRound(userID, roundID uint) (*model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.UserID == userID && a.RoundID == roundID {
			a := a
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) FindByUserID(userID uint) ([]model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var attempts []model.TestAttempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *fakeAttemptRepo) FindByRoundID(roundID uint) ([]model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var attempts []model.TestAttempt
	for _, a := range r.attempts {
		if a.RoundID == roundID {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *fakeAttemptRepo) FindByRoundAndStatus(roundID uint, status model.AttemptStatus) ([]model.TestAttempt, error) {
	attempts, _ := r.FindByRoundID(roundID)
	var filtered []model.TestAttempt
	for _, a := range attempts {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (r *fakeAttemptRepo) FindByEventAndStatus(eventID uint, status model.AttemptStatus) ([]model.TestAttempt, error) {
	rounds, _ := r.rounds.FindByEventID(eventID)
	roundIDs := make(map[uint]struct{}, len(rounds))
	for _, round := range rounds {
		roundIDs[round.ID] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var attempts []model.TestAttempt
	for _, a := range r.attempts {
		if _, ok := roundIDs[a.RoundID]; ok && a.Status == status {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *fakeAttemptRepo) FindAll() ([]model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempts := make([]model.TestAttempt, 0, len(r.attempts))
	for _, a := range r.attempts {
		attempts = append(attempts, a)
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *fakeAttemptRepo) FindAllByStatus(status model.AttemptStatus) ([]model.TestAttempt, error) {
	attempts, _ := r.FindAll()
	var filtered []model.TestAttempt
	for _, a := range attempts {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (r *fakeAttemptRepo) FindOverdue(asOf time.Time, grace time.Duration) ([]model.TestAttempt, error) {
	attempts, _ := r.FindAllByStatus(model.AttemptInProgress)
	var overdue []model.TestAttempt
	for _, a := range attempts {
		round, err := r.rounds.FindByID(a.RoundID)
		if err != nil {
			continue
		}
		deadline := a.StartedAt.Add(time.Duration(round.Duration) * time.Minute)
		if !deadline.After(asOf.Add(-grace)) {
			overdue = append(overdue, a)
		}
	}
	return overdue, nil
}

func (r *fakeAttemptRepo) RecordViolation(attemptID uint, entry model.ViolationLog, incTabSwitch, incRefresh bool) (*model.TestAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[attemptID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if a.Status != model.AttemptInProgress {
		return nil, repository.ErrAttemptFinalized
	}
	a.ViolationLogs = append(a.ViolationLogs, entry)
	if incTabSwitch {
		a.TabSwitchCount++
	}
	if incRefresh {
		a.RefreshAttemptCount++
	}
	r.attempts[attemptID] = a
	return &a, nil
}

func (r *fakeAttemptRepo) Finalize(f repository.AttemptFinalization) error {
	r.mu.Lock()
	a, ok := r.attempts[f.AttemptID]
	if !ok {
		r.mu.Unlock()
		return gorm.ErrRecordNotFound
	}
	if a.Status != model.AttemptInProgress {
		r.mu.Unlock()
		return repository.ErrAttemptFinalized
	}
	a.Status = f.Status
	a.TotalScore = f.TotalScore
	submittedAt := f.SubmittedAt
	completedAt := f.CompletedAt
	a.SubmittedAt = &submittedAt
	a.CompletedAt = &completedAt
	r.attempts[f.AttemptID] = a
	r.mu.Unlock()

	for i := range f.Answers {
		if err := r.answers.Update(&f.Answers[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	nextID  uint
	answers map[uint]model.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[uint]model.Answer)}
}

func (r *fakeAnswerRepo) Create(answer *model.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.answers {
		if a.AttemptID == answer.AttemptID && a.QuestionID == answer.QuestionID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	answer.ID = r.nextID
	r.answers[answer.ID] = *answer
	return nil
}

func (r *fakeAnswerRepo) Update(answer *model.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.answers[answer.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.answers[answer.ID] = *answer
	return nil
}

func (r *fakeAnswerRepo) FindByAttemptID(attemptID uint) ([]model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var answers []model.Answer
	for _, a := range r.answers {
		if a.AttemptID == attemptID {
			answers = append(answers, a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers, nil
}

func (r *fakeAnswerRepo) FindByAttemptAndQuestion(attemptID, questionID uint) (*model.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.answers {
		if a.AttemptID == attemptID && a.QuestionID == questionID {
			a := a
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeReportRepo struct {
	mu      sync.Mutex
	nextID  uint
	reports map[uint]model.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[uint]model.Report)}
}

func (r *fakeReportRepo) Create(report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	report.ID = r.nextID
	report.CreatedAt = time.Now()
	r.reports[report.ID] = *report
	return nil
}

func (r *fakeReportRepo) FindByID(id uint) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &report, nil
}

func (r *fakeReportRepo) FindAll() ([]model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reports := make([]model.Report, 0, len(r.reports))
	for _, report := range r.reports {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].ID < reports[j].ID })
	return reports, nil
}

func (r *fakeReportRepo) FindByEventID(eventID uint) ([]model.Report, error) {
	reports, _ := r.FindAll()
	var filtered []model.Report
	for _, report := range reports {
		if report.EventID != nil && *report.EventID == eventID {
			filtered = append(filtered, report)
		}
	}
	return filtered, nil
}

func (r *fakeReportRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, id)
	return nil
}

// testEnv bundles the fakes and the services under test.
type testEnv struct {
	users        *fakeUserRepo
	events       *fakeEventRepo
	rules        *fakeRuleRepo
	rounds       *fakeRoundRepo
	questions    *fakeQuestionRepo
	participants *fakeParticipantRepo
	attempts     *fakeAttemptRepo
	answers      *fakeAnswerRepo
	reports      *fakeReportRepo

	rulesService       RulesService
	attemptService     AttemptService
	answerService      AnswerService
	violationService   ViolationService
	leaderboardService LeaderboardService
	reportService      ReportService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:        newFakeUserRepo(),
		events:       newFakeEventRepo(),
		rules:        newFakeRuleRepo(),
		rounds:       newFakeRoundRepo(),
		questions:    newFakeQuestionRepo(),
		participants: newFakeParticipantRepo(),
		answers:      newFakeAnswerRepo(),
		reports:      newFakeReportRepo(),
	}
	env.attempts = newFakeAttemptRepo(env.rounds, env.answers)

	env.rulesService = NewRulesService(env.rounds, env.rules)
	env.attemptService = NewAttemptService(env.rounds, env.questions, env.attempts, env.answers)
	env.answerService = NewAnswerService(env.attempts, env.questions, env.answers)
	env.violationService = NewViolationService(env.attempts, env.rulesService, env.attemptService)
	env.leaderboardService = NewLeaderboardService(env.events, env.rounds, env.attempts, env.users)
	env.reportService = NewReportService(
		env.events, env.rounds, env.questions, env.attempts, env.answers,
		env.participants, env.users, env.reports, env.leaderboardService,
	)
	return env
}

func (env *testEnv) addUser(username, fullName string) model.User {
	user := model.User{Username: username, Email: username + "@example.com", FullName: fullName, Password: "x", Role: model.RoleParticipant}
	_ = env.users.Create(&user)
	return user
}

func (env *testEnv) addEvent(name string) model.Event {
	event := model.Event{Name: name, Description: "d", Type: "quiz", Status: model.EventActive, CreatedBy: 1}
	_ = env.events.Create(&event)
	return event
}

func (env *testEnv) addRound(eventID uint, durationMinutes int) model.Round {
	round := model.Round{EventID: eventID, Name: "Round", RoundNumber: 1, Duration: durationMinutes, Status: model.RoundActive}
	_ = env.rounds.Create(&round)
	return round
}

func (env *testEnv) addQuestion(roundID uint, number int, qType model.QuestionType, points int, correct string) model.Question {
	question := model.Question{
		RoundID:        roundID,
		QuestionType:   qType,
		QuestionText:   "q",
		QuestionNumber: number,
		Points:         points,
	}
	if correct != "" {
		question.CorrectAnswer = &correct
	}
	_ = env.questions.Create(&question)
	return question
}
