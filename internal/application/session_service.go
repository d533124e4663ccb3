package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/interview-sessions/internal/joinwindow"
	"github.com/example/interview-sessions/internal/persistence"
)

// SessionService is the interview session orchestrator: it schedules
// interviews, drives the SCHEDULED -> ONGOING -> {COMPLETED, CANCELED} state
// machine, issues room tokens, and triggers notification and score-update
// side effects against the external collaborators.
type SessionService struct {
	schedules persistence.ScheduleRepository
	sessions  persistence.SessionRepository
	profiles  ProfileStore
	scoring   ScoringProvider
	notifier  NotificationSender
	tokens    TokenIssuer
	window    joinwindow.Policy

	joinURLBase string
	idGenerator func() string
	now         func() time.Time
	// spawn runs detached side effects. Production wiring uses a goroutine;
	// tests substitute a synchronous runner.
	spawn  func(fn func())
	logger *slog.Logger
}

// SessionServiceConfig wires the orchestrator's collaborators.
type SessionServiceConfig struct {
	Schedules   persistence.ScheduleRepository
	Sessions    persistence.SessionRepository
	Profiles    ProfileStore
	Scoring     ScoringProvider
	Notifier    NotificationSender
	Tokens      TokenIssuer
	Window      joinwindow.Policy
	JoinURLBase string
	IDGenerator func() string
	Now         func() time.Time
	Spawn       func(fn func())
	Logger      *slog.Logger
}

// NewSessionService constructs the orchestrator.
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = func() string { return "" }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Spawn == nil {
		cfg.Spawn = func(fn func()) { go fn() }
	}
	if cfg.Window == (joinwindow.Policy{}) {
		cfg.Window = joinwindow.Default()
	}
	return &SessionService{
		schedules:   cfg.Schedules,
		sessions:    cfg.Sessions,
		profiles:    cfg.Profiles,
		scoring:     cfg.Scoring,
		notifier:    cfg.Notifier,
		tokens:      cfg.Tokens,
		window:      cfg.Window,
		joinURLBase: cfg.JoinURLBase,
		idGenerator: cfg.IDGenerator,
		now:         cfg.Now,
		spawn:       cfg.Spawn,
		logger:      defaultLogger(cfg.Logger),
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// Schedule creates a new scheduled interview owned by the caller. The
// scheduled instant and duration are immutable once created.
func (s *SessionService) Schedule(ctx context.Context, userID string, input ScheduleInput) (persistence.ScheduledInterview, error) {
	logger := s.loggerWith(ctx, "Schedule", "user_id", userID)

	vErr := &ValidationError{}
	if input.ScheduledAt.IsZero() {
		vErr.add("scheduledAt", "scheduled time is required")
	}
	if input.Duration <= 0 {
		vErr.add("duration", "duration must be positive")
	}
	if vErr.HasErrors() {
		return persistence.ScheduledInterview{}, vErr
	}

	schedule := persistence.ScheduledInterview{
		ID:            s.idGenerator(),
		IntervieweeID: userID,
		InterviewerID: input.InterviewerID,
		ScheduledAt:   input.ScheduledAt,
		Duration:      input.Duration,
		CreatedAt:     s.now(),
	}

	created, err := s.schedules.CreateSchedule(ctx, schedule)
	if err != nil {
		logger.ErrorContext(ctx, "schedule creation failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.ScheduledInterview{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "interview scheduled", "schedule_id", created.ID, "scheduled_at", created.ScheduledAt)
	return created, nil
}

// StartSession opens the session for a scheduled interview. The caller must
// be a party to the schedule and the join window must be open. The caller's
// seat is resolved from their profile role; the counterpart is invited by a
// detached notification that never fails this call.
func (s *SessionService) StartSession(ctx context.Context, userID, scheduleID string) (StartedSession, error) {
	logger := s.loggerWith(ctx, "StartSession", "user_id", userID, "schedule_id", scheduleID)

	schedule, err := s.authorizedSchedule(ctx, userID, scheduleID)
	if err != nil {
		logger.ErrorContext(ctx, "start refused", "error", err, "error_kind", ErrorKind(err))
		return StartedSession{}, err
	}

	// The caller profile lookup is independent of room preparation; run it
	// while the room id and token are generated.
	type profileResult struct {
		profile Profile
		err     error
	}
	profileCh := make(chan profileResult, 1)
	lookupCtx := ctx
	go func() {
		profile, err := s.profiles.GetProfile(lookupCtx, userID)
		profileCh <- profileResult{profile: profile, err: err}
	}()

	roomID := s.idGenerator()
	token, err := s.tokens.Issue(roomID, userID)
	if err != nil {
		<-profileCh
		logger.ErrorContext(ctx, "token issuance failed", "error", err)
		return StartedSession{}, upstream("roomtoken", false, err)
	}

	callerResult := <-profileCh
	if callerResult.err != nil {
		logger.ErrorContext(ctx, "caller profile lookup failed", "error", callerResult.err)
		return StartedSession{}, upstream("profile", true, callerResult.err)
	}
	caller := callerResult.profile

	startedAt := s.now()
	session := persistence.InterviewSession{
		ID:        s.idGenerator(),
		Status:    persistence.StatusOngoing,
		Room:      roomID,
		StartedAt: &startedAt,
		CreatedAt: startedAt,
		UpdatedAt: startedAt,
	}
	callerIsInterviewer := caller.Role == RoleInterviewer
	if callerIsInterviewer {
		session.InterviewerID = &userID
	} else {
		session.IntervieweeID = &userID
	}

	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		logger.ErrorContext(ctx, "session creation failed", "error", err)
		return StartedSession{}, mapRepoError(err)
	}

	s.notifyCounterpart(schedule, created, caller, callerIsInterviewer)

	logger.InfoContext(ctx, "session started", "session_id", created.ID, "room", created.Room)
	return StartedSession{Session: created, Token: token}, nil
}

// notifyCounterpart looks up the other party and emails a join link. It runs
// detached from the request; failures land in the error sink, never in the
// caller's response.
func (s *SessionService) notifyCounterpart(schedule persistence.ScheduledInterview, session persistence.InterviewSession, caller Profile, callerIsInterviewer bool) {
	var counterpartID string
	if callerIsInterviewer {
		counterpartID = schedule.IntervieweeID
	} else if schedule.InterviewerID != nil {
		counterpartID = *schedule.InterviewerID
	}
	if counterpartID == "" || s.notifier == nil {
		return
	}

	joinURL := fmt.Sprintf("%s/interview/meeting/%s?session=%s", s.joinURLBase, schedule.ID, session.ID)
	s.spawn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		counterpart, err := s.profiles.GetProfile(ctx, counterpartID)
		if err != nil {
			s.logger.Error("counterpart lookup failed, invite skipped",
				"service", "SessionService", "session_id", session.ID, "counterpart_id", counterpartID, "error", err)
			return
		}

		invite := MeetingInvite{
			ToEmail:         counterpart.Email,
			JoinURL:         joinURL,
			ScheduledAt:     schedule.ScheduledAt,
			Duration:        schedule.Duration,
			RecipientName:   counterpart.DisplayName,
			SenderName:      caller.DisplayName,
			SenderExpertise: caller.Expertise,
		}
		if err := s.notifier.SendMeetingInvite(ctx, invite); err != nil {
			s.logger.Error("meeting invite delivery failed",
				"service", "SessionService", "session_id", session.ID, "to", counterpart.Email, "error", err)
		}
	})
}

// JoinSession admits the second party into an open session: it fills the
// empty participant seat, transitions the session to ONGOING and mints a
// fresh token for the joiner. A lost optimistic-update race is retried once
// before surfacing ErrConflict.
func (s *SessionService) JoinSession(ctx context.Context, userID, sessionID, scheduleID string) (StartedSession, error) {
	logger := s.loggerWith(ctx, "JoinSession", "user_id", userID, "session_id", sessionID, "schedule_id", scheduleID)

	if _, err := s.authorizedSchedule(ctx, userID, scheduleID); err != nil {
		logger.ErrorContext(ctx, "join refused", "error", err, "error_kind", ErrorKind(err))
		return StartedSession{}, err
	}

	var joined persistence.InterviewSession
	// One internal retry on a lost version race; the second loss surfaces
	// as a conflict for the caller to retry.
	for attempt := 0; ; attempt++ {
		session, err := s.sessions.GetSession(ctx, sessionID)
		if err != nil {
			logger.ErrorContext(ctx, "session lookup failed", "error", err)
			return StartedSession{}, mapRepoError(err)
		}
		if session.Status.Terminal() {
			logger.WarnContext(ctx, "join on terminal session", "status", session.Status)
			return StartedSession{}, ErrInvalidState
		}

		merged, err := mergeJoin(session, userID, s.now())
		if err != nil {
			return StartedSession{}, err
		}

		joined, err = s.sessions.UpdateSession(ctx, merged)
		if err == nil {
			break
		}
		if errors.Is(err, persistence.ErrVersionMismatch) && attempt == 0 {
			logger.DebugContext(ctx, "join raced a concurrent update, retrying")
			continue
		}
		if errors.Is(err, persistence.ErrVersionMismatch) {
			return StartedSession{}, ErrConflict
		}
		logger.ErrorContext(ctx, "session update failed", "error", err)
		return StartedSession{}, mapRepoError(err)
	}

	token, err := s.tokens.Issue(joined.Room, userID)
	if err != nil {
		logger.ErrorContext(ctx, "token issuance failed", "error", err)
		return StartedSession{}, upstream("roomtoken", false, err)
	}

	logger.InfoContext(ctx, "session joined", "room", joined.Room)
	return StartedSession{Session: joined, Token: token}, nil
}

// StartAiSession opens a self-practice session against the AI interviewer.
// There is no counterpart, no schedule and no media room.
func (s *SessionService) StartAiSession(ctx context.Context, userID, title string) (persistence.InterviewSession, error) {
	logger := s.loggerWith(ctx, "StartAiSession", "user_id", userID)

	startedAt := s.now()
	session := persistence.InterviewSession{
		ID:            s.idGenerator(),
		IntervieweeID: &userID,
		Status:        persistence.StatusOngoing,
		StartedAt:     &startedAt,
		CreatedAt:     startedAt,
		UpdatedAt:     startedAt,
	}
	if title != "" {
		session.Title = &title
	}

	created, err := s.sessions.CreateSession(ctx, session)
	if err != nil {
		logger.ErrorContext(ctx, "ai session creation failed", "error", err)
		return persistence.InterviewSession{}, mapRepoError(err)
	}

	logger.InfoContext(ctx, "ai session started", "session_id", created.ID)
	return created, nil
}

// EndSession transitions the session to COMPLETED and folds the session's
// analysis scores into the caller's running averages.
func (s *SessionService) EndSession(ctx context.Context, userID, sessionID string) error {
	return s.finishSession(ctx, userID, sessionID, persistence.StatusCompleted)
}

// CancelSession transitions the session to CANCELED and folds the session's
// analysis scores into the caller's running averages.
func (s *SessionService) CancelSession(ctx context.Context, userID, sessionID string) error {
	return s.finishSession(ctx, userID, sessionID, persistence.StatusCanceled)
}

func (s *SessionService) finishSession(ctx context.Context, userID, sessionID string, terminal persistence.SessionStatus) error {
	logger := s.loggerWith(ctx, "FinishSession", "user_id", userID, "session_id", sessionID, "target_status", terminal)

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		logger.ErrorContext(ctx, "session lookup failed", "error", err, "error_kind", ErrorKind(mapRepoError(err)))
		return mapRepoError(err)
	}
	if session.Status.Terminal() {
		return ErrInvalidState
	}

	// Score aggregation runs exactly once, before the terminal transition: a
	// failed upstream call leaves the session open for a retry, and the
	// version-retry below repeats only the row update. Re-running the
	// aggregation would blend the already-updated averages a second time.
	if err := s.aggregateScores(ctx, userID, sessionID); err != nil {
		logger.ErrorContext(ctx, "score aggregation failed", "error", err)
		return err
	}

	for attempt := 0; ; attempt++ {
		merged := mergeFinish(session, terminal, s.now())

		if _, err := s.sessions.UpdateSession(ctx, merged); err != nil {
			if errors.Is(err, persistence.ErrVersionMismatch) && attempt == 0 {
				session, err = s.sessions.GetSession(ctx, sessionID)
				if err != nil {
					logger.ErrorContext(ctx, "session lookup failed", "error", err)
					return mapRepoError(err)
				}
				if session.Status.Terminal() {
					return ErrInvalidState
				}
				continue
			}
			if errors.Is(err, persistence.ErrVersionMismatch) {
				return ErrConflict
			}
			logger.ErrorContext(ctx, "session update failed", "error", err)
			return mapRepoError(err)
		}
		break
	}

	logger.InfoContext(ctx, "session finished", "status", terminal)
	return nil
}

// aggregateScores blends the caller's prior confidence/performance scores
// 50/50 with the mean of the session's analysis records and pushes the result
// to the profile store. A session with zero analyses blends with 0.0, pulling
// the running average down.
func (s *SessionService) aggregateScores(ctx context.Context, userID, sessionID string) error {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return upstream("profile", true, err)
	}

	analyses, err := s.scoring.AnalysesForSession(ctx, sessionID)
	if err != nil {
		return upstream("scoring", true, err)
	}

	var confidenceSum, performanceSum float64
	for _, analysis := range analyses {
		confidenceSum += analysis.ConfidenceScore
		performanceSum += analysis.PerformanceScore
	}
	var confidenceMean, performanceMean float64
	if len(analyses) > 0 {
		confidenceMean = confidenceSum / float64(len(analyses))
		performanceMean = performanceSum / float64(len(analyses))
	}

	newConfidence := (profile.ConfidenceScore + confidenceMean) / 2.0
	newPerformance := (profile.PerformanceScore + performanceMean) / 2.0

	if err := s.profiles.UpdateScores(ctx, userID, newConfidence, newPerformance); err != nil {
		return upstream("profile", true, err)
	}
	return nil
}

// ListSessions returns the caller's sessions, optionally narrowed by status.
// The status filter accepts the empty string or "ALL" as no filter.
func (s *SessionService) ListSessions(ctx context.Context, userID string, request PageRequest, status string) (PageResult[persistence.InterviewSession], error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return PageResult[persistence.InterviewSession]{}, err
	}

	repoPage := request.toRepoPage()
	sessions, total, err := s.sessions.ListSessionsForUser(ctx, userID, filter, repoPage)
	if err != nil {
		return PageResult[persistence.InterviewSession]{}, mapRepoError(err)
	}
	return newPageResult(sessions, repoPage, total), nil
}

// ListSchedules returns the caller's scheduled interviews.
func (s *SessionService) ListSchedules(ctx context.Context, userID string, request PageRequest) (PageResult[persistence.ScheduledInterview], error) {
	repoPage := request.toRepoPage()
	if repoPage.SortBy == "" {
		repoPage.SortBy = "scheduled_at"
	}
	schedules, total, err := s.schedules.ListSchedulesForUser(ctx, userID, repoPage)
	if err != nil {
		return PageResult[persistence.ScheduledInterview]{}, mapRepoError(err)
	}
	return newPageResult(schedules, repoPage, total), nil
}

// authorizedSchedule loads the schedule and verifies the caller is one of its
// parties and that the join window is open.
func (s *SessionService) authorizedSchedule(ctx context.Context, userID, scheduleID string) (persistence.ScheduledInterview, error) {
	schedule, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return persistence.ScheduledInterview{}, mapRepoError(err)
	}

	party := schedule.IntervieweeID == userID
	if schedule.InterviewerID != nil && *schedule.InterviewerID == userID {
		party = true
	}
	if !party {
		return persistence.ScheduledInterview{}, ErrUnauthorized
	}

	if err := s.window.Check(s.now(), schedule.ScheduledAt); err != nil {
		return persistence.ScheduledInterview{}, err
	}
	return schedule, nil
}

func parseStatusFilter(status string) (*persistence.SessionStatus, error) {
	switch status {
	case "", "ALL", "all":
		return nil, nil
	}
	parsed := persistence.SessionStatus(status)
	switch parsed {
	case persistence.StatusScheduled, persistence.StatusOngoing, persistence.StatusCompleted, persistence.StatusCanceled:
		return &parsed, nil
	}
	vErr := &ValidationError{}
	vErr.add("status", "unknown session status")
	return nil, vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrVersionMismatch) {
		return ErrConflict
	}
	return err
}
