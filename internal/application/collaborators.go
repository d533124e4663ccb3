package application

import "context"

// ProfileStore exposes the external user-profile lookups the orchestrator
// depends on. Implementations map transport failures to UpstreamError.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	UpdateScores(ctx context.Context, userID string, confidence, performance float64) error
}

// ScoringProvider returns the AI-analysis records recorded for a session.
type ScoringProvider interface {
	AnalysesForSession(ctx context.Context, sessionID string) ([]Analysis, error)
}

// NotificationSender delivers meeting invites. Calls are fire-and-forget from
// the orchestrator's perspective; failures are reported, never surfaced.
type NotificationSender interface {
	SendMeetingInvite(ctx context.Context, invite MeetingInvite) error
}

// TokenIssuer mints a fresh room capability token per call.
type TokenIssuer interface {
	Issue(roomID, participant string) (string, error)
}
