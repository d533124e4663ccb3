package application

import (
	"time"

	"github.com/example/interview-sessions/internal/persistence"
)

// mergeJoin admits userID into the session's empty participant seat and
// transitions it to ONGOING. It enumerates exactly the fields a join may
// touch: one participant slot, status, startedAt and updatedAt. Everything
// else is carried through untouched.
//
// A user already seated keeps their seat (a rejoin re-issues a token, nothing
// more). When both seats are taken by others the caller lost the rendezvous.
func mergeJoin(session persistence.InterviewSession, userID string, now time.Time) (persistence.InterviewSession, error) {
	seated := (session.IntervieweeID != nil && *session.IntervieweeID == userID) ||
		(session.InterviewerID != nil && *session.InterviewerID == userID)

	if !seated {
		switch {
		case session.IntervieweeID == nil:
			session.IntervieweeID = &userID
		case session.InterviewerID == nil:
			session.InterviewerID = &userID
		default:
			return persistence.InterviewSession{}, ErrConflict
		}
	}

	session.Status = persistence.StatusOngoing
	// startedAt is set exactly once, on the first transition into ONGOING.
	if session.StartedAt == nil {
		session.StartedAt = &now
	}
	session.UpdatedAt = now
	return session, nil
}

// mergeFinish applies a terminal transition. endedAt is set exactly once; the
// caller guarantees the session is not already terminal.
func mergeFinish(session persistence.InterviewSession, terminal persistence.SessionStatus, now time.Time) persistence.InterviewSession {
	session.Status = terminal
	if session.EndedAt == nil {
		session.EndedAt = &now
	}
	session.UpdatedAt = now
	return session
}
