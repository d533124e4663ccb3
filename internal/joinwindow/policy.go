// Package joinwindow decides whether a session may be started or joined at a
// given instant relative to its scheduled time.
package joinwindow

import (
	"fmt"
	"time"
)

// DefaultGraceAfter is how long after the scheduled instant a join is still
// permitted. It absorbs late arrivals and minor clock drift between services.
const DefaultGraceAfter = 2 * time.Hour

// Policy describes the permitted interaction window around a scheduled time.
// A join at instant t is allowed when
// scheduledAt-GraceBefore <= t <= scheduledAt+GraceAfter.
type Policy struct {
	GraceBefore time.Duration
	GraceAfter  time.Duration
}

// Default returns the standard policy: no early joins, two hours of grace
// after the scheduled instant.
func Default() Policy {
	return Policy{GraceBefore: 0, GraceAfter: DefaultGraceAfter}
}

// Violation reports why an instant falls outside the join window.
type Violation struct {
	ScheduledAt time.Time
	Now         time.Time
	// TooEarly is true when the window has not opened yet, false when it has
	// already closed.
	TooEarly bool
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v == nil {
		return ""
	}
	if v.TooEarly {
		return fmt.Sprintf("joinwindow: window opens at %s", v.ScheduledAt.Format(time.RFC3339))
	}
	return "joinwindow: window has already closed"
}

// Check validates that now falls within the join window anchored at
// scheduledAt. It returns a *Violation when it does not.
func (p Policy) Check(now, scheduledAt time.Time) error {
	opens := scheduledAt.Add(-p.GraceBefore)
	closes := scheduledAt.Add(p.GraceAfter)

	if now.Before(opens) {
		return &Violation{ScheduledAt: scheduledAt, Now: now, TooEarly: true}
	}
	if now.After(closes) {
		return &Violation{ScheduledAt: scheduledAt, Now: now, TooEarly: false}
	}
	return nil
}
