package joinwindow

import (
	"errors"
	"testing"
	"time"
)

func TestPolicy_Check(t *testing.T) {
	scheduled := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	policy := Default()

	t.Run("rejects one second before the scheduled time", func(t *testing.T) {
		err := policy.Check(scheduled.Add(-time.Second), scheduled)

		var violation *Violation
		if !errors.As(err, &violation) {
			t.Fatalf("expected Violation, got %v", err)
		}
		if !violation.TooEarly {
			t.Fatalf("expected TooEarly violation, got %+v", violation)
		}
	})

	t.Run("accepts the scheduled instant", func(t *testing.T) {
		if err := policy.Check(scheduled, scheduled); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("accepts the last instant of the grace period", func(t *testing.T) {
		if err := policy.Check(scheduled.Add(DefaultGraceAfter), scheduled); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("rejects one second after the grace period", func(t *testing.T) {
		err := policy.Check(scheduled.Add(DefaultGraceAfter+time.Second), scheduled)

		var violation *Violation
		if !errors.As(err, &violation) {
			t.Fatalf("expected Violation, got %v", err)
		}
		if violation.TooEarly {
			t.Fatalf("expected TooLate violation, got %+v", violation)
		}
	})

	t.Run("honours a grace-before allowance", func(t *testing.T) {
		early := Policy{GraceBefore: 10 * time.Minute, GraceAfter: time.Hour}

		if err := early.Check(scheduled.Add(-5*time.Minute), scheduled); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if err := early.Check(scheduled.Add(-11*time.Minute), scheduled); err == nil {
			t.Fatal("expected violation before the early-grace boundary")
		}
	})
}
