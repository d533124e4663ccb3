package roomtoken

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewIssuer(t *testing.T) {
	t.Run("rejects a missing secret", func(t *testing.T) {
		_, err := NewIssuer("api-key", "", 0, nil)
		if !errors.Is(err, ErrMissingSecret) {
			t.Fatalf("expected ErrMissingSecret, got %v", err)
		}
	})

	t.Run("applies the default TTL", func(t *testing.T) {
		issuer, err := NewIssuer("api-key", "secret", 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if issuer.ttl != DefaultTTL {
			t.Fatalf("expected default TTL %v, got %v", DefaultTTL, issuer.ttl)
		}
	})
}

func TestIssuer_Issue(t *testing.T) {
	issuedAt := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	issuer, err := NewIssuer("api-key", "super-secret", time.Hour, func() time.Time { return issuedAt })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("binds the participant to exactly one room", func(t *testing.T) {
		signed, err := issuer.Issue("room-42", "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		parsed := claims{}
		_, err = jwt.ParseWithClaims(signed, &parsed, func(token *jwt.Token) (any, error) {
			return []byte("super-secret"), nil
		}, jwt.WithTimeFunc(func() time.Time { return issuedAt }))
		if err != nil {
			t.Fatalf("failed to parse token: %v", err)
		}

		if parsed.Issuer != "api-key" {
			t.Fatalf("expected issuer api-key, got %q", parsed.Issuer)
		}
		if parsed.Subject != "user-1" {
			t.Fatalf("expected subject user-1, got %q", parsed.Subject)
		}
		if parsed.Video.Room != "room-42" {
			t.Fatalf("expected room room-42, got %q", parsed.Video.Room)
		}
		if !parsed.Video.RoomJoin || !parsed.Video.CanPublish || !parsed.Video.CanSubscribe || !parsed.Video.CanPublishData {
			t.Fatalf("expected full grant set, got %+v", parsed.Video)
		}
		if got := parsed.ExpiresAt.Time; !got.Equal(issuedAt.Add(time.Hour)) {
			t.Fatalf("expected expiry %v, got %v", issuedAt.Add(time.Hour), got)
		}
	})

	t.Run("mints a fresh token per call", func(t *testing.T) {
		tick := issuedAt
		counting, err := NewIssuer("api-key", "super-secret", time.Hour, func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first, err := counting.Issue("room-42", "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := counting.Issue("room-42", "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first == second {
			t.Fatal("expected distinct tokens for consecutive calls")
		}
	})

	t.Run("requires a room and participant", func(t *testing.T) {
		if _, err := issuer.Issue("", "user-1"); err == nil {
			t.Fatal("expected error for missing room id")
		}
		if _, err := issuer.Issue("room-42", ""); err == nil {
			t.Fatal("expected error for missing participant")
		}
	})
}
