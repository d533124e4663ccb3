// Package roomtoken mints signed, short-lived capability tokens granting a
// participant publish/subscribe rights in a single real-time media room.
package roomtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL bounds how long an issued token stays valid. Expiry is enforced
// by the media layer consuming the token, not by this service.
const DefaultTTL = time.Hour

// ErrMissingSecret is returned by NewIssuer when no signing secret is
// configured. This is a startup failure, never a per-call condition.
var ErrMissingSecret = errors.New("roomtoken: signing secret is not configured")

// Grant is the nested capability object binding a participant to one room.
type Grant struct {
	Room           string `json:"room"`
	RoomJoin       bool   `json:"roomJoin"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

type claims struct {
	jwt.RegisteredClaims
	Video Grant `json:"video"`
}

// Issuer signs room capability tokens with a pre-shared symmetric key.
type Issuer struct {
	apiKey string
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer validates the signing material and returns an issuer. An empty
// secret is rejected so the failure surfaces at process start.
func NewIssuer(apiKey, secret string, ttl time.Duration, now func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{apiKey: apiKey, secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue mints a fresh HS256 token for the participant in the given room.
// Tokens are never cached; every call produces a new claim set.
func (i *Issuer) Issue(roomID, participant string) (string, error) {
	if i == nil {
		return "", ErrMissingSecret
	}
	if roomID == "" {
		return "", errors.New("roomtoken: room id is required")
	}
	if participant == "" {
		return "", errors.New("roomtoken: participant identity is required")
	}

	issuedAt := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   participant,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
		Video: Grant{
			Room:           roomID,
			RoomJoin:       true,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("roomtoken: signing failed: %w", err)
	}
	return signed, nil
}
