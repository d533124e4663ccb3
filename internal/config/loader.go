package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration for the session service.
type Config struct {
	HTTPPort  int
	SQLiteDSN string

	// Room token signing. The secret has no default; startup fails without it.
	RoomAPIKey    string
	RoomAPISecret string
	RoomTokenTTL  time.Duration

	// Join window around the scheduled instant.
	JoinGraceBefore time.Duration
	JoinGraceAfter  time.Duration

	// Collaborator endpoints.
	ProfileServiceURL string
	ScoringServiceURL string

	// Meeting invite delivery.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// Base URL rendered into invite join links.
	JoinURLBase string
}

// Load parses configuration from the current process environment, applying
// defaults for optional fields and reporting missing or invalid entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:sessions.db",
		RoomTokenTTL:   time.Hour,
		JoinGraceAfter: 2 * time.Hour,
		SMTPPort:       587,
		JoinURLBase:    "http://localhost:3000",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SESSIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SESSIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SESSIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.RoomAPIKey = strings.TrimSpace(os.Getenv("SESSIONS_ROOM_API_KEY"))
	if secret := strings.TrimSpace(os.Getenv("SESSIONS_ROOM_API_SECRET")); secret == "" {
		missing = append(missing, "SESSIONS_ROOM_API_SECRET")
	} else {
		cfg.RoomAPISecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SESSIONS_ROOM_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SESSIONS_ROOM_TOKEN_TTL")
		} else {
			cfg.RoomTokenTTL = ttl
		}
	}

	if graceValue := strings.TrimSpace(os.Getenv("SESSIONS_JOIN_GRACE_BEFORE")); graceValue != "" {
		grace, err := time.ParseDuration(graceValue)
		if err != nil || grace < 0 {
			invalid = append(invalid, "SESSIONS_JOIN_GRACE_BEFORE")
		} else {
			cfg.JoinGraceBefore = grace
		}
	}

	if graceValue := strings.TrimSpace(os.Getenv("SESSIONS_JOIN_GRACE_AFTER")); graceValue != "" {
		grace, err := time.ParseDuration(graceValue)
		if err != nil || grace <= 0 {
			invalid = append(invalid, "SESSIONS_JOIN_GRACE_AFTER")
		} else {
			cfg.JoinGraceAfter = grace
		}
	}

	if base := strings.TrimSpace(os.Getenv("SESSIONS_PROFILE_SERVICE_URL")); base == "" {
		missing = append(missing, "SESSIONS_PROFILE_SERVICE_URL")
	} else {
		cfg.ProfileServiceURL = base
	}

	if base := strings.TrimSpace(os.Getenv("SESSIONS_SCORING_SERVICE_URL")); base == "" {
		missing = append(missing, "SESSIONS_SCORING_SERVICE_URL")
	} else {
		cfg.ScoringServiceURL = base
	}

	cfg.SMTPHost = strings.TrimSpace(os.Getenv("SESSIONS_SMTP_HOST"))
	if portValue := strings.TrimSpace(os.Getenv("SESSIONS_SMTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SESSIONS_SMTP_PORT")
		} else {
			cfg.SMTPPort = port
		}
	}
	cfg.SMTPUsername = strings.TrimSpace(os.Getenv("SESSIONS_SMTP_USERNAME"))
	cfg.SMTPPassword = strings.TrimSpace(os.Getenv("SESSIONS_SMTP_PASSWORD"))
	cfg.SMTPFrom = strings.TrimSpace(os.Getenv("SESSIONS_SMTP_FROM"))

	if base := strings.TrimSpace(os.Getenv("SESSIONS_JOIN_URL_BASE")); base != "" {
		cfg.JoinURLBase = strings.TrimRight(base, "/")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
