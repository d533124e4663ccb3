package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/example/interview-sessions/internal/application"
)

// ProfileClient talks to the external profile store over HTTP. It implements
// application.ProfileStore.
type ProfileClient struct {
	baseURL string
	client  httpDoer
}

// NewProfileClient constructs a client for the profile store at baseURL.
// client may be nil; a default with a request timeout is used.
func NewProfileClient(baseURL string, client httpDoer) *ProfileClient {
	return &ProfileClient{baseURL: trimBase(baseURL), client: defaultClient(client)}
}

type profileDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Expertise        string  `json:"expertise"`
	Type             string  `json:"type"`
	ConfidenceScore  float64 `json:"confidenceScore"`
	PerformanceScore float64 `json:"overallPerformanceScore"`
}

// GetProfile fetches a user's profile.
func (c *ProfileClient) GetProfile(ctx context.Context, userID string) (application.Profile, error) {
	var dto profileDTO
	endpoint := fmt.Sprintf("%s/get-user/%s", c.baseURL, url.PathEscape(userID))
	if err := getJSON(ctx, c.client, endpoint, &dto); err != nil {
		return application.Profile{}, err
	}
	return application.Profile{
		ID:               dto.ID,
		DisplayName:      dto.Name,
		Email:            dto.Email,
		Expertise:        dto.Expertise,
		Role:             dto.Type,
		ConfidenceScore:  dto.ConfidenceScore,
		PerformanceScore: dto.PerformanceScore,
	}, nil
}

// UpdateScores pushes the blended confidence and performance averages. The
// store's route carries the scores as path segments.
func (c *ProfileClient) UpdateScores(ctx context.Context, userID string, confidence, performance float64) error {
	endpoint := fmt.Sprintf("%s/update-score/%s/%s/%s",
		c.baseURL,
		url.PathEscape(userID),
		strconv.FormatFloat(confidence, 'f', -1, 64),
		strconv.FormatFloat(performance, 'f', -1, 64))
	return postStatus(ctx, c.client, endpoint)
}
