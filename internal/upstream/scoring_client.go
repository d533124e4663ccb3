package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/example/interview-sessions/internal/application"
)

// ScoringClient talks to the AI scoring provider over HTTP. It implements
// application.ScoringProvider.
type ScoringClient struct {
	baseURL string
	client  httpDoer
}

// NewScoringClient constructs a client for the scoring provider at baseURL.
// client may be nil; a default with a request timeout is used.
func NewScoringClient(baseURL string, client httpDoer) *ScoringClient {
	return &ScoringClient{baseURL: trimBase(baseURL), client: defaultClient(client)}
}

type analysisDTO struct {
	ConfidenceScore  float64 `json:"confidenceScore"`
	PerformanceScore float64 `json:"overallPerformanceScore"`
}

// AnalysesForSession fetches every analysis record produced for the session.
// A session no analysis was run for yields an empty slice, not an error.
func (c *ScoringClient) AnalysesForSession(ctx context.Context, sessionID string) ([]application.Analysis, error) {
	var dtos []analysisDTO
	endpoint := fmt.Sprintf("%s/get-analysis-by-session/%s", c.baseURL, url.PathEscape(sessionID))
	if err := getJSON(ctx, c.client, endpoint, &dtos); err != nil {
		return nil, err
	}

	analyses := make([]application.Analysis, 0, len(dtos))
	for _, dto := range dtos {
		analyses = append(analyses, application.Analysis{
			ConfidenceScore:  dto.ConfidenceScore,
			PerformanceScore: dto.PerformanceScore,
		})
	}
	return analyses, nil
}
