package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProfileClient_GetProfile(t *testing.T) {
	t.Run("decodes the profile payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/get-user/user-1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "user-1",
				"name": "Ada",
				"email": "ada@example.com",
				"expertise": "Compilers",
				"type": "INTERVIEWER",
				"confidenceScore": 7.5,
				"overallPerformanceScore": 8.25
			}`))
		}))
		defer server.Close()

		client := NewProfileClient(server.URL, nil)
		profile, err := client.GetProfile(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.DisplayName != "Ada" || profile.Role != "INTERVIEWER" {
			t.Fatalf("unexpected profile %+v", profile)
		}
		if profile.ConfidenceScore != 7.5 || profile.PerformanceScore != 8.25 {
			t.Fatalf("unexpected scores %+v", profile)
		}
	})

	t.Run("reports a non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such user", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewProfileClient(server.URL, nil)
		_, err := client.GetProfile(context.Background(), "missing")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !strings.Contains(err.Error(), "404") {
			t.Fatalf("expected the status in the error, got %v", err)
		}
	})

	t.Run("honors a canceled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewProfileClient(server.URL, nil)
		if _, err := client.GetProfile(ctx, "user-1"); err == nil {
			t.Fatal("expected a context error")
		}
	})
}

func TestProfileClient_UpdateScores(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewProfileClient(server.URL+"/", nil)
	if err := client.UpdateScores(context.Background(), "user-1", 4.5, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/update-score/user-1/4.5/3" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestScoringClient_AnalysesForSession(t *testing.T) {
	t.Run("decodes the analysis list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/get-analysis-by-session/session-1" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`[
				{"confidenceScore": 6, "overallPerformanceScore": 7},
				{"confidenceScore": 8, "overallPerformanceScore": 9}
			]`))
		}))
		defer server.Close()

		client := NewScoringClient(server.URL, nil)
		analyses, err := client.AnalysesForSession(context.Background(), "session-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(analyses) != 2 || analyses[1].PerformanceScore != 9 {
			t.Fatalf("unexpected analyses %+v", analyses)
		}
	})

	t.Run("treats an empty list as zero analyses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewScoringClient(server.URL, nil)
		analyses, err := client.AnalysesForSession(context.Background(), "session-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(analyses) != 0 {
			t.Fatalf("expected no analyses, got %+v", analyses)
		}
	})
}
