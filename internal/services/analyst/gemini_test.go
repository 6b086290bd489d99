package analyst

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"PatternPulse/internal/domain/models"
	"PatternPulse/pkg/config"
	"PatternPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func testEntry() models.SnapshotEntry {
	return models.SnapshotEntry{
		Symbol:             "RELIANCE",
		Name:               "Reliance Industries",
		Sector:             "Energy",
		Price:              2450.50,
		Pattern:            models.PatternCupAndHandle,
		Trend:              models.TrendBullish,
		ConfidenceScore:    82,
		HistoricalAccuracy: 67,
		ExpectedMove:       6.5,
		VolatilityScore:    44,
		PastOccurrences: []models.HistoricalOccurrence{
			{OutcomePercent: 12.5},
			{OutcomePercent: -3.2},
			{OutcomePercent: 8.1},
			{OutcomePercent: 4.4},
		},
	}
}

func testConfig(baseURL, apiKey string) *config.Config {
	cfg := &config.Config{}
	cfg.Gemini.APIKey = apiKey
	cfg.Gemini.BaseURL = baseURL
	cfg.Gemini.Model = "gemini-2.5-flash"
	cfg.Gemini.Timeout = 2 * time.Second
	return cfg
}

func modelReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestAnalyzeWithoutCredentials(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, ""), testLogger(t))
	_, err := a.Analyze(context.Background(), testEntry())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if atomic.LoadInt64(&hits) != 0 {
		t.Fatalf("request was sent despite missing credentials")
	}
}

func TestAnalyzeParsesModelResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("api key not forwarded, query %q", r.URL.RawQuery)
		}

		var req generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("responseMimeType = %q", req.GenerationConfig.ResponseMimeType)
		}
		if req.GenerationConfig.Temperature != 0.2 {
			t.Errorf("temperature = %v", req.GenerationConfig.Temperature)
		}
		prompt := req.Contents[0].Parts[0].Text
		for _, want := range []string{"RELIANCE", "Cup & Handle", "82%"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("prompt missing %q", want)
			}
		}

		modelReply(t, w, `{
			"verdict": "Buy",
			"summary": "Constructive setup.",
			"keyLevels": {"support": "2400", "resistance": "2550", "invalidation": "2380"},
			"riskAssessment": "Moderate volatility, size accordingly."
		}`)
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, "test-key"), testLogger(t))
	got, err := a.Analyze(context.Background(), testEntry())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Verdict != models.VerdictBuy {
		t.Fatalf("verdict = %q, want Buy", got.Verdict)
	}
	if got.KeyLevels.Support != "2400" {
		t.Fatalf("support = %q, want 2400", got.KeyLevels.Support)
	}
	if got.Summary == "" || got.RiskAssessment == "" {
		t.Fatalf("summary or risk assessment empty: %+v", got)
	}
}

func TestAnalyzeRejectsUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		modelReply(t, w, "the stock looks great, buy buy buy")
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, "test-key"), testLogger(t))
	_, err := a.Analyze(context.Background(), testEntry())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestAnalyzeRejectsUnknownVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		modelReply(t, w, `{"verdict": "YOLO", "summary": "s", "keyLevels": {}, "riskAssessment": "r"}`)
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, "test-key"), testLogger(t))
	_, err := a.Analyze(context.Background(), testEntry())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestAnalyzeRejectsEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, "test-key"), testLogger(t))
	_, err := a.Analyze(context.Background(), testEntry())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestAnalyzeTransportFailureIsNotMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewGeminiAnalyst(testConfig(srv.URL, "test-key"), testLogger(t))
	_, err := a.Analyze(context.Background(), testEntry())
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("transport failure misclassified: %v", err)
	}
}

func TestBacktestSummaryEmptyHistory(t *testing.T) {
	entry := testEntry()
	entry.PastOccurrences = nil
	if got := backtestSummary(entry); !strings.Contains(got, "No sufficient historical data") {
		t.Fatalf("backtestSummary = %q", got)
	}
}
