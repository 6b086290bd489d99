package analyst

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"PatternPulse/internal/domain/models"
	"PatternPulse/pkg/config"
	xhttp "PatternPulse/pkg/http"
	"PatternPulse/pkg/logger"
)

var (
	// ErrMissingCredentials means no API key is configured. Checked before
	// any request leaves the process.
	ErrMissingCredentials = errors.New("analyst: missing API credentials")

	// ErrMalformedResponse means the model answered but the body could not
	// be turned into a valid Analysis.
	ErrMalformedResponse = errors.New("analyst: malformed model response")
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second

	// Low temperature keeps the assessment consistent across calls.
	defaultTemperature = 0.2
)

// GeminiAnalyst produces trading assessments through the Gemini
// generateContent REST API. One request per Analyze call, no retry.
type GeminiAnalyst struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *xhttp.Client
	logger      *logger.Logger
}

// NewGeminiAnalyst builds the analyst from config. A missing API key is not
// an error here; Analyze reports it per call so the rest of the service can
// run without credentials.
func NewGeminiAnalyst(cfg *config.Config, log *logger.Logger) *GeminiAnalyst {
	baseURL := cfg.Gemini.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Gemini.Model
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Gemini.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	timeout := cfg.Gemini.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GeminiAnalyst{
		apiKey:      cfg.Gemini.APIKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		model:       model,
		temperature: temperature,
		client:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
		logger:      log,
	}
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Analyze asks the model for a structured assessment of one snapshot entry.
func (g *GeminiAnalyst) Analyze(ctx context.Context, entry models.SnapshotEntry) (models.Analysis, error) {
	if g.apiKey == "" {
		return models.Analysis{}, ErrMissingCredentials
	}

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(entry)}}}},
		GenerationConfig: generationConfig{
			Temperature:      g.temperature,
			ResponseMimeType: "application/json",
		},
	}

	var resp generateContentResponse
	err := g.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodPost,
		URL:         fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model),
		QueryParams: map[string][]string{"key": {g.apiKey}},
		Body:        payload,
	}, &resp)
	if err != nil {
		g.logger.Error("gemini request failed",
			logger.String("symbol", entry.Symbol),
			logger.Error(err))
		return models.Analysis{}, fmt.Errorf("gemini generateContent: %w", err)
	}

	analysis, err := parseAnalysis(resp)
	if err != nil {
		g.logger.Error("gemini response rejected",
			logger.String("symbol", entry.Symbol),
			logger.Error(err))
		return models.Analysis{}, err
	}
	return analysis, nil
}

// parseAnalysis extracts the model's JSON text part and decodes it into an
// Analysis, rejecting anything outside the verdict enumeration.
func parseAnalysis(resp generateContentResponse) (models.Analysis, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.Analysis{}, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return models.Analysis{}, fmt.Errorf("%w: empty text part", ErrMalformedResponse)
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return models.Analysis{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !models.ValidVerdict(analysis.Verdict) {
		return models.Analysis{}, fmt.Errorf("%w: verdict %q", ErrMalformedResponse, analysis.Verdict)
	}
	return analysis, nil
}

// buildPrompt renders the analyst prompt, including a short backtest summary
// of the entry's simulated pattern history.
func buildPrompt(entry models.SnapshotEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a senior quantitative technical analyst at a top-tier hedge fund.\n")
	fmt.Fprintf(&b, "Analyze the following technical setup for %s (%s).\n\n", entry.Name, entry.Symbol)
	fmt.Fprintf(&b, "Technical Data:\n")
	fmt.Fprintf(&b, "- Current Price: %.2f\n", entry.Price)
	fmt.Fprintf(&b, "- Identified Pattern: %s\n", entry.Pattern)
	fmt.Fprintf(&b, "- Pattern Confidence: %d%%\n", entry.ConfidenceScore)
	fmt.Fprintf(&b, "- Historical Accuracy: %d%% (%s)\n", entry.HistoricalAccuracy, backtestSummary(entry))
	fmt.Fprintf(&b, "- Algo-Predicted Move: %.2f%%\n", entry.ExpectedMove)
	fmt.Fprintf(&b, "- Volatility Score: %d/100\n\n", entry.VolatilityScore)
	fmt.Fprintf(&b, "Instruction:\n")
	fmt.Fprintf(&b, "Provide a concise, professional trading assessment in JSON format.\n")
	fmt.Fprintf(&b, "The response must strictly adhere to this schema:\n")
	fmt.Fprintf(&b, `{
  "verdict": "Strong Buy" | "Buy" | "Neutral" | "Sell" | "Strong Sell",
  "summary": "2-3 sentences explaining the setup context.",
  "keyLevels": {
    "support": "Price level",
    "resistance": "Price level",
    "invalidation": "Stop loss level"
  },
  "riskAssessment": "Comment on volatility and position sizing recommendation."
}`)
	return b.String()
}

// backtestSummary condenses the entry's occurrence history: win rate over
// the full window plus the three most recent outcomes.
func backtestSummary(entry models.SnapshotEntry) string {
	total := len(entry.PastOccurrences)
	if total == 0 {
		return "No sufficient historical data for this pattern."
	}
	wins := 0
	for _, occ := range entry.PastOccurrences {
		if occ.OutcomePercent > 0 {
			wins++
		}
	}
	recent := make([]string, 0, 3)
	for i, occ := range entry.PastOccurrences {
		if i == 3 {
			break
		}
		recent = append(recent, fmt.Sprintf("%.2f%%", occ.OutcomePercent))
	}
	return fmt.Sprintf("Analyzed %d historical instances of %s. Win rate: %d%%. Recent outcomes: %s.",
		total, entry.Pattern, int((float64(wins)/float64(total))*100+0.5), strings.Join(recent, ", "))
}
