package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"PatternPulse/internal/domain/models"
	internalrepo "PatternPulse/internal/repository"
	"PatternPulse/internal/services/analyst"
	"PatternPulse/internal/services/market"
	"PatternPulse/internal/usecase"
	xlogger "PatternPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubAnalyst struct {
	analysis models.Analysis
	err      error
	symbols  []string
}

func (s *stubAnalyst) Analyze(_ context.Context, entry models.SnapshotEntry) (models.Analysis, error) {
	s.symbols = append(s.symbols, entry.Symbol)
	return s.analysis, s.err
}

func newAnalysisTestServer(t *testing.T, an *stubAnalyst) (*echo.Echo, string) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	src := market.NewSource(42)
	gen := market.NewGenerator(market.Universe, src)
	marketSvc := usecase.NewMarketService(gen, src, noopMetrics{}, log, time.Hour)
	marketSvc.Refresh()

	store := internalrepo.NewMemoryStore()
	sender := internalrepo.NewLogWhatsAppSender(log)
	auth := usecase.NewAuthService(store, store, store.OTP(), sender,
		market.NewSource(1), log, time.Hour, time.Minute)
	sess, err := auth.Login(context.Background(), models.LoginRequest{Identifier: "admin", Password: "admin"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}

	e := echo.New()
	NewAnalysisEchoHandler(log, marketSvc, auth, an, noopMetrics{}).RegisterRoutes(e)
	return e, sess.Token
}

func TestAnalysisEndpointRequiresSession(t *testing.T) {
	an := &stubAnalyst{}
	e, _ := newAnalysisTestServer(t, an)

	env := postJSON(t, e, "/api/analysis", `{"symbol":"INFY"}`, "")
	if env.Status != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", env.Status)
	}
	if len(an.symbols) != 0 {
		t.Fatal("analyst called without session")
	}
}

func TestAnalysisEndpointHappyPath(t *testing.T) {
	an := &stubAnalyst{analysis: models.Analysis{Verdict: models.VerdictBuy, Summary: "ok"}}
	e, token := newAnalysisTestServer(t, an)

	env := postJSON(t, e, "/api/analysis", `{"symbol":"INFY"}`, token)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d", env.Status)
	}
	if len(an.symbols) != 1 || an.symbols[0] != "INFY" {
		t.Fatalf("analyst saw %v", an.symbols)
	}
}

func TestAnalysisEndpointUnknownSymbol(t *testing.T) {
	an := &stubAnalyst{}
	e, token := newAnalysisTestServer(t, an)

	env := postJSON(t, e, "/api/analysis", `{"symbol":"NOPE"}`, token)
	if env.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", env.Status)
	}
	if len(an.symbols) != 0 {
		t.Fatal("analyst called for unknown symbol")
	}
}

func TestAnalysisEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing credentials", analyst.ErrMissingCredentials, http.StatusInternalServerError},
		{"malformed response", analyst.ErrMalformedResponse, http.StatusBadGateway},
		{"transport failure", context.DeadlineExceeded, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, token := newAnalysisTestServer(t, &stubAnalyst{err: tc.err})
			env := postJSON(t, e, "/api/analysis", `{"symbol":"INFY"}`, token)
			if env.Status != tc.want {
				t.Fatalf("status = %d, want %d", env.Status, tc.want)
			}
		})
	}
}
