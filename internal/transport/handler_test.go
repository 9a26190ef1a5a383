package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"influencer-insights-go/internal/config"
	apperrors "influencer-insights-go/internal/errors"
	"influencer-insights-go/internal/storage"
	"influencer-insights-go/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubInfluencerService struct {
	influencer *models.InfluencerResponse
	refresh    *models.RefreshResponse
	deleted    int64
	err        error
}

func (s *stubInfluencerService) GetInfluencer(context.Context, string) (*models.InfluencerResponse, error) {
	return s.influencer, s.err
}

func (s *stubInfluencerService) Refresh(context.Context, string) (*models.RefreshResponse, error) {
	return s.refresh, s.err
}

func (s *stubInfluencerService) Seed(context.Context, string) error {
	return s.err
}

func (s *stubInfluencerService) ClearReels(context.Context, string) (int64, error) {
	return s.deleted, s.err
}

type stubAnalysisService struct {
	analysis *models.AnalysisResponse
	batch    *models.BatchAnalysisResponse
	err      error
}

func (s *stubAnalysisService) AnalyzePost(context.Context, uint) (*models.AnalysisResponse, error) {
	return s.analysis, s.err
}

func (s *stubAnalysisService) AnalyzeReel(context.Context, uint) (*models.AnalysisResponse, error) {
	return s.analysis, s.err
}

func (s *stubAnalysisService) AnalyzePending(context.Context, string) (*models.BatchAnalysisResponse, error) {
	return s.batch, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		FrontendURL:        "http://localhost:3000",
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func newTestHandler(inf *stubInfluencerService, an *stubAnalysisService) http.Handler {
	return NewHandler(inf, an, storage.NewHTTPMediaFetcher(5*time.Second, 10<<20), testConfig())
}

func doRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})
	rec := doRequest(h, http.MethodGet, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("status field = %v, want available", body["status"])
	}
}

func TestGetInfluencer(t *testing.T) {
	inf := &stubInfluencerService{influencer: &models.InfluencerResponse{
		ID:       1,
		Name:     "Jane Doe",
		Username: "jane",
		Posts:    []models.PostResponse{},
		Reels:    []models.ReelResponse{},
	}}
	h := newTestHandler(inf, &stubAnalysisService{})

	rec := doRequest(h, http.MethodGet, "/influencers/jane")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var body models.InfluencerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Username != "jane" {
		t.Errorf("username = %q, want jane", body.Username)
	}
}

func TestGetInfluencerNotFound(t *testing.T) {
	inf := &stubInfluencerService{err: apperrors.NewNotFoundError("influencer not found", nil)}
	h := newTestHandler(inf, &stubAnalysisService{})

	rec := doRequest(h, http.MethodGet, "/influencers/ghost")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Error("error envelope missing error field")
	}
}

func TestAnalyzePostRoutes(t *testing.T) {
	an := &stubAnalysisService{analysis: &models.AnalysisResponse{
		ID:       7,
		Keywords: []string{"warm", "minimal"},
		Vibe:     "calm",
		Quality:  "sharp",
	}}
	h := newTestHandler(&stubInfluencerService{}, an)

	rec := doRequest(h, http.MethodPost, "/analyze/post/7")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var body models.AnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Vibe != "calm" || len(body.Keywords) != 2 {
		t.Errorf("unexpected analysis payload: %+v", body)
	}
}

func TestAnalyzePostInvalidID(t *testing.T) {
	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})

	for _, raw := range []string{"abc", "0", "-3"} {
		rec := doRequest(h, http.MethodPost, "/analyze/post/"+raw)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", raw, rec.Code)
		}
	}
}

func TestAnalyzePending(t *testing.T) {
	an := &stubAnalysisService{batch: &models.BatchAnalysisResponse{
		Username: "jane",
		Analyzed: 3,
		Failed:   1,
		Skipped:  2,
	}}
	h := newTestHandler(&stubInfluencerService{}, an)

	rec := doRequest(h, http.MethodPost, "/analyze/pending/jane")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body models.BatchAnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Analyzed != 3 || body.Failed != 1 || body.Skipped != 2 {
		t.Errorf("unexpected batch payload: %+v", body)
	}
}

func TestProxyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer media.Close()

	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})
	rec := doRequest(h, http.MethodGet, "/proxy-image?url="+media.URL+"/img.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), buf.Bytes()) {
		t.Error("proxied bytes differ from origin")
	}
}

func TestProxyImageValidation(t *testing.T) {
	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})

	for _, target := range []string{
		"/proxy-image",
		"/proxy-image?url=ftp://example.com/a.png",
		"/proxy-image?url=not-a-url",
	} {
		rec := doRequest(h, http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestClearReels(t *testing.T) {
	inf := &stubInfluencerService{deleted: 4}
	h := newTestHandler(inf, &stubAnalysisService{})

	rec := doRequest(h, http.MethodPost, "/admin/clear-reels/jane")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["deleted"] != float64(4) {
		t.Errorf("deleted = %v, want 4", body["deleted"])
	}
}

func TestCORSHeaders(t *testing.T) {
	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})

	req := httptest.NewRequest(http.MethodOptions, "/influencers/jane", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q, want the configured frontend", got)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestHandler(&stubInfluencerService{}, &stubAnalysisService{})

	rec := doRequest(h, http.MethodGet, "/health")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing generated X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("request id = %q, want fixed-id", got)
	}
}
