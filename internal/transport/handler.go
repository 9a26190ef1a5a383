package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"influencer-insights-go/internal/config"
	apperrors "influencer-insights-go/internal/errors"
	"influencer-insights-go/internal/logger"
	"influencer-insights-go/internal/service"
	"influencer-insights-go/internal/storage"
	"influencer-insights-go/pkg/models"
)

// Handler bundles the services the HTTP layer exposes.
type Handler struct {
	influencers service.InfluencerService
	analysis    service.AnalysisService
	fetcher     storage.MediaFetcher
	cfg         *config.Config
}

func NewHandler(
	influencers service.InfluencerService,
	analysis service.AnalysisService,
	fetcher storage.MediaFetcher,
	cfg *config.Config,
) http.Handler {
	h := &Handler{
		influencers: influencers,
		analysis:    analysis,
		fetcher:     fetcher,
		cfg:         cfg,
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		corsMiddleware(cfg.FrontendURL),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/influencers/:username", h.getInfluencer)
	r.POST("/fetch-apify/:username", h.fetchApify)
	r.POST("/seed/:username", h.seed)
	r.POST("/analyze/post/:id", h.analyzePost)
	r.POST("/analyze/reel/:id", h.analyzeReel)
	r.POST("/analyze/pending/:username", h.analyzePending)
	r.GET("/proxy-image", h.proxyImage)
	r.POST("/admin/clear-reels/:username", h.clearReels)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) getInfluencer(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	username := c.Param("username")
	if username == "" {
		respondError(c, http.StatusBadRequest, "username is required", nil)
		return
	}

	resp, err := h.influencers.GetInfluencer(ctx, username)
	if err != nil {
		respondAppError(c, "load influencer", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) fetchApify(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.influencers.Refresh(ctx, c.Param("username"))
	if err != nil {
		respondAppError(c, "refresh influencer", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) seed(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	username := c.Param("username")
	if err := h.influencers.Seed(ctx, username); err != nil {
		respondAppError(c, "seed sample data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "seeded": true})
}

func (h *Handler) analyzePost(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id", err)
		return
	}

	resp, err := h.analysis.AnalyzePost(ctx, id)
	if err != nil {
		respondAppError(c, "analyze post", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) analyzeReel(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid reel id", err)
		return
	}

	resp, err := h.analysis.AnalyzeReel(ctx, id)
	if err != nil {
		respondAppError(c, "analyze reel", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) analyzePending(c *gin.Context) {
	// Batch analysis can outlive the default request timeout; bound it
	// separately by the per-request context alone.
	resp, err := h.analysis.AnalyzePending(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondAppError(c, "analyze pending media", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// proxyImage streams remote media through the backend so the dashboard can
// render CDN images that block cross-origin requests.
func (h *Handler) proxyImage(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	mediaURL := c.Query("url")
	if err := validateMediaURL(mediaURL); err != nil {
		respondError(c, http.StatusBadRequest, "invalid media url", err)
		return
	}

	data, err := h.fetcher.FetchBytes(ctx, mediaURL)
	if err != nil {
		var fetchErr *apperrors.AppError
		if errors.Is(err, context.DeadlineExceeded) {
			fetchErr = apperrors.NewTimeoutError("media fetch timeout", err)
		} else {
			fetchErr = apperrors.NewNetworkError("failed to fetch media", err)
		}
		respondAppError(c, "proxy media", fetchErr)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *Handler) clearReels(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	username := c.Param("username")
	deleted, err := h.influencers.ClearReels(ctx, username)
	if err != nil {
		respondAppError(c, "clear reels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username, "deleted": deleted})
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("id must be positive")
	}
	return uint(id), nil
}

func validateMediaURL(mediaURL string) error {
	if mediaURL == "" {
		return apperrors.NewValidationError("url query parameter is required", nil)
	}
	parsed, err := url.Parse(mediaURL)
	if err != nil {
		return apperrors.NewValidationError("invalid URL format", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewValidationError("URL must be http or https", nil)
	}
	if parsed.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	return nil
}

// Middleware and helper functions

func corsMiddleware(frontendURL string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if frontendURL == "" || frontendURL == "*" {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = []string{frontendURL}
	}
	return cors.New(cfg)
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"request_id":  c.GetString("request_id"),
		}).Info("Request completed")
	}
}

func respondAppError(c *gin.Context, message string, err error) {
	code := apperrors.GetStatusCode(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		code = http.StatusTooManyRequests
	}
	respondError(c, code, message, err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: msg,
	})
}
