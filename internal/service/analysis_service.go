package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"influencer-insights-go/internal/analyzer"
	"influencer-insights-go/internal/cache"
	apperrors "influencer-insights-go/internal/errors"
	"influencer-insights-go/internal/logger"
	"influencer-insights-go/internal/repository"
	"influencer-insights-go/internal/storage"
	"influencer-insights-go/pkg/models"
)

// AnalysisService derives and persists analysis labels for stored media.
// The engine itself is pure; this layer owns fetching, memoization,
// persistence, and scheduling.
type AnalysisService interface {
	AnalyzePost(ctx context.Context, postID uint) (*models.AnalysisResponse, error)
	AnalyzeReel(ctx context.Context, reelID uint) (*models.AnalysisResponse, error)
	// AnalyzePending analyzes every post and reel of the influencer that has
	// no labels yet, running the engine on the worker pool.
	AnalyzePending(ctx context.Context, username string) (*models.BatchAnalysisResponse, error)
}

// AnalysisConfig carries the tunables the service needs.
type AnalysisConfig struct {
	Options      analyzer.AnalysisOptions
	FetchTimeout time.Duration
}

type analysisService struct {
	repo    repository.InfluencerRepository
	fetcher storage.MediaFetcher
	engine  analyzer.ImageAnalyzer
	cache   cache.ResultCache // nil disables memoization
	pool    *WorkerPool
	cfg     AnalysisConfig
}

// NewAnalysisService wires the analysis pipeline. resultCache may be nil.
func NewAnalysisService(
	repo repository.InfluencerRepository,
	fetcher storage.MediaFetcher,
	engine analyzer.ImageAnalyzer,
	resultCache cache.ResultCache,
	pool *WorkerPool,
	cfg AnalysisConfig,
) AnalysisService {
	return &analysisService{
		repo:    repo,
		fetcher: fetcher,
		engine:  engine,
		cache:   resultCache,
		pool:    pool,
		cfg:     cfg,
	}
}

func (s *analysisService) AnalyzePost(ctx context.Context, postID uint) (*models.AnalysisResponse, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("post not found", err)
	}

	result, err := s.analyzeMedia(ctx, post.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePostAnalysis(ctx, post.ID, result.Keywords, result.Vibe, result.Quality); err != nil {
		return nil, apperrors.NewInternalError("persist post analysis", err)
	}
	return &models.AnalysisResponse{
		ID:       post.ID,
		Keywords: result.Keywords,
		Vibe:     result.Vibe,
		Quality:  result.Quality,
	}, nil
}

func (s *analysisService) AnalyzeReel(ctx context.Context, reelID uint) (*models.AnalysisResponse, error) {
	reel, err := s.repo.GetReel(ctx, reelID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("reel not found", err)
	}

	result, err := s.analyzeMedia(ctx, reel.ThumbnailURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateReelAnalysis(ctx, reel.ID, result.Keywords, result.Vibe, result.Quality); err != nil {
		return nil, apperrors.NewInternalError("persist reel analysis", err)
	}
	return &models.AnalysisResponse{
		ID:       reel.ID,
		Keywords: result.Keywords,
		Vibe:     result.Vibe,
		Quality:  result.Quality,
	}, nil
}

func (s *analysisService) AnalyzePending(ctx context.Context, username string) (*models.BatchAnalysisResponse, error) {
	inf, err := s.repo.GetInfluencerByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.NewNotFoundError("influencer not found", err)
	}

	posts, err := s.repo.ListPosts(ctx, inf.ID, 0)
	if err != nil {
		return nil, apperrors.NewInternalError("list posts", err)
	}
	reels, err := s.repo.ListReels(ctx, inf.ID, 0)
	if err != nil {
		return nil, apperrors.NewInternalError("list reels", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		analyzed int
		failed   int
		skipped  int
	)
	record := func(err error, mediaURL string) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed++
			logger.WithError(err).WithFields(logrus.Fields{
				"username": username,
				"media":    mediaURL,
			}).Warn("Pending media analysis failed")
			return
		}
		analyzed++
	}

	for i := range posts {
		post := posts[i]
		if post.Analyzed() {
			skipped++
			continue
		}
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			_, err := s.AnalyzePost(ctx, post.ID)
			record(err, post.ImageURL)
		})
	}
	for i := range reels {
		reel := reels[i]
		if reel.Analyzed() {
			skipped++
			continue
		}
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			_, err := s.AnalyzeReel(ctx, reel.ID)
			record(err, reel.ThumbnailURL)
		})
	}
	wg.Wait()

	return &models.BatchAnalysisResponse{
		Username: username,
		Analyzed: analyzed,
		Failed:   failed,
		Skipped:  skipped,
	}, nil
}

// analyzeMedia fetches the raw bytes and runs the engine, consulting the
// content-addressed cache on both sides. The engine call itself performs no
// I/O, so the fetch timeout bounds the only network hop.
func (s *analysisService) analyzeMedia(ctx context.Context, mediaURL string) (analyzer.AnalysisResult, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	data, err := s.fetcher.FetchBytes(fetchCtx, mediaURL)
	if err != nil {
		return analyzer.AnalysisResult{}, apperrors.NewNetworkError("fetch media", err)
	}

	if s.cache != nil {
		if cached, found, err := s.cache.Get(ctx, data); err == nil && found {
			return *cached, nil
		} else if err != nil {
			logger.WithError(err).Warn("Analysis cache read failed")
		}
	}

	result, err := s.engine.AnalyzeWithOptions(data, s.cfg.Options)
	if err != nil {
		if analyzer.IsDecodeError(err) {
			return analyzer.AnalysisResult{}, apperrors.NewProcessingError("media is not a decodable image", err)
		}
		return analyzer.AnalysisResult{}, apperrors.NewInternalError("analysis failed", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, data, result); err != nil {
			logger.WithError(err).Warn("Analysis cache write failed")
		}
	}
	return result, nil
}
