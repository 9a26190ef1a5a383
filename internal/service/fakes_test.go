package service

import (
	"context"
	"sync"

	"influencer-insights-go/internal/repository"
	"influencer-insights-go/internal/scraper"
)

// fakeRepo is an in-memory InfluencerRepository for service tests.
type fakeRepo struct {
	mu          sync.Mutex
	influencers map[string]*repository.Influencer
	posts       map[uint]*repository.Post
	reels       map[uint]*repository.Reel
	nextID      uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		influencers: make(map[string]*repository.Influencer),
		posts:       make(map[uint]*repository.Post),
		reels:       make(map[uint]*repository.Reel),
	}
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) GetInfluencerByUsername(_ context.Context, username string) (*repository.Influencer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inf, ok := f.influencers[username]
	if !ok {
		return nil, repository.ErrInfluencerNotFound
	}
	copied := *inf
	return &copied, nil
}

func (f *fakeRepo) SaveInfluencer(_ context.Context, inf *repository.Influencer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inf.ID == 0 {
		inf.ID = f.id()
	}
	copied := *inf
	f.influencers[inf.Username] = &copied
	return nil
}

func (f *fakeRepo) ListPosts(_ context.Context, influencerID uint, limit int) ([]repository.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Post
	for _, p := range f.posts {
		if p.InfluencerID == influencerID {
			out = append(out, *p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ListReels(_ context.Context, influencerID uint, limit int) ([]repository.Reel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Reel
	for _, r := range f.reels {
		if r.InfluencerID == influencerID {
			out = append(out, *r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) GetPost(_ context.Context, id uint) (*repository.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) GetReel(_ context.Context, id uint) (*repository.Reel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reels[id]
	if !ok {
		return nil, repository.ErrReelNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) CreatePosts(_ context.Context, posts []repository.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range posts {
		p := posts[i]
		if p.ID == 0 {
			p.ID = f.id()
		}
		f.posts[p.ID] = &p
	}
	return nil
}

func (f *fakeRepo) CreateReels(_ context.Context, reels []repository.Reel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range reels {
		r := reels[i]
		if r.ID == 0 {
			r.ID = f.id()
		}
		f.reels[r.ID] = &r
	}
	return nil
}

func (f *fakeRepo) ReplaceMedia(ctx context.Context, influencerID uint, posts []repository.Post, reels []repository.Reel) error {
	f.mu.Lock()
	for id, p := range f.posts {
		if p.InfluencerID == influencerID {
			delete(f.posts, id)
		}
	}
	for id, r := range f.reels {
		if r.InfluencerID == influencerID {
			delete(f.reels, id)
		}
	}
	f.mu.Unlock()
	if err := f.CreatePosts(ctx, posts); err != nil {
		return err
	}
	return f.CreateReels(ctx, reels)
}

func (f *fakeRepo) DeleteReels(_ context.Context, influencerID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, r := range f.reels {
		if r.InfluencerID == influencerID {
			delete(f.reels, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) UpdatePostAnalysis(_ context.Context, id uint, keywords []string, vibe, quality string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	p.Keywords = repository.JoinKeywords(keywords)
	p.Vibe = vibe
	p.Quality = quality
	return nil
}

func (f *fakeRepo) UpdateReelAnalysis(_ context.Context, id uint, tags []string, vibe, quality string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reels[id]
	if !ok {
		return repository.ErrReelNotFound
	}
	r.Tags = repository.JoinKeywords(tags)
	r.Vibe = vibe
	r.Quality = quality
	return nil
}

// fakeScraper returns canned profile data, or an error when set.
type fakeScraper struct {
	profile  *scraper.Profile
	posts    []scraper.MediaItem
	err      error
	postsErr error
}

func (f *fakeScraper) FetchProfile(context.Context, string) (*scraper.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeScraper) FetchPosts(context.Context, string, int) ([]scraper.MediaItem, error) {
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	return f.posts, nil
}
