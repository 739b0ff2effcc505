package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrPreviewNotFound is returned when a preview ID is unknown or expired.
var ErrPreviewNotFound = errors.New("preview not found")

// DefaultPreviewTTL is how long a generated preview stays retrievable
// before it is discarded unseen.
var DefaultPreviewTTL = 30 * time.Minute

// Service wraps the Engine with server-side preview tracking so a client
// can generate a preview, let a human edit it, and commit the edited copy
// later. Previews are held in memory only and expire after the TTL;
// committing or cancelling discards them.
type Service struct {
	engine *Engine
	ttl    time.Duration

	mu       sync.RWMutex
	previews map[string]*ImportPreview
}

// NewService creates a Service. A non-positive ttl falls back to
// DefaultPreviewTTL.
func NewService(engine *Engine, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &Service{
		engine:   engine,
		ttl:      ttl,
		previews: make(map[string]*ImportPreview),
	}
}

// Validate runs the header pre-check without side effects.
func (s *Service) Validate(raw string) ValidationResult {
	return Validate(raw)
}

// Preview generates a preview from raw CSV text and caches it under a
// fresh ID for a later commit.
func (s *Service) Preview(ctx context.Context, raw string) (string, *ImportPreview, error) {
	preview, err := s.engine.BuildPreview(ctx, raw)
	if err != nil {
		return "", nil, err
	}

	previewID := uuid.New().String()

	s.mu.Lock()
	s.previews[previewID] = preview
	s.mu.Unlock()

	s.cleanup(previewID, s.ttl)
	return previewID, preview, nil
}

// Get returns a cached preview.
func (s *Service) Get(previewID string) (*ImportPreview, error) {
	s.mu.RLock()
	preview, ok := s.previews[previewID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPreviewNotFound, previewID)
	}
	return preview, nil
}

// Commit applies a cached preview. If edited is non-nil it is committed
// in place of the cached value; this is how user edits between preview
// and commit reach the engine. The cached entry is discarded once the
// engine accepts the commit (partial failure included); a commit that
// faults outright keeps the preview so the caller can retry without
// re-uploading.
func (s *Service) Commit(ctx context.Context, previewID string, edited *ImportPreview) (*ImportResult, error) {
	s.mu.RLock()
	cached, ok := s.previews[previewID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPreviewNotFound, previewID)
	}

	preview := cached
	if edited != nil {
		preview = edited
	}

	result := s.engine.Commit(ctx, preview)
	if result.Success {
		s.mu.Lock()
		delete(s.previews, previewID)
		s.mu.Unlock()
	}
	return result, nil
}

// Cancel discards a cached preview.
func (s *Service) Cancel(previewID string) {
	s.mu.Lock()
	delete(s.previews, previewID)
	s.mu.Unlock()
}

// cleanup removes the preview from tracking after a delay.
func (s *Service) cleanup(previewID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.previews, previewID)
		s.mu.Unlock()
	})
}
