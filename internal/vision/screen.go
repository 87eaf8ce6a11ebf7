package vision

import (
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"sync"

	"github.com/tftbot/tftbot/internal/game"
)

// TemplateCache loads reference images from disk once.
type TemplateCache struct {
	mu        sync.Mutex
	templates map[string]*Template
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{templates: make(map[string]*Template)}
}

func (c *TemplateCache) Get(path string) (*Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, found := c.templates[path]; found {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding template %s: %w", path, err)
	}

	t := NewTemplate(img)
	c.templates[path] = t

	return t, nil
}

// Screen is the Perception implementation over captured window frames. Every
// query captures a fresh frame.
type Screen struct {
	capture game.Screenshotter
	cache   *TemplateCache
	logger  *slog.Logger

	mu      sync.Mutex
	missing map[string]bool
}

func NewScreen(capture game.Screenshotter, cache *TemplateCache, logger *slog.Logger) *Screen {
	return &Screen{
		capture: capture,
		cache:   cache,
		logger:  logger,
		missing: make(map[string]bool),
	}
}

func (s *Screen) Locate(ref game.ImageRef, confidence float64, region *game.Region) (game.MatchResult, bool) {
	frame, err := s.frame(ref.Surface)
	if err != nil {
		return game.MatchResult{}, false
	}

	return s.match(frame, ref, confidence, region)
}

// LocateAny captures each surface once and returns the first reference found,
// in order.
func (s *Screen) LocateAny(refs game.ImageSet, confidence float64) (game.ImageRef, game.MatchResult, bool) {
	frames := make(map[game.Surface]*Frame, 2)
	for _, ref := range refs {
		frame, found := frames[ref.Surface]
		if !found {
			var err error
			if frame, err = s.frame(ref.Surface); err != nil {
				continue
			}
			frames[ref.Surface] = frame
		}

		if m, ok := s.match(frame, ref, confidence, nil); ok {
			return ref, m, true
		}
	}

	return game.ImageRef{}, game.MatchResult{}, false
}

func (s *Screen) frame(surface game.Surface) (*Frame, error) {
	img, err := s.capture.Screenshot(surface)
	if err != nil {
		s.logger.Debug("Could not capture window", slog.String("surface", surface.String()), slog.Any("error", err))
		return nil, err
	}
	return NewFrame(img), nil
}

func (s *Screen) match(frame *Frame, ref game.ImageRef, confidence float64, region *game.Region) (game.MatchResult, bool) {
	t, err := s.cache.Get(ref.Path)
	if err != nil {
		s.warnMissing(ref, err)
		return game.MatchResult{}, false
	}

	if confidence <= 0 {
		confidence = ref.Confidence
	}

	area := frame.Bounds()
	if region != nil {
		area = region.Rect()
	}

	pt, _, found := frame.Find(t, area, confidence)
	if !found {
		return game.MatchResult{}, false
	}

	w, h := t.Size()
	return game.MatchResult{X: pt.X, Y: pt.Y, Width: w, Height: h}, true
}

// warnMissing logs an unreadable template once. Callers treat it as not visible.
func (s *Screen) warnMissing(ref game.ImageRef, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[ref.Path] {
		return
	}
	s.missing[ref.Path] = true
	s.logger.Warn("Template could not be loaded", slog.String("image", ref.Name), slog.Any("error", err))
}
