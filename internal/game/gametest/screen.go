// Package gametest provides in-memory fakes of the screen, input and window
// ports for tests.
package gametest

import (
	"image"
	"slices"
	"sync"
	"time"

	"github.com/tftbot/tftbot/internal/game"
)

const (
	templateWidth  = 40
	templateHeight = 20
	columns        = 8
)

type Click struct {
	Name   string
	X, Y   int
	Button game.MouseButton
}

// Screen is a fake Perception and Actuator. Every template gets its own fixed
// rectangle so clicks can be traced back to the template that was hit.
type Screen struct {
	mu       sync.Mutex
	visible  map[string]int
	areas    map[string]game.MatchResult
	onClick  map[string]func()
	queries  map[string]int
	clicks   []Click
	keys     []game.Key
	numbers  []int
	numErr   error
	captures int
}

func NewScreen() *Screen {
	return &Screen{
		visible: make(map[string]int),
		areas:   make(map[string]game.MatchResult),
		onClick: make(map[string]func()),
		queries: make(map[string]int),
	}
}

// Show makes the named templates visible until hidden.
func (s *Screen) Show(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.visible[n] = -1
	}
}

// ShowFor makes name visible for the next n successful lookups.
func (s *Screen) ShowFor(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible[name] = n
}

func (s *Screen) Hide(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.visible, n)
	}
}

// OnClick runs fn, outside the lock, whenever the named template is clicked.
func (s *Screen) OnClick(name string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClick[name] = fn
}

// HideOnClick hides a template once it has been clicked.
func (s *Screen) HideOnClick(names ...string) {
	for _, n := range names {
		s.OnClick(n, func() { s.Hide(n) })
	}
}

func (s *Screen) Locate(ref game.ImageRef, _ float64, _ *game.Region) (game.MatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locate(ref.Name)
}

func (s *Screen) LocateAny(refs game.ImageSet, _ float64) (game.ImageRef, game.MatchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range refs {
		if m, found := s.locate(ref.Name); found {
			return ref, m, true
		}
	}
	return game.ImageRef{}, game.MatchResult{}, false
}

func (s *Screen) locate(name string) (game.MatchResult, bool) {
	s.queries[name]++

	remaining, found := s.visible[name]
	if !found {
		return game.MatchResult{}, false
	}
	if remaining > 0 {
		remaining--
		if remaining == 0 {
			delete(s.visible, name)
		} else {
			s.visible[name] = remaining
		}
	}

	return s.area(name), true
}

func (s *Screen) area(name string) game.MatchResult {
	if m, found := s.areas[name]; found {
		return m
	}
	i := len(s.areas)
	m := game.MatchResult{
		X:      (i%columns)*(templateWidth*3) + templateWidth,
		Y:      (i/columns)*(templateHeight*3) + templateHeight,
		Width:  templateWidth,
		Height: templateHeight,
	}
	s.areas[name] = m
	return m
}

func (s *Screen) MoveAndClick(x, y int, btn game.MouseButton, _, _ time.Duration) error {
	s.mu.Lock()
	name := ""
	for n, m := range s.areas {
		if image.Pt(x, y).In(image.Rect(m.X, m.Y, m.X+m.Width+1, m.Y+m.Height+1)) {
			name = n
			break
		}
	}
	s.clicks = append(s.clicks, Click{Name: name, X: x, Y: y, Button: btn})
	fn := s.onClick[name]
	s.mu.Unlock()

	if fn != nil && name != "" {
		fn()
	}
	return nil
}

func (s *Screen) KeyTap(key game.Key, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return nil
}

// Clicks returns every click in order.
func (s *Screen) Clicks() []Click {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clicks)
}

// ClickedNames returns the template name of every click, empty for clicks that
// hit no template.
func (s *Screen) ClickedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.clicks))
	for _, c := range s.clicks {
		names = append(names, c.Name)
	}
	return names
}

func (s *Screen) Keys() []game.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.keys)
}

func (s *Screen) ClickCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.clicks {
		if c.Name == name {
			n++
		}
	}
	return n
}

func (s *Screen) Queries(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[name]
}

func (s *Screen) TotalQueries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.queries {
		total += n
	}
	return total
}

// SetNumbers queues values returned by ReadNumber. Once drained, err is
// returned, or the last value when err is nil.
func (s *Screen) SetNumbers(err error, values ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbers = values
	s.numErr = err
}

func (s *Screen) ReadNumber(_ game.Surface, _ game.Region) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.numbers) == 0 {
		return 0, s.numErr
	}
	v := s.numbers[0]
	if len(s.numbers) > 1 || s.numErr != nil {
		s.numbers = s.numbers[1:]
	}
	return v, nil
}

func (s *Screen) Screenshot(_ game.Surface) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures++
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (s *Screen) Screenshots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captures
}
