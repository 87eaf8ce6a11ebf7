//go:build !windows

package platform

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/tftbot/tftbot/internal/game"
)

type Window struct{}

func NewWindow(game.Executables, *slog.Logger) *Window { return &Window{} }

func (w *Window) IsRunning(string) bool                      { return false }
func (w *Window) Focus(string, string) error                 { return errors.ErrUnsupported }
func (w *Window) Restart(string) error                       { return errors.ErrUnsupported }
func (w *Window) WindowRect(string) (image.Rectangle, error) { return image.Rectangle{}, errors.ErrUnsupported }

type Input struct{}

func NewInput() *Input { return &Input{} }

func (in *Input) MoveAndClick(int, int, game.MouseButton, time.Duration, time.Duration) error {
	return errors.ErrUnsupported
}

func (in *Input) KeyTap(game.Key, time.Duration) error { return errors.ErrUnsupported }

type Capture struct{}

func NewCapture() *Capture { return &Capture{} }

func (c *Capture) Screenshot(game.Surface) (image.Image, error) { return nil, errors.ErrUnsupported }

func WatchHotkey(context.Context, func()) error { return errors.ErrUnsupported }
