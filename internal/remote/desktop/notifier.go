package desktop

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/tftbot/tftbot/internal/event"
	"golang.org/x/time/rate"
)

const appName = "TFT Bot"

// Notifier shows best-effort desktop notifications for match results and
// client errors.
type Notifier struct {
	limiter *rate.Limiter
	notify  func(title, message string, icon any) error
}

func NewNotifier() *Notifier {
	return &Notifier{
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 2),
		notify:  beeep.Notify,
	}
}

func (n *Notifier) Handle(_ context.Context, e event.Event) error {
	var title string
	switch e.(type) {
	case event.MatchFinishedEvent:
		title = appName + ": match finished"
	case event.ClientErrorEvent:
		title = appName + ": client error"
	case event.PauseToggledEvent:
		title = appName
	default:
		return nil
	}

	if e.Message() == "" || headless() || !n.limiter.Allow() {
		return nil
	}

	return n.notify(title, e.Message(), "")
}

func headless() bool {
	return runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
