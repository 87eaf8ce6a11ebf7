package bot

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/tftbot/tftbot/internal/event"
)

// Stats counts the matches played since the controller started.
type Stats struct {
	mu        sync.Mutex
	startedAt time.Time
	games     int
}

func NewStats(startedAt time.Time) *Stats {
	return &Stats{startedAt: startedAt}
}

// RecordGame adds a finished match and returns the new count and the total
// play time.
func (s *Stats) RecordGame(now time.Time) (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games++
	return s.games, now.Sub(s.startedAt)
}

func (s *Stats) Games() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games
}

func formatPlayTime(d time.Duration) string {
	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(3).String()
}

func (c *Controller) matchFinished() {
	now := c.ctx.Now()
	games, playTime := c.stats.RecordGame(now)
	match := c.ctx.CurrentGame

	c.ctx.Logger.Info("Match finished",
		slog.String("matchID", match.MatchID),
		slog.String("time", now.Format(time.TimeOnly)),
		slog.String("playTime", formatPlayTime(playTime)),
		slog.Int("games", games),
		slog.Bool("surrendered", match.Surrendered),
	)

	msg := "Finished " + humanize.Ordinal(games) + " match"
	event.Send(event.MatchFinished(event.Text(match.MatchID, msg), match.Surrendered, now.Sub(match.StartedAt), games))
}
