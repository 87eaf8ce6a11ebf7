package event

import (
	"image"
	"time"
)

type Event interface {
	Message() string
	Image() image.Image
	OccurredAt() time.Time
	MatchID() string
}

type BaseEvent struct {
	message    string
	image      image.Image
	occurredAt time.Time
	matchID    string
}

func (b BaseEvent) Message() string       { return b.message }
func (b BaseEvent) Image() image.Image    { return b.image }
func (b BaseEvent) OccurredAt() time.Time { return b.occurredAt }
func (b BaseEvent) MatchID() string       { return b.matchID }

func Text(matchID, message string) BaseEvent {
	return BaseEvent{
		message:    message,
		occurredAt: time.Now(),
		matchID:    matchID,
	}
}

func WithScreenshot(matchID, message string, img image.Image) BaseEvent {
	return BaseEvent{
		message:    message,
		image:      img,
		occurredAt: time.Now(),
		matchID:    matchID,
	}
}

type MatchStartedEvent struct {
	BaseEvent
}

func MatchStarted(be BaseEvent) MatchStartedEvent {
	return MatchStartedEvent{BaseEvent: be}
}

type MatchFinishedEvent struct {
	BaseEvent
	Surrendered bool
	Duration    time.Duration
	GameCount   int
}

func MatchFinished(be BaseEvent, surrendered bool, duration time.Duration, gameCount int) MatchFinishedEvent {
	return MatchFinishedEvent{
		BaseEvent:   be,
		Surrendered: surrendered,
		Duration:    duration,
		GameCount:   gameCount,
	}
}

type ClientErrorEvent struct {
	BaseEvent
	Kind string
}

func ClientError(be BaseEvent, kind string) ClientErrorEvent {
	return ClientErrorEvent{BaseEvent: be, Kind: kind}
}

type PauseToggledEvent struct {
	BaseEvent
	Paused bool
}

func PauseToggled(be BaseEvent, paused bool) PauseToggledEvent {
	return PauseToggledEvent{BaseEvent: be, Paused: paused}
}

// MissionCompletedEvent carries the screenshot taken before a mission dialog was dismissed.
type MissionCompletedEvent struct {
	BaseEvent
	Path string
}

func MissionCompleted(be BaseEvent, path string) MissionCompletedEvent {
	return MissionCompletedEvent{BaseEvent: be, Path: path}
}
