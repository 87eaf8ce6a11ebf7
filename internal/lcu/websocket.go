package lcu

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type EventType int

const (
	EventTypeSubscribe   EventType = 5
	EventTypeUnsubscribe EventType = 6
	EventTypeEvent       EventType = 8
)

const gameflowPhaseEvent = "OnJsonApiEvent_lol-gameflow_v1_gameflow-phase"

// ReconnectInterval is waited between websocket connection attempts.
var ReconnectInterval = 5 * time.Second

// Watch keeps a websocket subscription to gameflow phase changes until ctx is
// cancelled, reconnecting whenever the client goes away.
func (c *Client) Watch(ctx context.Context) error {
	for {
		err := c.watchOnce(ctx)
		c.setPhase("")

		if ctx.Err() != nil {
			return nil
		}
		if err != nil && !errors.Is(err, ErrLockfileNotFound) {
			c.logger.Debug("Client API websocket closed", slog.Any("error", err))
		}
		c.forget()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(ReconnectInterval):
		}
	}
}

func (c *Client) watchOnce(ctx context.Context) error {
	creds, err := c.credentials()
	if err != nil {
		return err
	}

	scheme := "wss"
	if creds.Protocol == "http" {
		scheme = "ws"
	}

	dialer := websocket.Dialer{
		TLSClientConfig:  &tls.Config{InsecureSkipVerify: true},
		HandshakeTimeout: 5 * time.Second,
	}
	header := http.Header{}
	header.Set("Authorization", creds.authHeader())

	conn, _, err := dialer.DialContext(ctx, fmt.Sprintf("%s://127.0.0.1:%s", scheme, creds.Port), header)
	if err != nil {
		return fmt.Errorf("failed to connect to client websocket: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err = conn.WriteJSON([]any{EventTypeSubscribe, gameflowPhaseEvent}); err != nil {
		return fmt.Errorf("failed to subscribe to gameflow phase: %w", err)
	}
	c.logger.Info("Connected to the client API")

	if phase, err := c.GameflowPhase(ctx); err == nil {
		c.setPhase(phase)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(data []byte) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return
	}

	var eventType EventType
	if err := json.Unmarshal(raw[0], &eventType); err != nil || eventType != EventTypeEvent {
		return
	}

	var eventName string
	if err := json.Unmarshal(raw[1], &eventName); err != nil || eventName != gameflowPhaseEvent {
		return
	}

	var payload struct {
		EventType string `json:"eventType"`
		Data      string `json:"data"`
	}
	if err := json.Unmarshal(raw[2], &payload); err != nil {
		return
	}

	if payload.EventType == "Delete" {
		c.setPhase("")
		return
	}
	c.setPhase(payload.Data)
}
