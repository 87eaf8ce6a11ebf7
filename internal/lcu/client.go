// Package lcu talks to the local League client API: lobby and queue control
// over REST and gameflow phase updates over its websocket.
package lcu

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TFTNormalQueueID is the queue of normal TFT matches.
const TFTNormalQueueID = 1090

var (
	ErrLockfileNotFound = errors.New("lockfile not found")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// Credentials holds the API connection details parsed from the lockfile.
type Credentials struct {
	ProcessName string
	PID         string
	Port        string
	Password    string
	Protocol    string
}

func (c Credentials) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:"+c.Password))
}

// ParseLockfile reads "name:pid:port:password:protocol".
func ParseLockfile(path string) (Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credentials{}, ErrLockfileNotFound
		}
		return Credentials{}, fmt.Errorf("failed to read lockfile: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 5 {
		return Credentials{}, fmt.Errorf("invalid lockfile format: expected 5 parts, got %d", len(parts))
	}

	return Credentials{
		ProcessName: parts[0],
		PID:         parts[1],
		Port:        parts[2],
		Password:    parts[3],
		Protocol:    parts[4],
	}, nil
}

func LockfilePath(installLocation string) string {
	return filepath.Join(installLocation, "lockfile")
}

type Client struct {
	lockfile   string
	logger     *slog.Logger
	httpClient *http.Client

	mu    sync.Mutex
	creds *Credentials
	phase string
}

func NewClient(lockfile string, logger *slog.Logger) *Client {
	return &Client{
		lockfile: lockfile,
		logger:   logger,
		httpClient: &http.Client{
			Transport: &http.Transport{
				// The client API uses a self-signed certificate.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
			Timeout: 5 * time.Second,
		},
	}
}

// credentials returns the cached credentials, reading the lockfile when the
// client was restarted or never seen.
func (c *Client) credentials() (Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds != nil {
		return *c.creds, nil
	}

	creds, err := ParseLockfile(c.lockfile)
	if err != nil {
		return Credentials{}, err
	}
	c.creds = &creds
	c.logger.Debug("Read client API credentials", slog.String("port", creds.Port))

	return creds, nil
}

func (c *Client) forget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*http.Response, error) {
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s://127.0.0.1:%s%s", creds.Protocol, creds.Port, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", creds.authHeader())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The port and password change on every client start.
		c.forget()
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	return resp, nil
}

func (c *Client) expect(ctx context.Context, method, endpoint string, body any, out any, statuses ...int) error {
	resp, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	ok := false
	for _, s := range statuses {
		if resp.StatusCode == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s %s: %w: %d", method, endpoint, ErrUnexpectedStatus, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s response: %w", endpoint, err)
	}

	return nil
}

// InTFTLobby reports whether the current lobby is a TFT normal lobby.
func (c *Client) InTFTLobby(ctx context.Context) (bool, error) {
	var lobby struct {
		GameConfig struct {
			QueueID int `json:"queueId"`
		} `json:"gameConfig"`
	}
	err := c.expect(ctx, http.MethodGet, "/lol-lobby/v2/lobby", nil, &lobby, http.StatusOK)
	if errors.Is(err, ErrUnexpectedStatus) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return lobby.GameConfig.QueueID == TFTNormalQueueID, nil
}

// CreateLobby creates a TFT lobby unless the client is already in one.
func (c *Client) CreateLobby(ctx context.Context) error {
	if in, err := c.InTFTLobby(ctx); err != nil {
		return err
	} else if in {
		return nil
	}

	body := map[string]int{"queueId": TFTNormalQueueID}
	if err := c.expect(ctx, http.MethodPost, "/lol-lobby/v2/lobby", body, nil, http.StatusOK); err != nil {
		return fmt.Errorf("error creating TFT lobby: %w", err)
	}
	c.logger.Info("Created a TFT lobby")

	return nil
}

func (c *Client) StartQueue(ctx context.Context) error {
	return c.expect(ctx, http.MethodPost, "/lol-lobby/v2/lobby/matchmaking/search", nil, nil, http.StatusNoContent)
}

// SearchState returns the matchmaking state, e.g. "Searching" or "Found".
func (c *Client) SearchState(ctx context.Context) (string, error) {
	var state struct {
		SearchState string `json:"searchState"`
	}
	if err := c.expect(ctx, http.MethodGet, "/lol-lobby/v2/lobby/matchmaking/search-state", nil, &state, http.StatusOK); err != nil {
		return "", err
	}
	return state.SearchState, nil
}

func (c *Client) AcceptReadyCheck(ctx context.Context) error {
	return c.expect(ctx, http.MethodPost, "/lol-matchmaking/v1/ready-check/accept", nil, nil, http.StatusOK, http.StatusNoContent)
}

func (c *Client) GameflowPhase(ctx context.Context) (string, error) {
	var phase string
	if err := c.expect(ctx, http.MethodGet, "/lol-gameflow/v1/gameflow-phase", nil, &phase, http.StatusOK); err != nil {
		return "", err
	}
	return phase, nil
}

// Phase is the last gameflow phase pushed over the websocket, empty when not
// connected.
func (c *Client) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Client) setPhase(phase string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if phase != c.phase {
		c.logger.Debug("Gameflow phase changed", slog.String("from", c.phase), slog.String("to", phase))
	}
	c.phase = phase
}
