package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultCheckURL      = "https://1.1.1.1"
	DefaultCheckTimeout  = 5 * time.Second
	DefaultRetryInterval = time.Minute
)

// ConnectivityMonitor answers whether the machine can reach the internet and
// blocks until it can.
type ConnectivityMonitor struct {
	CheckURL      string
	CheckTimeout  time.Duration
	RetryInterval time.Duration
	Logger        *slog.Logger

	client       *http.Client
	offlineStart time.Time
}

func NewConnectivityMonitor(logger *slog.Logger) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		CheckURL:      DefaultCheckURL,
		CheckTimeout:  DefaultCheckTimeout,
		RetryInterval: DefaultRetryInterval,
		Logger:        logger,
		client:        &http.Client{},
	}
}

// Check issues a single HEAD request. Any response, whatever its status, counts
// as online.
func (cm *ConnectivityMonitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, cm.CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, cm.CheckURL, nil)
	if err != nil {
		return fmt.Errorf("building connectivity check: %w", err)
	}

	resp, err := cm.client.Do(req)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}
	resp.Body.Close()

	return nil
}

// WaitOnline polls Check every RetryInterval with no upper bound. It only
// returns an error when ctx is cancelled.
func (cm *ConnectivityMonitor) WaitOnline(ctx context.Context) error {
	err := retry.Do(
		func() error {
			return cm.Check(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(cm.RetryInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if cm.offlineStart.IsZero() {
				cm.offlineStart = time.Now()
				cm.Logger.Warn("Internet connection is not available, waiting for it to come back",
					slog.String("url", cm.CheckURL),
					slog.Duration("retryInterval", cm.RetryInterval),
					slog.Any("error", err))
				return
			}
			cm.Logger.Debug("Still offline",
				slog.Uint64("attempt", uint64(n+1)),
				slog.Duration("elapsed", time.Since(cm.offlineStart)))
		}),
	)
	if err != nil {
		return err
	}

	if !cm.offlineStart.IsZero() {
		cm.Logger.Info("Internet connection returned", slog.Duration("offlineDuration", time.Since(cm.offlineStart)))
		cm.offlineStart = time.Time{}
	}

	return nil
}
