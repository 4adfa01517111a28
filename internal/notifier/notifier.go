// Package notifier reports finished matches to the match service.
//
// Delivery is best effort: Notify never blocks the caller, failed or dropped
// reports are logged and counted, and nothing is retried.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const (
	statusFinished = "finished"

	defaultQueueSize = 64
	defaultTimeout   = 5 * time.Second
)

type statusUpdate struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type notification struct {
	matchID string
	outcome entity.Outcome
}

type Notifier struct {
	logger  *slog.Logger
	baseURL string
	client  *http.Client
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	queue   chan notification
	started atomic.Bool
	done    chan struct{}

	failures atomic.Int64
}

func New(logger *slog.Logger, conf config.MatchService) *Notifier {
	size := conf.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Notifier{
		logger:  logger.With("component", "notifier"),
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		client:  &http.Client{},
		timeout: timeout,
		queue:   make(chan notification, size),
		done:    make(chan struct{}),
	}
}

// Run starts the delivery worker. It keeps going until Close, so queued reports survive ctx cancellation.
func (that *Notifier) Run(ctx context.Context) {
	if !that.started.CompareAndSwap(false, true) {
		return
	}

	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(that.done)

		for item := range that.queue {
			that.deliver(ctx, item)
		}
	}()
}

// Notify queues a report for a finished match. It has the shape of a game end hook.
func (that *Notifier) Notify(matchID string, outcome entity.Outcome) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.closed {
		that.fail("notifier closed, report dropped", matchID, nil)
		return
	}

	select {
	case that.queue <- notification{matchID: matchID, outcome: outcome}:
	default:
		that.fail("queue full, report dropped", matchID, nil)
	}
}

// Close stops accepting reports and waits until the queued ones are delivered.
func (that *Notifier) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true
	close(that.queue)
	that.mu.Unlock()

	// never started: nothing will deliver what is queued
	if that.started.CompareAndSwap(false, true) {
		for item := range that.queue {
			that.fail("notifier not running, report dropped", item.matchID, nil)
		}
		close(that.done)
		return
	}

	<-that.done
}

// Failures returns how many reports were dropped or rejected so far.
func (that *Notifier) Failures() int64 {
	return that.failures.Load()
}

func (that *Notifier) deliver(ctx context.Context, item notification) {
	if err := that.put(ctx, item); err != nil {
		that.fail("failed to report match status", item.matchID, err)
		return
	}

	that.logger.Debug("match status reported", "matchID", item.matchID)
}

func (that *Notifier) put(ctx context.Context, item notification) error {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	body, err := json.Marshal(statusUpdate{Status: statusFinished, Notes: item.outcome.Summary()})
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrNotificationFailure, err)
	}

	endpoint := that.baseURL + "/matches/" + url.PathEscape(item.matchID) + "/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrNotificationFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrNotificationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: unexpected status %d", apperror.ErrNotificationFailure, resp.StatusCode)
	}

	return nil
}

func (that *Notifier) fail(msg, matchID string, err error) {
	that.failures.Add(1)

	if err != nil {
		that.logger.Error(msg, "matchID", matchID, "error", err)
		return
	}

	that.logger.Error(msg, "matchID", matchID)
}
