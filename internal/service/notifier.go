package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"rescueRoute/internal/config"
	"rescueRoute/internal/domain"
	"rescueRoute/internal/metrics"
	"rescueRoute/pkg/e"
)

const (
	notifyPopTimeout  = 5 * time.Second
	notifyMaxAttempts = 3
)

// PartnerNotifier drains the notification queue into the partner webhook.
type PartnerNotifier struct {
	logger  *slog.Logger
	cfg     config.WebhookConfig
	queue   NotificationSource
	http    *http.Client
	metrics *metrics.Metrics
	backoff time.Duration
}

func NewPartnerNotifier(logger *slog.Logger, cfg config.WebhookConfig, q NotificationSource, m *metrics.Metrics) *PartnerNotifier {
	return &PartnerNotifier{
		logger:  logger,
		cfg:     cfg,
		queue:   q,
		http:    &http.Client{Timeout: 5 * time.Second},
		metrics: m,
		backoff: time.Second,
	}
}

func (s *PartnerNotifier) Run(ctx context.Context) {
	if s.cfg.Disabled {
		s.logger.Info("partner notifier disabled")
		return
	}
	s.logger.Info("partner notifier STARTED", slog.String("url", s.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("partner notifier STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		n, err := s.queue.BRPop(ctx, notifyPopTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			sleep(ctx, 500*time.Millisecond)
			continue
		}

		s.logger.Info("notifying partners", slog.String("report_id", n.ReportID.String()))
		if s.sendWithRetry(ctx, n) {
			s.metrics.Notifications.WithLabelValues("delivered").Inc()
		} else {
			s.metrics.Notifications.WithLabelValues("failed").Inc()
		}
	}
}

func (s *PartnerNotifier) sendWithRetry(ctx context.Context, n domain.ReportNotification) bool {
	body, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("marshal notification failed", slog.String("error", err.Error()))
		return false
	}

	for attempt := 1; attempt <= notifyMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			s.logger.Info("stop retries due to context cancel")
			return false
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			s.logger.Error("create webhook request failed", slog.String("error", err.Error()))
			return false
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return true
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		s.logger.Warn("webhook failed",
			slog.Int("attempt", attempt),
			slog.String("url", s.cfg.URL),
			slog.String("reason", reason),
		)

		if attempt < notifyMaxAttempts {
			sleep(ctx, time.Duration(attempt)*s.backoff)
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
