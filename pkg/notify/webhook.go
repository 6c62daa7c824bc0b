package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/core"
)

const defaultTimeout = 15 * time.Second

var defaultPatterns = []string{"build_*"}

// Webhook posts build events as JSON to a configured URL.
type Webhook struct {
	logger   *slog.Logger
	url      string
	client   *http.Client
	patterns []string
	enabled  bool
}

// NewWebhook returns a notifier for cfg. It is disabled when no URL is set.
func NewWebhook(cfg config.NotifyConfig, client *http.Client, logger *slog.Logger) *Webhook {
	w := &Webhook{
		logger:   logger.With("component", "webhook"),
		url:      strings.TrimSpace(cfg.URL),
		client:   client,
		patterns: normalizePatterns(cfg.Subscribe),
	}
	if w.client == nil {
		w.client = &http.Client{Timeout: defaultTimeout}
	}
	if len(w.patterns) == 0 {
		w.patterns = defaultPatterns
	}
	if w.url == "" {
		w.logger.Debug("NOTIFY_WEBHOOK_URL not set, webhook notifications disabled")
		return w
	}
	w.enabled = true
	return w
}

// Enabled reports whether a URL is configured.
func (w *Webhook) Enabled() bool {
	return w.enabled
}

// Subscribed reports whether event type t matches one of the patterns.
func (w *Webhook) Subscribed(t core.EventTypeName) bool {
	for _, pattern := range w.patterns {
		if core.MatchesPattern(t, pattern) {
			return true
		}
	}
	return false
}

// Notify sends event when the webhook is enabled and subscribed to it.
func (w *Webhook) Notify(ctx context.Context, event core.BuildEvent) error {
	if !w.enabled || !w.Subscribed(event.Type) {
		return nil
	}
	if err := w.send(ctx, event); err != nil {
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	return nil
}

func (w *Webhook) send(ctx context.Context, event core.BuildEvent) error {
	payload := map[string]interface{}{
		"event_type": event.Type,
		"timestamp":  event.Timestamp,
		"source":     event.Source,
		"message":    event.String,
		"details":    event.Details,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	w.logger.DebugContext(ctx, "Webhook delivered successfully", "event", event.Type)
	return nil
}

func normalizePatterns(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
