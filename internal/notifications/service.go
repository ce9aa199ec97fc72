package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roulette/internal/config"
	"roulette/internal/jobs"
)

const userAgent = "Roulette-Go/0.1.0"

// Service defines the notification surface used by the job runner and CLI.
type Service interface {
	NotifyJobCompleted(ctx context.Context, result jobs.Result) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
	Enabled() bool
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NtfyRequestTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Enabled() bool { return true }

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, result jobs.Result) error {
	duration := result.FinishedAt.Sub(result.StartedAt).Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var message string
	switch result.Kind {
	case jobs.KindRefresh:
		message = fmt.Sprintf("Refreshed ratings for %d movies in %s", result.Updated, duration)
	default:
		message = fmt.Sprintf("Imported %d new movies (%d skipped) in %s", result.Added, result.Skipped, duration)
	}

	title := "Roulette - " + titleForKind(result.Kind) + " Complete"
	if result.Failed > 0 {
		title += " (with errors)"
		message = fmt.Sprintf("%s, %d failed", message, result.Failed)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"roulette", string(result.Kind), "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Roulette - Error",
		message:  builder.String(),
		tags:     []string{"roulette", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Roulette - Test",
		message:  "Notification system test",
		tags:     []string{"roulette", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func titleForKind(kind jobs.Kind) string {
	switch kind {
	case jobs.KindRefresh:
		return "Refresh"
	default:
		return "Import"
	}
}

type noopService struct{}

func (noopService) Enabled() bool                                         { return false }
func (noopService) NotifyJobCompleted(context.Context, jobs.Result) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error      { return nil }
func (noopService) TestNotification(context.Context) error                { return nil }
