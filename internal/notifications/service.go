package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pizzahunt/internal/config"
)

const userAgent = "PizzaHunt-Go/0.1.0"

// FlushCompletedMessage is shown to the user once every saved pizza has been
// accepted by the server.
const FlushCompletedMessage = "All saved pizza has been submitted!"

// Event identifies a notification type.
type Event string

const (
	EventFlushCompleted Event = "flush_completed"
	EventRecordQueued   Event = "record_queued"
	EventError          Event = "error"
	EventTest           Event = "test"
)

// Payload carries event-specific values keyed by name.
type Payload map[string]any

// Service publishes events to a notification transport.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: map[Event]bool{
			EventFlushCompleted: cfg.Notifications.FlushCompleted,
			EventRecordQueued:   cfg.Notifications.RecordQueued,
			EventError:          cfg.Notifications.Errors,
			EventTest:           true,
		},
	}
}

// NewNoop returns a Service that discards every event.
func NewNoop() Service { return noopService{} }

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

// render converts an event into the text shown to the user. Unknown events
// render as ok=false.
func render(event Event, payload Payload) (message, bool) {
	switch event {
	case EventFlushCompleted:
		body := FlushCompletedMessage
		if count := payloadInt(payload, "count"); count > 0 {
			body = fmt.Sprintf("%s (%d)", body, count)
		}
		return message{
			title: "Pizza Hunt - Saved Pizzas Submitted",
			body:  body,
			tags:  []string{"pizzahunt", "queue", "submitted"},
		}, true
	case EventRecordQueued:
		name := payloadString(payload, "pizzaName")
		if name == "" {
			name = "pizza"
		}
		return message{
			title: "Pizza Hunt - Saved Offline",
			body:  fmt.Sprintf("📦 Saved %s offline; it will be submitted when the connection returns", name),
			tags:  []string{"pizzahunt", "queue", "saved"},
		}, true
	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := payloadString(payload, "context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if text := payloadString(payload, "error"); text != "" {
			builder.WriteString(text)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "Pizza Hunt - Error",
			body:     builder.String(),
			tags:     []string{"pizzahunt", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Pizza Hunt - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"pizzahunt", "test"},
			priority: "low",
		}, true
	}
	return message{}, false
}

func payloadString(payload Payload, key string) string {
	if payload == nil {
		return ""
	}
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func payloadInt(payload Payload, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n == nil || n.client == nil || !n.enabled[event] {
		return nil
	}
	msg, ok := render(event, payload)
	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
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

// NewConsole returns a Service that prints user-facing messages to w. Test
// events are ignored so test-notify only exercises remote transports.
func NewConsole(w io.Writer) Service {
	if w == nil {
		return noopService{}
	}
	return consoleService{out: w}
}

type consoleService struct {
	out io.Writer
}

func (c consoleService) Publish(_ context.Context, event Event, payload Payload) error {
	if event == EventTest {
		return nil
	}
	msg, ok := render(event, payload)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(c.out, msg.body)
	return err
}

// Fanout publishes each event to every service and joins their errors.
func Fanout(services ...Service) Service {
	var filtered []Service
	for _, svc := range services {
		if svc == nil {
			continue
		}
		if _, ok := svc.(noopService); ok {
			continue
		}
		filtered = append(filtered, svc)
	}
	switch len(filtered) {
	case 0:
		return noopService{}
	case 1:
		return filtered[0]
	}
	return fanoutService(filtered)
}

type fanoutService []Service

func (f fanoutService) Publish(ctx context.Context, event Event, payload Payload) error {
	var errs []error
	for _, svc := range f {
		if err := svc.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
