package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
	"github.com/overtimehq/overtime-api/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	EndpointURL    string
	Secret         string
	Retries        int
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers edit-request decisions to a configured HTTP
// endpoint. Delivery is best effort with bounded retries behind a breaker.
type WebhookPublisher struct {
	client         *http.Client
	endpointURL    string
	secret         string
	retries        int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client:         &http.Client{Timeout: timeout},
		endpointURL:    strings.TrimSpace(cfg.EndpointURL),
		secret:         strings.TrimSpace(cfg.Secret),
		retries:        cfg.Retries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type decisionPayload struct {
	RequestID       string     `json:"request_id"`
	Kind            string     `json:"kind"`
	TargetID        string     `json:"target_id"`
	State           string     `json:"state"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	DecidedBy       string     `json:"decided_by"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
}

func (p *WebhookPublisher) NotifyDecision(ctx context.Context, r editrequest.Request) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "decision webhook circuit breaker rejected request", "state", p.breaker.State())
			return fmt.Errorf("decision webhook is temporarily unavailable: %w", err)
		}
	}

	endpoint, err := validateHTTPURL(p.endpointURL)
	if err != nil {
		return crerr.Wrap(err, "invalid WEBHOOK_ENDPOINT_URL")
	}

	body, err := sonic.Marshal(decisionPayload{
		RequestID:       r.ID,
		Kind:            r.Kind,
		TargetID:        r.TargetID,
		State:           r.State,
		RejectionReason: r.RejectionReason,
		DecidedBy:       r.DecidedBy,
		DecidedAt:       r.DecidedAt,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal decision payload")
	}

	bodyText := truncateForLog(string(body), 4096)
	preview := buildCurlPreview(endpoint, bodyText, p.secret != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint_url", endpoint),
			attribute.String("webhook.request_body", bodyText),
			attribute.String("webhook.request_curl_preview", preview),
		)
	}
	p.logger.InfoContext(ctx, "decision webhook request", "request_id", r.ID, "state", r.State, "curl_preview", preview)

	attempts := p.retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = p.deliver(ctx, endpoint, body)
		p.recordCircuitResult(lastErr)
		if lastErr == nil {
			p.logger.InfoContext(ctx, "decision webhook delivered", "request_id", r.ID, "attempt", attempt+1)
			return nil
		}
		if !isTransient(lastErr) {
			break
		}
	}

	return lastErr
}

func (p *WebhookPublisher) deliver(ctx context.Context, endpoint string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.secret != "" {
		req.Header.Set("X-Webhook-Secret", p.secret)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post decision webhook endpoint=%s: %v", errWebhookTransient, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			return fmt.Errorf("%w: post decision webhook status=%d body=%s", errWebhookTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return fmt.Errorf("post decision webhook status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return nil
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil {
		p.breaker.RecordSuccess()
		return
	}
	if isTransient(err) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errWebhookTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}

func buildCurlPreview(endpoint, body string, withSecret bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpoint))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	if withSecret {
		appendPart("-H")
		appendPart(shellQuote("X-Webhook-Secret: ***"))
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
