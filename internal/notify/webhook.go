package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/studyplan/internal/config"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body when a secret is configured.
const SignatureHeader = "X-Studyplan-Signature"

// WebhookNotifier POSTs batches of events to an HTTP endpoint.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	secret     string
	maxRetries uint
	retryDelay time.Duration
}

type webhookBody struct {
	Events []Event `json:"events"`
}

func NewWebhookNotifier(cfg config.WebhookConfig) *WebhookNotifier {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("User-Agent", "studyplan-webhook/1")
	if cfg.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	return &WebhookNotifier{
		httpClient: client,
		url:        cfg.URL,
		secret:     cfg.Secret,
		maxRetries: uint(max(cfg.MaxRetries, 0)),
		retryDelay: 200 * time.Millisecond,
	}
}

func (n *WebhookNotifier) Close() error {
	return n.httpClient.Close()
}

// Sign returns the signature of body for secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Publish sends all changes in one request, retrying network errors, 429 and 5xx responses.
func (n *WebhookNotifier) Publish(ctx context.Context, changes []plan.Change) error {
	if len(changes) == 0 {
		return nil
	}
	body, err := json.Marshal(webhookBody{Events: NewEvents(changes)})
	if err != nil {
		return fmt.Errorf("json.Marshal(webhook body) > %w", err)
	}

	if err := retry.Do(
		func() error {
			return n.post(ctx, body)
		},
		retry.Context(ctx),
		retry.Attempts(n.maxRetries+1),
		retry.Delay(n.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(attempt uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(attempt, err, config)
		}),
	); err != nil {
		return fmt.Errorf("webhook %s > %w", n.url, err)
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	request := n.httpClient.R().
		SetContext(ctx).
		SetBody(body)
	if n.secret != "" {
		request.SetHeader(SignatureHeader, Sign(n.secret, body))
	}

	response, err := request.Post(n.url)
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if !response.IsError() {
		return nil
	}

	err = fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	if response.StatusCode() == http.StatusTooManyRequests || response.StatusCode() >= http.StatusInternalServerError {
		return err
	}
	return retry.Unrecoverable(err)
}
