package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplan/internal/config"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

var changes = []plan.Change{
	{Type: plan.ChangeUpdated, Entry: plan.PlanEntry{MaterialID: "math", Date: plan.NewDate(2025, time.June, 4), RangeStart: 51, RangeEnd: 67, Amount: 17}},
	{Type: plan.ChangeDeleted, Entry: plan.PlanEntry{MaterialID: "math", Date: plan.NewDate(2025, time.June, 5), RangeStart: 61, RangeEnd: 80, Amount: 20}},
}

func newTestWebhook(url, secret string, maxRetries int) *WebhookNotifier {
	n := NewWebhookNotifier(config.WebhookConfig{URL: url, Secret: secret, MaxRetries: maxRetries, TimeoutSeconds: 5})
	n.retryDelay = time.Millisecond
	return n
}

func TestWebhookNotifier_Publish(t *testing.T) {
	tests := []struct {
		name         string
		secret       string
		maxRetries   int
		statuses     []int
		wantErr      string
		wantRequests int32
	}{
		{
			name:         "delivered on first attempt",
			secret:       "s3cret",
			statuses:     []int{http.StatusNoContent},
			wantRequests: 1,
		},
		{
			name:         "server errors are retried",
			maxRetries:   2,
			statuses:     []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK},
			wantRequests: 3,
		},
		{
			name:         "gives up after max retries",
			maxRetries:   1,
			statuses:     []int{http.StatusInternalServerError, http.StatusServiceUnavailable},
			wantErr:      "response error 503",
			wantRequests: 2,
		},
		{
			name:         "client errors are not retried",
			maxRetries:   3,
			statuses:     []int{http.StatusBadRequest},
			wantErr:      "response error 400",
			wantRequests: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				i := requests.Add(1) - 1
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/hooks/plan", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				if tt.secret != "" {
					assert.Equal(t, Sign(tt.secret, body), r.Header.Get(SignatureHeader))
				} else {
					assert.Empty(t, r.Header.Get(SignatureHeader))
				}

				var got webhookBody
				require.NoError(t, json.Unmarshal(body, &got))
				require.Len(t, got.Events, 2)
				assert.Equal(t, plan.ChangeUpdated, got.Events[0].Type)
				assert.Equal(t, "2025-06-04", got.Events[0].Date.String())
				assert.Equal(t, 17, got.Events[0].Amount)
				assert.NotEmpty(t, got.Events[0].ID)

				w.WriteHeader(tt.statuses[min(int(i), len(tt.statuses)-1)])
			}))
			defer server.Close()

			n := newTestWebhook(server.URL+"/hooks/plan", tt.secret, tt.maxRetries)
			defer n.Close()

			err := n.Publish(context.Background(), changes)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRequests, requests.Load())
		})
	}
}

func TestWebhookNotifier_Publish_NoChanges(t *testing.T) {
	n := newTestWebhook("http://127.0.0.1:1/unreachable", "", 0)
	defer n.Close()
	assert.NoError(t, n.Publish(context.Background(), nil))
}

func TestWebhookNotifier_Publish_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := newTestWebhook(server.URL, "", 5)
	defer n.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, n.Publish(ctx, changes))
}

func TestSign(t *testing.T) {
	// echo -n '{"events":[]}' | openssl dgst -sha256 -hmac key
	got := Sign("key", []byte(`{"events":[]}`))
	assert.Len(t, got, 64)
	assert.Equal(t, got, Sign("key", []byte(`{"events":[]}`)))
	assert.NotEqual(t, got, Sign("other", []byte(`{"events":[]}`)))
}
