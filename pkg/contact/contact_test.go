package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func validMessage() Message {
	return Message{Name: "Ann Example", Email: "ann@example.com", Body: "Loved the mountains."}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Endpoint:   url,
		ServiceID:  "service_test",
		TemplateID: "template_test",
		PublicKey:  "public_test",
		Attempts:   3,
		RetryDelay: time.Millisecond,
	}, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name   string
		msg    Message
		fields []string
	}{
		{"valid", validMessage(), nil},
		{"empty", Message{}, []string{"name", "email", "message"}},
		{"bad email", Message{Name: "A", Email: "nope", Body: "x"}, []string{"email"}},
		{"display name email", Message{Name: "A", Email: "A <a@b.co>", Body: "x"}, []string{"email"}},
		{"long body", Message{Name: "A", Email: "a@b.co", Body: strings.Repeat("x", MaxBodyLen+1)}, []string{"message"}},
		{"control chars", Message{Name: "A\x00", Email: "a@b.co", Body: "x"}, []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("err = %v, want INVALID_INPUT", err)
			}
			for _, f := range tt.fields {
				if !strings.Contains(err.Error(), f+":") {
					t.Errorf("error %q should mention %s", err, f)
				}
			}
		})
	}
}

func TestTemplateParams(t *testing.T) {
	m := validMessage()
	m.Time = fixedNow
	p := m.TemplateParams()
	want := map[string]string{
		"from_name":  "Ann Example",
		"from_email": "ann@example.com",
		"user_name":  "Ann Example",
		"user_email": "ann@example.com",
		"message":    "Loved the mountains.",
		"time":       "3/14/2025, 3:09:26 PM",
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s = %q, want %q", k, p[k], v)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("empty config err = %v", err)
	}
	cfg := Config{ServiceID: "s", TemplateID: "t", PublicKey: "k", Endpoint: "ftp://x"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("bad endpoint err = %v", err)
	}
}

func TestSendSuccess(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	receipt, err := newTestClient(t, srv.URL).Send(context.Background(), validMessage())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if receipt.Outcome != OutcomeSuccess || receipt.Attempts != 1 || receipt.StatusCode != 200 {
		t.Errorf("receipt = %+v", receipt)
	}
	if receipt.ID == "" || !receipt.SentAt.Equal(fixedNow) {
		t.Errorf("receipt id/time = %q %v", receipt.ID, receipt.SentAt)
	}
	if got.ServiceID != "service_test" || got.TemplateID != "template_test" || got.UserID != "public_test" {
		t.Errorf("request ids = %+v", got)
	}
	if got.TemplateParams["time"] != "3/14/2025, 3:09:26 PM" {
		t.Errorf("time param = %q", got.TemplateParams["time"])
	}
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	receipt, err := newTestClient(t, srv.URL).Send(context.Background(), validMessage())
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if receipt.Attempts != 2 || calls.Load() != 2 {
		t.Errorf("attempts = %d, calls = %d, want 2", receipt.Attempts, calls.Load())
	}
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   map[string]string
		code     errors.Code
		attempts int
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "30"}, errors.ErrCodeRateLimited, 1},
		{"bad request", http.StatusBadRequest, nil, errors.ErrCodeDeliveryFailed, 1},
		{"server error exhausted", http.StatusInternalServerError, nil, errors.ErrCodeDeliveryFailed, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			receipt, err := newTestClient(t, srv.URL).Send(context.Background(), validMessage())
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
			if receipt.Outcome != OutcomeFailure {
				t.Errorf("outcome = %s", receipt.Outcome)
			}
			if receipt.Attempts != tt.attempts {
				t.Errorf("attempts = %d, want %d", receipt.Attempts, tt.attempts)
			}
			if receipt.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", receipt.StatusCode, tt.status)
			}
		})
	}
}

func TestSendRateLimitRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Send(context.Background(), validMessage())
	var rl *errors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want a RateLimitedError cause", err)
	}
	if rl.RetryAfter != 12*time.Second {
		t.Errorf("RetryAfter = %v, want 12s", rl.RetryAfter)
	}
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	receipt, err := newTestClient(t, url).Send(context.Background(), validMessage())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("err = %v, want NETWORK_ERROR", err)
	}
	if receipt.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", receipt.Attempts)
	}
}

func TestSendInvalidMessageMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	receipt, err := newTestClient(t, srv.URL).Send(context.Background(), Message{Name: "  ", Email: "x@y.z"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 0 || receipt.Attempts != 0 {
		t.Errorf("calls = %d attempts = %d, want 0", calls.Load(), receipt.Attempts)
	}
}
