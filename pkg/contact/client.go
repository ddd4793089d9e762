package contact

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/httputil"
	"github.com/matzehuels/ridgeline/pkg/observability"
)

// DefaultEndpoint is the EmailJS send API.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

const (
	httpTimeout       = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
	maxRetryDelay     = 8 * time.Second
)

// Config holds EmailJS credentials and delivery tuning.
type Config struct {
	Endpoint    string        `toml:"endpoint" env:"ENDPOINT"`
	ServiceID   string        `toml:"service_id" env:"SERVICE_ID"`
	TemplateID  string        `toml:"template_id" env:"TEMPLATE_ID"`
	PublicKey   string        `toml:"public_key" env:"PUBLIC_KEY"`
	AccessToken string        `toml:"access_token" env:"ACCESS_TOKEN"` // Optional private key
	Attempts    int           `toml:"attempts" env:"ATTEMPTS"`
	RetryDelay  time.Duration `toml:"retry_delay" env:"RETRY_DELAY"`
}

// Validate checks that the credentials are present.
func (c Config) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidConfig)
	v.Check(c.ServiceID != "", "service_id", "is required")
	v.Check(c.TemplateID != "", "template_id", "is required")
	v.Check(c.PublicKey != "", "public_key", "is required")
	if c.Endpoint != "" {
		if err := errors.ValidateURL(c.Endpoint); err != nil {
			v.Add("endpoint", "%s", errors.UserMessage(err))
		}
	}
	v.Check(c.Attempts >= 0, "attempts", "must not be negative")
	v.Check(c.RetryDelay >= 0, "retry_delay", "must not be negative")
	return v.Err()
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client sends messages to EmailJS. It is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *log.Logger
	now    func() time.Time
}

// NewClient validates cfg and fills in defaults.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: httpTimeout},
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// sendRequest is the EmailJS request body.
type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send validates msg and delivers it. The receipt is returned on failure
// too, with Outcome set to failure.
func (c *Client) Send(ctx context.Context, msg Message) (Receipt, error) {
	receipt := Receipt{ID: uuid.NewString(), Outcome: OutcomeFailure, SentAt: c.now()}

	msg = msg.Normalize()
	if err := msg.Validate(); err != nil {
		return receipt, err
	}
	if msg.Time.IsZero() {
		msg.Time = receipt.SentAt
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.AccessToken,
		TemplateParams: msg.TemplateParams(),
	})
	if err != nil {
		return receipt, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	policy := httputil.Policy{
		Attempts: c.cfg.Attempts,
		Delay:    c.cfg.RetryDelay,
		MaxDelay: maxRetryDelay,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			c.logger.Debug("contact delivery retry", "id", receipt.ID, "attempt", attempt, "wait", wait, "err", err)
		},
	}
	err = policy.Do(ctx, func(attempt int) error {
		receipt.Attempts = attempt
		status, err := c.post(ctx, body)
		receipt.StatusCode = status
		return err
	})
	if err != nil {
		err = classify(ctx, err)
		c.logger.Warn("contact delivery failed", "id", receipt.ID, "attempts", receipt.Attempts, "err", err)
		return receipt, err
	}

	receipt.Outcome = OutcomeSuccess
	c.logger.Info("contact message sent", "id", receipt.ID, "attempts", receipt.Attempts)
	return receipt, nil
}

// errRateLimited marks a 429 response inside the retry loop.
type errRateLimited struct{ retryAfter time.Duration }

func (e *errRateLimited) Error() string { return "rate limited" }

func (c *Client) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	host, path := req.URL.Host, req.URL.Path
	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, host, path)

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusTooManyRequests {
		after, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return resp.StatusCode, &errRateLimited{retryAfter: time.Duration(after) * time.Second}
	}
	if err := httputil.CheckStatus(resp); err != nil {
		return resp.StatusCode, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// classify maps a delivery failure to an error code.
func classify(ctx context.Context, err error) error {
	var rl *errRateLimited
	var status *httputil.StatusError
	var urlErr *url.Error
	switch {
	case stderrors.As(err, &rl):
		return errors.Wrap(errors.ErrCodeRateLimited,
			&errors.RateLimitedError{RetryAfter: rl.retryAfter}, "emailjs refused the message")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "deliver message")
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.As(err, &status):
		return errors.Wrap(errors.ErrCodeDeliveryFailed, err, "emailjs rejected the message")
	case stderrors.As(err, &urlErr):
		if urlErr.Timeout() {
			return errors.Wrap(errors.ErrCodeTimeout, err, "deliver message")
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "deliver message")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, "deliver message")
}
