package partners

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/appforge-dev/appforge/internal/branding"
)

// GraphQLPath is the partners API endpoint used by the CLI.
const GraphQLPath = "/api/cli/graphql"

// ErrUnauthorized is wrapped by APIError for 401 responses.
var ErrUnauthorized = errors.New("partners API rejected the token")

// Options configures a Client.
type Options struct {
	// BaseURL overrides https://<FQDN>.
	BaseURL   string
	FQDN      string
	Token     string
	UserAgent string
	Timeout   time.Duration
	// RetryMax is the number of retries for failed requests. Zero means
	// DefaultRetryMax, a negative value disables retries.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *zap.Logger
}

// Client talks to the partners GraphQL API.
type Client struct {
	http   *resty.Client
	url    string
	logger *zap.Logger
}

// DefaultRetryMax is the number of retries when Options.RetryMax is zero.
const DefaultRetryMax = 3

// New builds a client. Zero options fall back to the branded partners host,
// a 30s timeout and three retries.
func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = branding.CLIName()
	}

	switch {
	case opts.RetryMax == 0:
		opts.RetryMax = DefaultRetryMax
	case opts.RetryMax < 0:
		opts.RetryMax = 0
	}
	if opts.RetryWaitMin == 0 {
		opts.RetryWaitMin = 500 * time.Millisecond
	}
	if opts.RetryWaitMax == 0 {
		opts.RetryWaitMax = 5 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.Logger = leveledLogger{opts.Logger.Sugar()}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	rc := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)
	if opts.Token != "" {
		rc.SetAuthToken(opts.Token)
	}

	base := opts.BaseURL
	if base == "" {
		fqdn := opts.FQDN
		if fqdn == "" {
			fqdn = branding.PartnersFQDN()
		}
		base = "https://" + fqdn
	}

	return &Client{
		http:   rc,
		url:    strings.TrimSuffix(base, "/") + GraphQLPath,
		logger: opts.Logger,
	}
}

// URL returns the GraphQL endpoint.
func (c *Client) URL() string { return c.url }

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Request runs a GraphQL query and decodes its data into out.
func (c *Client) Request(ctx context.Context, query string, variables map[string]any, out any) error {
	requestID := uuid.NewString()
	c.logger.Debug("partners request",
		zap.String("url", c.url),
		zap.String("request_id", requestID),
		zap.Any("variables", variables))

	envelope := &response{Data: out}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		SetResult(envelope).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("partners request: %w", err)
	}
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.String())
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}
	return nil
}
