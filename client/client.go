package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
	"github.com/sultan-labs/sultan-go/jsonx"
	"github.com/sultan-labs/sultan-go/logx"
	"github.com/sultan-labs/sultan-go/monitoring"
	"github.com/sultan-labs/sultan-go/transaction"
	"github.com/sultan-labs/sultan-go/types"
)

const (
	MainnetURL = "https://rpc.sltn.io"
	TestnetURL = "https://testnet.sltn.io"

	DefaultTimeout      = 20 * time.Second
	DefaultPollInterval = 2 * time.Second

	// responses above this size are treated as broken
	maxResponseBytes = 4 << 20
)

// URLForNetwork maps a network name to its public RPC endpoint.
func URLForNetwork(network string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "", "mainnet":
		return MainnetURL, nil
	case "testnet":
		return TestnetURL, nil
	default:
		return "", fmt.Errorf("unknown network %q (want mainnet or testnet)", network)
	}
}

type Config struct {
	// BaseURL of the node RPC, e.g. https://rpc.sltn.io. Required.
	BaseURL string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	// Timeout bounds a single request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// PollInterval is the delay between WaitForConfirmation polls.
	// Defaults to DefaultPollInterval.
	PollInterval time.Duration
	// Metrics may be nil.
	Metrics *monitoring.ClientMetrics
}

// SultanClient talks JSON over HTTP to a Sultan node. It is safe for
// concurrent use.
type SultanClient struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	metrics      *monitoring.ClientMetrics
	nonces       *transaction.NonceTracker
	now          func() time.Time
}

func NewClient(cfg Config) (*SultanClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid rpc url %q: %w", cfg.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid rpc url %q: want http(s)://host", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	return &SultanClient{
		baseURL:      base,
		httpClient:   httpClient,
		pollInterval: poll,
		metrics:      cfg.Metrics,
		nonces:       transaction.NewNonceTracker(),
		now:          time.Now,
	}, nil
}

func NewMainnetClient() *SultanClient {
	return mustNewClient(MainnetURL)
}

func NewTestnetClient() *SultanClient {
	return mustNewClient(TestnetURL)
}

func mustNewClient(baseURL string) *SultanClient {
	c, err := NewClient(Config{BaseURL: baseURL})
	if err != nil {
		panic(err)
	}
	return c
}

func (c *SultanClient) BaseURL() string {
	return c.baseURL
}

func (c *SultanClient) GetStatus(ctx context.Context) (types.Status, error) {
	var st types.Status
	if err := c.do(ctx, http.MethodGet, monitoring.EndpointStatus, "/status", nil, &st); err != nil {
		return types.Status{}, err
	}
	return st, nil
}

func (c *SultanClient) GetBalance(ctx context.Context, address string) (types.Balance, error) {
	var bal types.Balance
	path := "/balance/" + url.PathEscape(address)
	if err := c.do(ctx, http.MethodGet, monitoring.EndpointBalance, path, nil, &bal); err != nil {
		return types.Balance{}, err
	}
	return bal, nil
}

// GetBalanceDisplay returns the balance of address in display units.
func (c *SultanClient) GetBalanceDisplay(ctx context.Context, address string) (float64, error) {
	bal, err := c.GetBalance(ctx, address)
	if err != nil {
		return 0, err
	}
	return transaction.ToDisplay(bal.Balance), nil
}

func (c *SultanClient) GetTransaction(ctx context.Context, hash string) (types.TxStatus, error) {
	var st types.TxStatus
	path := "/tx/" + url.PathEscape(hash)
	if err := c.do(ctx, http.MethodGet, monitoring.EndpointGetTx, path, nil, &st); err != nil {
		return types.TxStatus{}, err
	}
	return st, nil
}

// SubmitTransaction posts a signed envelope to /tx.
func (c *SultanClient) SubmitTransaction(ctx context.Context, env transaction.SignedEnvelope) (types.TxStatus, error) {
	var st types.TxStatus
	if err := c.do(ctx, http.MethodPost, monitoring.EndpointSubmitTx, "/tx", env, &st); err != nil {
		var ne *sdkerrors.NetworkError
		if errors.As(err, &ne) && ne.StatusCode != 0 {
			c.metrics.RecordRejectedTx(monitoring.TxRejectedReason(ne.Code))
		}
		return types.TxStatus{}, err
	}
	c.metrics.RecordSubmittedTx()
	return st, nil
}

func (c *SultanClient) do(ctx context.Context, method, endpoint, path string, in, out interface{}) error {
	target := c.baseURL + path

	var body io.Reader
	if in != nil {
		b, err := jsonx.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: marshal %s request: %v", sdkerrors.ErrEncoding, endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return sdkerrors.NewTransportError(method, target, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logx.Debug("RPC", fmt.Sprintf("%s %s id=%s", method, target, reqID))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(endpoint, 0, time.Since(start))
		logx.Error("RPC", fmt.Sprintf("%s %s id=%s failed: %v", method, target, reqID, err))
		return sdkerrors.NewTransportError(method, target, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logx.Warn("RPC", "close response body:", cerr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.RecordRequest(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		ne := sdkerrors.NewTransportError(method, target, fmt.Errorf("read body: %w", err))
		ne.StatusCode = resp.StatusCode
		return ne
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ne := sdkerrors.NewStatusError(method, target, resp.StatusCode, data)
		logx.Error("RPC", fmt.Sprintf("id=%s: %v", reqID, ne))
		return ne
	}

	if err := jsonx.Unmarshal(data, out); err != nil {
		ne := sdkerrors.NewTransportError(method, target, fmt.Errorf("decode response: %w", err))
		ne.StatusCode = resp.StatusCode
		logx.Error("RPC", fmt.Sprintf("id=%s: %v", reqID, ne))
		return ne
	}
	return nil
}
