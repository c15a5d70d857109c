package puppybowl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/puppy-bowl/internal/domain/player"
	"github.com/riskibarqy/puppy-bowl/internal/metrics"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"github.com/riskibarqy/puppy-bowl/internal/platform/resilience"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://fsa-puppy-bowl.herokuapp.com/api"
	DefaultCohort  = "2307-fsa-et-web-sf"

	maxResponseBytes = 2 << 20
)

const (
	opListPlayers  = "list_players"
	opGetPlayer    = "get_player"
	opRemovePlayer = "remove_player"
	opCreatePlayer = "create_player"
)

var errRosterTransient = crerr.New("roster api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Cohort         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Puppy Bowl roster API for a single cohort.
type Client struct {
	httpClient   *http.Client
	rootURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	metrics      *metrics.Recorder
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

var _ player.Roster = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("puppybowl")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cohort := strings.Trim(strings.TrimSpace(cfg.Cohort), "/")
	if cohort == "" {
		cohort = DefaultCohort
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}

	breaker := cfg.CircuitBreaker.Build()
	recorder := cfg.Metrics
	breaker.OnTransition(func(from, to resilience.CircuitState) {
		logger.Warn("roster api circuit breaker state changed", "from", from, "to", to)
		recorder.RecordCircuitTransition(string(to))
	})

	return &Client{
		httpClient:   httpClient,
		rootURL:      baseURL + "/" + url.PathEscape(cohort),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: retryBackoff,
		logger:       logger,
		metrics:      recorder,
		breaker:      breaker,
	}
}

// ListPlayers fetches GET /players and returns data.players in API order.
func (c *Client) ListPlayers(ctx context.Context) ([]player.Player, error) {
	var payload envelope[playersData]
	if err := c.doJSON(ctx, opListPlayers, http.MethodGet, "/players", nil, &payload); err != nil {
		return nil, crerr.Wrap(err, "fetch all players")
	}
	if payload.Data == nil {
		return nil, crerr.New("fetch all players: response has no data")
	}

	return mapPlayers(payload.Data.Players), nil
}

// GetPlayer fetches GET /players/{id} and returns data.player.
func (c *Client) GetPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	var payload envelope[playerData]
	path := "/players/" + strconv.FormatInt(playerID, 10)
	if err := c.doJSON(ctx, opGetPlayer, http.MethodGet, path, nil, &payload); err != nil {
		return player.Player{}, crerr.Wrapf(err, "fetch player id=%d", playerID)
	}
	if payload.Data == nil || payload.Data.Player == nil {
		return player.Player{}, crerr.Wrapf(usecase.ErrNotFound, "fetch player id=%d: response has no player", playerID)
	}

	return payload.Data.Player.toDomain(), nil
}

// RemovePlayer issues DELETE /players/{id}. A missing player surfaces as usecase.ErrNotFound.
func (c *Client) RemovePlayer(ctx context.Context, playerID int64) error {
	var payload envelope[struct{}]
	path := "/players/" + strconv.FormatInt(playerID, 10)
	if err := c.doJSON(ctx, opRemovePlayer, http.MethodDelete, path, nil, &payload); err != nil {
		return crerr.Wrapf(err, "remove player id=%d", playerID)
	}

	return nil
}

// CreatePlayer issues POST /players and returns data.newPlayer.
func (c *Client) CreatePlayer(ctx context.Context, draft player.Draft) (player.Player, error) {
	body, err := sonic.Marshal(createPlayerRequest{
		Name:     draft.Name,
		Breed:    draft.Breed,
		ImageURL: draft.ImageURL,
	})
	if err != nil {
		return player.Player{}, crerr.Wrap(err, "marshal new player")
	}

	var payload envelope[newPlayerData]
	if err := c.doJSON(ctx, opCreatePlayer, http.MethodPost, "/players", body, &payload); err != nil {
		return player.Player{}, crerr.Wrapf(err, "create player name=%q", draft.Name)
	}
	if payload.Data == nil || payload.Data.NewPlayer == nil {
		return player.Player{}, crerr.New("create player: response has no newPlayer")
	}

	return payload.Data.NewPlayer.toDomain(), nil
}

type envelopeError interface {
	apiFailure() *apiError
}

func (e *envelope[T]) apiFailure() *apiError {
	if e == nil {
		return nil
	}
	return e.Error
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body []byte, target envelopeError) error {
	var raw []byte
	err := c.breaker.Guard(func() error {
		var reqErr error
		raw, reqErr = c.fetch(ctx, op, method, path, body)
		return reqErr
	}, isTransient)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "roster api circuit breaker rejected request", "operation", op, "state", c.breaker.State())
		return crerr.Wrap(usecase.ErrDependencyUnavailable, "roster api is temporarily unavailable")
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode roster payload body=%s", abbreviateBody(raw))
	}
	if apiErr := target.apiFailure(); apiErr != nil {
		if apiErr.notFound() {
			return crerr.Wrapf(usecase.ErrNotFound, "roster api: %s", apiErr)
		}
		return crerr.Newf("roster api error: %s", apiErr)
	}

	return nil
}

// fetch deduplicates identical in-flight GETs; every caller decodes its own copy.
// The shared request runs detached from any single caller's cancellation, and each
// caller stops waiting when its own context ends.
func (c *Client) fetch(ctx context.Context, op, method, path string, body []byte) ([]byte, error) {
	fullURL := c.rootURL + path
	if method != http.MethodGet {
		raw, err := c.executeRequest(ctx, op, method, fullURL, body)
		if err == nil {
			c.forgetAfterWrite(path)
		}
		return raw, err
	}

	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(flightKey(fullURL), func() (any, error) {
		return c.executeRequest(shared, op, method, fullURL, nil)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		raw, ok := res.Val.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected response payload type %T", res.Val)
		}
		return raw, nil
	}
}

// forgetAfterWrite drops in-flight reads a successful write made stale, so the
// next read starts a fresh request instead of joining one begun before the write.
func (c *Client) forgetAfterWrite(path string) {
	c.flight.Forget(flightKey(c.rootURL + "/players"))
	if path != "/players" {
		c.flight.Forget(flightKey(c.rootURL + path))
	}
}

func flightKey(fullURL string) string {
	return http.MethodGet + " " + fullURL
}

func (c *Client) executeRequest(ctx context.Context, op, method, fullURL string, body []byte) ([]byte, error) {
	attempts := 1
	if isIdempotent(method) {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		started := time.Now()
		raw, err := c.attempt(ctx, method, fullURL, body)
		c.metrics.RecordRosterAttempt(op, time.Since(started), err)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isTransient(err) || attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "roster api request failed",
		"operation", op,
		"method", method,
		"url", fullURL,
		"error", lastErr,
	)
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, crerr.Mark(crerr.Wrap(err, "send request"), errRosterTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "read response body"), errRosterTransient)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, crerr.Wrapf(usecase.ErrNotFound, "roster api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, crerr.Wrapf(usecase.ErrInvalidInput, "roster api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	case isRetryableStatus(resp.StatusCode):
		return nil, crerr.Mark(crerr.Newf("roster api status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errRosterTransient)
	default:
		return nil, crerr.Newf("roster api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func isTransient(err error) bool {
	return crerr.Is(err, errRosterTransient)
}

func isIdempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodDelete
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
