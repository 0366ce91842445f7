package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"lol-coach/internal/config"
	"lol-coach/internal/constants"
	"lol-coach/internal/regions"
)

// Client is the authenticated wrapper around the Riot stats API. The
// underlying fasthttp client is acquired once at construction, shared across
// concurrent calls, and released by Close at shutdown.
type Client struct {
	apiKey  string
	client  *fasthttp.Client
	logger  zerolog.Logger
	baseURL string // test override; empty in production

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo mirrors the app-rate-limit headers from the last response.
type RateLimitInfo struct {
	Limit     string    `json:"limit"`
	Count     string    `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// Close releases the pooled connections. Safe to call exactly once at
// shutdown.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	limit := string(resp.Header.Peek("X-App-Rate-Limit"))
	count := string(resp.Header.Peek("X-App-Rate-Limit-Count"))
	if limit == "" && count == "" {
		return
	}

	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()
	if limit != "" {
		c.rateLimit.Limit = limit
	}
	if count != "" {
		c.rateLimit.Count = count
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *Client) hostFor(cluster string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s.api.riotgames.com", cluster)
}

// GetAccount resolves a riot id on the global identity cluster. The second
// return value is false when the account does not exist.
func (c *Client) GetAccount(ctx context.Context, gameName, tagLine string) (*Account, bool, error) {
	url := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s", c.hostFor(regions.GlobalCluster), gameName, tagLine)
	return getJSON[Account](ctx, c, url)
}

// GetSummoner resolves the regional profile for a puuid.
func (c *Client) GetSummoner(ctx context.Context, region, puuid string) (*Summoner, bool, error) {
	url := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.hostFor(region), puuid)
	return getJSON[Summoner](ctx, c, url)
}

// GetLeagueEntries returns the ranked standings for a summoner id. An absent
// resource decodes to an empty list, not an error.
func (c *Client) GetLeagueEntries(ctx context.Context, region, summonerID string) ([]LeagueEntry, error) {
	url := fmt.Sprintf("%s/lol/league/v4/entries/by-summoner/%s", c.hostFor(region), summonerID)
	entries, found, err := getJSON[[]LeagueEntry](ctx, c, url)
	if err != nil || !found {
		return nil, err
	}
	return *entries, nil
}

// GetMatchIDs lists the most recent match ids for a puuid, most-recent-first,
// routed by the region's cluster.
func (c *Client) GetMatchIDs(ctx context.Context, region, puuid string, count int) ([]string, error) {
	cluster := regions.PlatformFor(region)
	url := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d", c.hostFor(cluster), puuid, count)
	ids, found, err := getJSON[[]string](ctx, c, url)
	if err != nil || !found {
		return nil, err
	}
	return *ids, nil
}

// GetMatchDetail fetches one match, routed by the region's cluster.
func (c *Client) GetMatchDetail(ctx context.Context, region, matchID string) (*MatchDetail, bool, error) {
	cluster := regions.PlatformFor(region)
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.hostFor(cluster), matchID)
	return getJSON[MatchDetail](ctx, c, url)
}

// GetMatchTimeline fetches the per-minute timeline for one match.
func (c *Client) GetMatchTimeline(ctx context.Context, region, matchID string) (*MatchTimeline, bool, error) {
	cluster := regions.PlatformFor(region)
	url := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.hostFor(cluster), matchID)
	return getJSON[MatchTimeline](ctx, c, url)
}

// GetTopMastery returns the highest champion masteries for a puuid.
func (c *Client) GetTopMastery(ctx context.Context, region, puuid string) ([]ChampionMastery, error) {
	url := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/top", c.hostFor(region), puuid)
	masteries, found, err := getJSON[[]ChampionMastery](ctx, c, url)
	if err != nil || !found {
		return nil, err
	}
	return *masteries, nil
}

func getJSON[T any](ctx context.Context, c *Client, url string) (*T, bool, error) {
	body, found, err := c.get(ctx, url)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", url, err)
	}
	return &result, true, nil
}

// get performs one authenticated GET with the uniform failure policy:
// 200 returns the body, 404 returns found=false, 429 waits out Retry-After
// without consuming the attempt budget (capped), and anything else is retried
// up to the fixed attempt budget before failing with an UpstreamError.
func (c *Client) get(ctx context.Context, url string) ([]byte, bool, error) {
	var lastStatus int
	var lastDetail string

	rateLimitWaits := 0
	for attempt := 0; attempt < constants.RiotMaxAttempts; attempt++ {
		body, status, retryAfter, err := c.doOnce(ctx, url)
		if err != nil {
			lastStatus = 0
			lastDetail = err.Error()
			c.logger.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("riot api transport error")
			if attempt == constants.RiotMaxAttempts-1 {
				return nil, false, &UpstreamError{Status: lastStatus, Detail: lastDetail}
			}
			if err := sleepCtx(ctx, constants.RiotRetryDelay); err != nil {
				return nil, false, err
			}
			continue
		}

		switch {
		case status == fasthttp.StatusOK:
			return body, true, nil

		case status == fasthttp.StatusNotFound:
			return nil, false, nil

		case status == fasthttp.StatusTooManyRequests:
			if rateLimitWaits >= constants.RiotMaxRateLimitWaits {
				c.logger.Error().Str("url", url).Int("waits", rateLimitWaits).Msg("rate limit wait cap exceeded")
				return nil, false, ErrTimeout
			}
			rateLimitWaits++
			c.logger.Warn().Str("url", url).Dur("retry_after", retryAfter).Msg("rate limited, waiting")
			if err := sleepCtx(ctx, retryAfter); err != nil {
				return nil, false, err
			}
			// not counted against the attempt budget
			attempt--

		default:
			lastStatus = status
			lastDetail = fmt.Sprintf("unexpected status %d", status)
			c.logger.Warn().Str("url", url).Int("status", status).Int("attempt", attempt+1).Msg("riot api error response")
			if attempt == constants.RiotMaxAttempts-1 {
				return nil, false, &UpstreamError{Status: lastStatus, Detail: lastDetail}
			}
			if err := sleepCtx(ctx, constants.RiotRetryDelay); err != nil {
				return nil, false, err
			}
		}
	}

	return nil, false, ErrTimeout
}

func (c *Client) doOnce(ctx context.Context, url string) ([]byte, int, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", c.apiKey)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, constants.ExternalAPITimeout)
	}
	if err != nil {
		return nil, 0, 0, err
	}

	c.updateRateLimit(resp)

	status := resp.StatusCode()
	var retryAfter time.Duration
	if status == fasthttp.StatusTooManyRequests {
		retryAfter = parseRetryAfter(resp)
	}

	body := append([]byte(nil), resp.Body()...)
	return body, status, retryAfter, nil
}

func parseRetryAfter(resp *fasthttp.Response) time.Duration {
	secs := constants.RiotDefaultRetryAfterSec
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			secs = parsed
		}
	}
	return time.Duration(secs) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
