package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-invest-backoffice/internal/backoffice/config"
	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/pkg/logger"
	redisPkg "golang-invest-backoffice/pkg/redis"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const REDIS_KEY_QUOTE = "quote:%s"

// Quote is the latest externally observed price for a symbol.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	AsOf   time.Time
}

// QuoteRepository defines the interface for the external price source.
// An unknown symbol yields (nil, nil), never an error.
type QuoteRepository interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	// GetQuotes fetches quotes for a symbol set; symbols without a quote
	// are simply absent from the returned map.
	GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error)
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	memo           *cache.Cache
	redisClient    *redisPkg.Client
	cacheTTL       time.Duration
}

// NewYahooFinanceRepository creates a price source backed by the Yahoo
// Finance chart API, with request throttling and a two-level quote cache.
// The redis client may be nil; caching then stays in-process only.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, redisClient *redisPkg.Client) QuoteRepository {
	maxPerMinute := cfg.Quotes.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxPerMinute)), 1)

	timeout := 10 * time.Second
	if d, err := time.ParseDuration(cfg.Quotes.Timeout); err == nil && d > 0 {
		timeout = d
	}

	cacheTTL := 5 * time.Minute
	if d, err := time.ParseDuration(cfg.Quotes.CacheTTL); err == nil && d > 0 {
		cacheTTL = d
	}

	return &yahooFinanceRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: timeout},
		requestLimiter: requestLimiter,
		memo:           cache.New(cacheTTL, 2*cacheTTL),
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
	}
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	if cached, found := r.memo.Get(symbol); found {
		quote := cached.(Quote)
		return &quote, nil
	}

	if quote := r.getCachedQuote(ctx, symbol); quote != nil {
		r.memo.Set(symbol, *quote, cache.DefaultExpiration)
		return quote, nil
	}

	quote, err := r.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, nil
	}

	r.memo.Set(symbol, *quote, cache.DefaultExpiration)
	r.setCachedQuote(ctx, *quote)

	return quote, nil
}

func (r *yahooFinanceRepository) GetQuotes(ctx context.Context, symbols []string) (map[string]Quote, error) {
	quotes := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		quote, err := r.GetQuote(ctx, symbol)
		if err != nil {
			// A transient source failure is treated as "no quote"; the
			// caller falls back to the stored price.
			r.log.WarnContext(ctx, "Quote fetch failed, skipping symbol",
				logger.ErrorField(err), logger.StringField("symbol", symbol))
			continue
		}
		if quote == nil {
			continue
		}
		quotes[symbol] = *quote
	}
	return quotes, nil
}

func (r *yahooFinanceRepository) fetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", r.cfg.Quotes.BaseURL, symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote source returned status %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	if response.Chart.Error != nil || len(response.Chart.Result) == 0 {
		return nil, nil
	}

	meta := response.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, nil
	}

	return &Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(meta.RegularMarketPrice),
		AsOf:   time.Unix(meta.RegularMarketTime, 0),
	}, nil
}

func (r *yahooFinanceRepository) getCachedQuote(ctx context.Context, symbol string) *Quote {
	if r.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(REDIS_KEY_QUOTE, symbol)
	values, err := r.redisClient.HGetAll(ctx, key).Result()
	if err != nil || len(values) == 0 {
		return nil
	}

	price, err := decimal.NewFromString(values["price"])
	if err != nil {
		return nil
	}
	asOf, err := time.Parse(time.RFC3339, values["as_of"])
	if err != nil {
		return nil
	}

	return &Quote{Symbol: symbol, Price: price, AsOf: asOf}
}

func (r *yahooFinanceRepository) setCachedQuote(ctx context.Context, quote Quote) {
	if r.redisClient == nil {
		return
	}

	key := fmt.Sprintf(REDIS_KEY_QUOTE, quote.Symbol)
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price": quote.Price.String(),
		"as_of": quote.AsOf.Format(time.RFC3339),
	})
	pipe.Expire(ctx, key, r.cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.WarnContext(ctx, "Failed to cache quote in redis",
			logger.ErrorField(err), logger.StringField("symbol", quote.Symbol))
	}
}
