package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/procura/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyQuoteSubmitSupplier = "quote:submit:supplier:%s"

// QuoteSubmitLimiter throttles quote submissions per supplier. A nil
// limiter allows everything, so callers never need to branch on whether
// rate limiting is configured.
type QuoteSubmitLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewQuoteSubmitLimiter(cfg config.Config, client *redis.Client) *QuoteSubmitLimiter {
	if client == nil || !cfg.RateLimitEnabled {
		return nil
	}
	if cfg.QuoteSubmitRate <= 0 || cfg.QuoteSubmitBurst <= 0 {
		return nil
	}
	return &QuoteSubmitLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.QuoteSubmitRate,
		burst:  cfg.QuoteSubmitBurst,
	}
}

func (l *QuoteSubmitLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *QuoteSubmitLimiter) AllowSupplier(ctx context.Context, supplierID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyQuoteSubmitSupplier, strings.TrimSpace(supplierID)), l.rate, l.burst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}
