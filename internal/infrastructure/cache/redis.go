package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/config"
	"credit-engine/internal/domain/loan"

	"github.com/redis/go-redis/v9"
)

// LoanCache is a redis-backed implementation of loan.Cache. Loans are
// immutable after creation, so entries are written without expiry unless a
// TTL is configured.
type LoanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ loan.Cache = (*LoanCache)(nil)

func NewLoanCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*LoanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("Connected to redis", "addr", cfg.Addr)
	return &LoanCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "LoanCache"),
	}, nil
}

func loanKey(loanID int64) string {
	return fmt.Sprintf("loan:%d", loanID)
}

func (c *LoanCache) GetLoan(ctx context.Context, loanID int64) (*loan.Loan, bool) {
	val, err := c.client.Get(ctx, loanKey(loanID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Redis get failed", "loan_id", loanID, "error", err)
		}
		return nil, false
	}

	var l loan.Loan
	if err := json.Unmarshal([]byte(val), &l); err != nil {
		c.logger.WarnContext(ctx, "Failed to unmarshal cached loan, ignoring entry", "loan_id", loanID, "error", err)
		return nil, false
	}
	return &l, true
}

func (c *LoanCache) SetLoan(ctx context.Context, l *loan.Loan) {
	if l == nil {
		return
	}
	body, err := json.Marshal(l)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to marshal loan for cache", "loan_id", l.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, loanKey(l.ID), body, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Redis set failed", "loan_id", l.ID, "error", err)
	}
}

func (c *LoanCache) Close() error {
	return c.client.Close()
}
