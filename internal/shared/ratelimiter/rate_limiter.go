// Package ratelimiter はAPI呼び出しの頻度制限を提供します。
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiter は、interval あたり limit 回まで操作を許可します。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit)}
}

// WaitIfNeeded は上限に達している場合、トークンが補充されるまで待機します。
// ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if r := rl.limiter.Reserve(); r.OK() {
		delay := r.Delay()
		if delay == 0 {
			return nil
		}
		slog.Debug("rate limit reached, waiting", "delay", delay)
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			r.Cancel()
			return ctx.Err()
		}
	}
	return fmt.Errorf("rate limiter: burst exceeded")
}
