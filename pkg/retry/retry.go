// Package retry は、レート制限に分類された失敗だけを指数バックオフで再試行する
// 薄いラッパーです。これ以外の自動復旧は行わず、失敗はそのまま呼び出し元へ返します。
package retry

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// DefaultRetries は既定の再試行回数です。
	DefaultRetries = 3
	// DefaultInitialDelay は既定の初回待機時間です。
	DefaultInitialDelay = 2000 * time.Millisecond
)

// Policy は再試行の上限と初回待機時間を定義します。
// 待機時間は失敗のたびに2倍になり、上限もジッターもありません。
type Policy struct {
	Retries      int
	InitialDelay time.Duration

	// sleep はテストから差し替えるための待機フックです。nil なら実時間で待ちます。
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy は 3回 / 2000ms の既定ポリシーを返します。
func DefaultPolicy() Policy {
	return Policy{Retries: DefaultRetries, InitialDelay: DefaultInitialDelay}
}

// Do は op を実行し、レート制限と分類された失敗に限り delay, 2*delay, 4*delay … と
// 待機しながら再試行します。それ以外の失敗は1回で打ち切り、そのまま返します。
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := p.InitialDelay
	retries := p.Retries

	for {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRateLimit(err) || retries <= 0 {
			return zero, err
		}

		slog.Warn("レート制限に達したため再試行します",
			"wait", delay.String(),
			"retries_left", retries,
		)
		if serr := sleep(ctx, delay); serr != nil {
			return zero, serr
		}
		retries--
		delay *= 2
	}
}

// IsRateLimit は失敗がレート制限・クォータ超過由来かどうかを判定します。
// 判定材料は HTTP 429 相当のコードと、"429" / "quota" / "RESOURCE_EXHAUSTED" の
// メッセージ断片のみです。
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// sleepContext は context のキャンセルに応答する待機です。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
