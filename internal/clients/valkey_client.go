package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	VALKEY_SCORE_PREFIX = "reviewflow:chunk_score:"
	VALKEY_RETRY_DELAY  = 250 * time.Millisecond
)

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

// ValkeyClient stores chunk scores so repeated runs skip inference.
type ValkeyClient struct {
	Client valkey.Client
	opts   ValkeyOptions
	mu     sync.Mutex
}

func NewValkeyClient(ctx context.Context, opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(ctx, opts)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))
	return &ValkeyClient{Client: client, opts: opts}, nil
}

func connectValkey(ctx context.Context, opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress: []string{
			opts.Address,
		},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) recreateClient(ctx context.Context) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	client, err := connectValkey(ctx, vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// GetScores returns the cached scores for keys; missing keys are absent from
// the map.
func (vc *ValkeyClient) GetScores(ctx context.Context, keys []string) (map[string]float64, error) {
	found := make(map[string]float64, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = VALKEY_SCORE_PREFIX + k
	}

	c := vc.client()
	res := vc.DoWithRetry(ctx, c.B().Mget().Key(prefixed...).Build(), 3)
	values, err := res.ToArray()
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] mget failed: %w", err)
	}

	for i, v := range values {
		score, err := v.AsFloat64()
		if err != nil {
			if valkey.IsValkeyNil(err) {
				continue
			}
			return nil, fmt.Errorf("[ValkeyClient] bad cached score for %s: %w", keys[i], err)
		}
		found[keys[i]] = score
	}
	return found, nil
}

func (vc *ValkeyClient) SetScores(ctx context.Context, scores map[string]float64) error {
	if len(scores) == 0 {
		return nil
	}

	c := vc.client()
	ttl := ttlSeconds(vc.opts.TTL)
	completed := make([]valkey.Completed, 0, len(scores))
	for k, score := range scores {
		set := c.B().Set().Key(VALKEY_SCORE_PREFIX + k).Value(strconv.FormatFloat(score, 'g', -1, 64))
		if ttl > 0 {
			completed = append(completed, set.ExSeconds(ttl).Build())
		} else {
			completed = append(completed, set.Build())
		}
	}

	for _, res := range vc.DoMultiWithRetry(ctx, completed, 3) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

// ttlSeconds rounds a positive TTL up to whole seconds. Zero or negative
// means the score never expires.
func ttlSeconds(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return int64((ttl + time.Second - 1) / time.Second)
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult
	// pinned commands survive being sent more than once
	for i := range completed {
		completed[i] = completed[i].Pin()
	}

	for i := 0; i < retries; i++ {
		results = vc.client().DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient(ctx)
				}
				break
			}
		}
		if !hasErr || !waitRetry(ctx, i, retries) {
			break
		}
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	completed = completed.Pin()
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))
		if isConnectionError(result.Error()) {
			vc.recreateClient(ctx)
		}
		if !waitRetry(ctx, i, retries) {
			break
		}
	}

	return result
}

// waitRetry sleeps before the next attempt and reports whether one should be
// made.
func waitRetry(ctx context.Context, attempt, retries int) bool {
	if attempt+1 >= retries {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(VALKEY_RETRY_DELAY):
		return true
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
