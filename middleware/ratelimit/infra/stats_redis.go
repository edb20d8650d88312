package infra

import (
	"context"
	"strings"
	"time"

	"abuse-guard/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore conta as decisões do guard em hashes no Redis. O campo é
// sempre o outcome ("allowed", "invalid", "banned", "tool_minute", ...):
//
//	<prefix>:total                  cumulativo
//	<prefix>:capability:<tool>      cumulativo
//	<prefix>:minute:<YYYYMMDDhhmm>  expira em ttl
//	<prefix>:route                  campo "<METHOD> <path>:<outcome>"
//	<prefix>:client:<ip>            opcional, expira em ttl
//
// As cotas continuam em memória; aqui é só telemetria.
type RedisStatsStore struct {
	rdb          redis.Cmdable
	prefix       string
	ttl          time.Duration
	perMinute    bool
	trackClients bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

// WithStatsBucket aceita "minute" (padrão) ou "none".
func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.perMinute = strings.EqualFold(strings.TrimSpace(bucket), "minute")
	}
}

func WithStatsTrackClients(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackClients = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:       rdb,
		prefix:    "guard:stats",
		ttl:       24 * time.Hour,
		perMinute: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	outcome := ev.Outcome()
	pipe := s.rdb.Pipeline()

	count := func(key string, expires bool) {
		pipe.HIncrBy(ctx, key, outcome, 1)
		if expires && s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
	}

	count(s.key("total"), false)
	count(s.key("capability", ev.Capability.String()), false)
	if s.perMinute {
		count(s.key("minute", minuteStamp(ev.At)), true)
	}
	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.key("route"), route+":"+outcome, 1)
	}
	if c := strings.TrimSpace(ev.Client); s.trackClients && c != "" {
		count(s.key("client", c), true)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStatsStore) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

func minuteStamp(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Format("200601021504")
}
