package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRedisPrefix namespaces the keys written by RedisRecorder.
const DefaultRedisPrefix = "gas"

// RedisRecorder mirrors recent samples into a Redis sorted set scored by
// timestamp, trimmed to the history limit, plus a plain key holding the
// latest snapshot.
type RedisRecorder struct {
	client  *redis.Client
	prefix  string
	limit   int64
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewRedisRecorder wraps an existing client. A non-positive limit disables trimming.
func NewRedisRecorder(client *redis.Client, prefix string, limit int, logger logrus.FieldLogger) *RedisRecorder {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRecorder{
		client:  client,
		prefix:  prefix,
		limit:   int64(limit),
		timeout: 5 * time.Second,
		log:     logger,
	}
}

// DialRedis connects to addr and verifies the server answers.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// SamplesKey is the sorted set holding the recent window.
func (r *RedisRecorder) SamplesKey() string { return r.prefix + ":samples" }

// LatestKey holds the most recent snapshot as JSON.
func (r *RedisRecorder) LatestKey() string { return r.prefix + ":latest" }

type redisSnapshot struct {
	Slow       int64  `json:"slow"`
	Standard   int64  `json:"standard"`
	Fast       int64  `json:"fast"`
	Timestamp  int64  `json:"timestamp"`
	Trend      string `json:"trend"`
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
}

func (r *RedisRecorder) RecordSample(snap *SampleSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	member, err := json.Marshal(redisSnapshot{
		Slow:       snap.Sample.Slow,
		Standard:   snap.Sample.Standard,
		Fast:       snap.Sample.Fast,
		Timestamp:  snap.Sample.Timestamp,
		Trend:      string(snap.Trend),
		Label:      string(snap.Recommendation.Label),
		Confidence: snap.Recommendation.Confidence,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.ZAdd(ctx, r.SamplesKey(), redis.Z{Score: float64(snap.Sample.Timestamp), Member: string(member)})
	if r.limit > 0 {
		// Keep only the newest limit members.
		pipe.ZRemRangeByRank(ctx, r.SamplesKey(), 0, -r.limit-1)
	}
	pipe.Set(ctx, r.LatestKey(), string(member), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		r.log.WithError(err).Error("failed to write sample to redis")
		return fmt.Errorf("redis pipeline: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Close() error {
	r.log.Info("closing redis recorder")
	return r.client.Close()
}
