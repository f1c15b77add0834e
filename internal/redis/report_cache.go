package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rescueRoute/internal/domain"
)

const (
	reportCacheKey = "reports:all"
	reportGenKey   = "reports:gen"
)

// ReportCache holds the unranked report list. Ranking depends on the viewer,
// so only store order is cached.
//
// Every Invalidate bumps a generation counter. A list read from the store is
// only written back if the generation it was read under is still current, so
// a slow reader cannot resurrect a list that predates a newer write.
type ReportCache struct {
	client *redis.Client
	key    string
	genKey string
}

func NewReportCache(r *Redis) *ReportCache {
	return &ReportCache{client: r.Client, key: reportCacheKey, genKey: reportGenKey}
}

// Get reports found=false on a miss so an empty list can still be cached.
func (c *ReportCache) Get(ctx context.Context) ([]domain.Report, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var reports []domain.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, false, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}

	return reports, true, nil
}

// Generation must be read before loading the list that is later passed to Set.
func (c *ReportCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Set stores reports unless an Invalidate happened since gen was read.
// stored=false with a nil error means the write was skipped as stale.
func (c *ReportCache) Set(ctx context.Context, reports []domain.Report, ttl time.Duration, gen int64) (bool, error) {
	if reports == nil {
		reports = []domain.Report{}
	}
	b, err := json.Marshal(reports)
	if err != nil {
		return false, err
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, c.genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, b, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, c.genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored, nil
}

func (c *ReportCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	return err
}
