package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Результаты обращения к кэшу для метрик
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// LookupRecorder счетчик обращений к кэшу
type LookupRecorder interface {
	IncCacheLookup(result string)
}

// AvailabilityCache кэш доступных дат эксперта по месяцам.
// Ключи включают версию эксперта: Invalidate увеличивает версию, и все
// закэшированные месяцы эксперта перестают читаться разом.
type AvailabilityCache struct {
	cache   Cache
	ttl     time.Duration
	metrics LookupRecorder
}

// NewAvailabilityCache создает кэш. metrics может быть nil.
func NewAvailabilityCache(cache Cache, ttl time.Duration, metrics LookupRecorder) *AvailabilityCache {
	return &AvailabilityCache{cache: cache, ttl: ttl, metrics: metrics}
}

// GetDates возвращает даты (YYYY-MM-DD), если они есть в кэше
func (c *AvailabilityCache) GetDates(ctx context.Context, expertID int64, month string, duration int) ([]string, bool, error) {
	key, err := c.datesKey(ctx, expertID, month, duration)
	if err != nil {
		c.record(LookupError)
		return nil, false, err
	}

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.record(LookupError)
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if !ok {
		c.record(LookupMiss)
		return nil, false, nil
	}

	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		c.record(LookupError)
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	c.record(LookupHit)
	return dates, true, nil
}

// SetDates сохраняет даты месяца
func (c *AvailabilityCache) SetDates(ctx context.Context, expertID int64, month string, duration int, dates []string) error {
	key, err := c.datesKey(ctx, expertID, month, duration)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate сбрасывает все закэшированные месяцы эксперта
func (c *AvailabilityCache) Invalidate(ctx context.Context, expertID int64) error {
	if _, err := c.cache.Incr(ctx, versionKey(expertID)); err != nil {
		return fmt.Errorf("cache invalidate expert %d: %w", expertID, err)
	}
	return nil
}

func (c *AvailabilityCache) datesKey(ctx context.Context, expertID int64, month string, duration int) (string, error) {
	version := int64(0)
	raw, ok, err := c.cache.Get(ctx, versionKey(expertID))
	if err != nil {
		return "", fmt.Errorf("cache get version: %w", err)
	}
	if ok {
		version, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return "", fmt.Errorf("cache parse version %q: %w", raw, err)
		}
	}
	return fmt.Sprintf("availability:dates:%d:v%d:%s:%d", expertID, version, month, duration), nil
}

func (c *AvailabilityCache) record(result string) {
	if c.metrics != nil {
		c.metrics.IncCacheLookup(result)
	}
}

func versionKey(expertID int64) string {
	return fmt.Sprintf("availability:version:%d", expertID)
}
