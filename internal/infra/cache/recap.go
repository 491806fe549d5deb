package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// RecapCache кэш рассчитанных отчетов и канал уведомлений об изменениях тура
//
// recap:{tour}:{start}:{end}  - JSON отчета с TTL
// recap:watch:{tour}          - множество запрошенных периодов тура
// recap:watched               - множество туров, по которым есть периоды
type RecapCache struct {
	rdb     goredis.UniversalClient
	ttl     time.Duration
	channel string
}

// NewRecapCache создает кэш поверх клиента Redis
func NewRecapCache(rdb goredis.UniversalClient, ttl time.Duration, channel string) *RecapCache {
	return &RecapCache{rdb: rdb, ttl: ttl, channel: channel}
}

// Get отчет из кэша; ErrCacheMiss, если его нет
func (c *RecapCache) Get(ctx context.Context, tourID string, startDate, endDate time.Time) (*recap.Result, error) {
	data, err := c.rdb.Get(ctx, recapKey(tourID, startDate, endDate)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get: %v", ErrRedis, err)
	}

	var result recap.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &result, nil
}

// Set сохраняет отчет и запоминает его период для фонового обновления
// Более поздняя запись перезаписывает предыдущую
func (c *RecapCache) Set(ctx context.Context, result *recap.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, recapKey(result.TourID, result.StartDate, result.EndDate), data, c.ttl)
		pipe.SAdd(ctx, watchKey(result.TourID), encodeRange(result.StartDate, result.EndDate))
		pipe.SAdd(ctx, watchedTours, result.TourID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: Set: %v", ErrRedis, err)
	}

	return nil
}

// Invalidate удаляет все закэшированные периоды тура (список наблюдаемых периодов сохраняется)
func (c *RecapCache) Invalidate(ctx context.Context, tourID string) error {
	ranges, err := c.WatchedRanges(ctx, tourID)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ranges))
	for _, r := range ranges {
		keys = append(keys, recapKey(tourID, r.StartDate, r.EndDate))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate: %v", ErrRedis, err)
	}

	return nil
}

// WatchedTours туры, отчеты по которым запрашивались
func (c *RecapCache) WatchedTours(ctx context.Context) ([]string, error) {
	tours, err := c.rdb.SMembers(ctx, watchedTours).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: WatchedTours: %v", ErrRedis, err)
	}
	sort.Strings(tours)
	return tours, nil
}

// WatchedRanges запрошенные периоды тура. Битые записи пропускаются
func (c *RecapCache) WatchedRanges(ctx context.Context, tourID string) ([]Range, error) {
	members, err := c.rdb.SMembers(ctx, watchKey(tourID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: WatchedRanges: %v", ErrRedis, err)
	}

	ranges := make([]Range, 0, len(members))
	for _, m := range members {
		r, err := decodeRange(m)
		if err != nil {
			continue
		}
		ranges = append(ranges, r)
	}

	sort.Slice(ranges, func(i, j int) bool {
		if !ranges[i].StartDate.Equal(ranges[j].StartDate) {
			return ranges[i].StartDate.Before(ranges[j].StartDate)
		}
		return ranges[i].EndDate.Before(ranges[j].EndDate)
	})

	return ranges, nil
}

// Unwatch перестает следить за периодом тура
func (c *RecapCache) Unwatch(ctx context.Context, tourID string, r Range) error {
	if err := c.rdb.SRem(ctx, watchKey(tourID), encodeRange(r.StartDate, r.EndDate)).Err(); err != nil {
		return fmt.Errorf("%w: Unwatch: %v", ErrRedis, err)
	}
	return nil
}

// PublishChange уведомляет подписчиков об изменении данных тура
func (c *RecapCache) PublishChange(ctx context.Context, tourID string) error {
	if err := c.rdb.Publish(ctx, c.channel, tourID).Err(); err != nil {
		return fmt.Errorf("%w: PublishChange: %v", ErrRedis, err)
	}
	return nil
}

// SubscribeChanges подписка на уведомления об изменениях. Канал закрывается после отмены ctx
func (c *RecapCache) SubscribeChanges(ctx context.Context) (<-chan string, error) {
	sub := c.rdb.Subscribe(ctx, c.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: SubscribeChanges: %v", ErrRedis, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
