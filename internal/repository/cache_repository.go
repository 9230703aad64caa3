package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"course_enrich_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const (
	durationCacheKeyPrefix = "enrich:vdur:"
	quotaKeyPrefix         = "enrich:ytquota:"
	recalcPendingPrefix    = "enrich:recalc:pending:"
	recalcQueueKey         = "enrich:recalc:queue"
)

// CacheRepository 基于Redis的共享缓存与延迟任务队列。
// 时长缓存按视频引用去重，多个课时引用同一视频时只查一次外部API；
// 负结果（0）同样缓存，避免每次渲染都去敲一个失败或配额耗尽的端点
type CacheRepository struct {
	Redis       *redis.Client
	DurationTTL time.Duration
}

func NewCacheRepository(rdb *redis.Client, durationTTL time.Duration) *CacheRepository {
	return &CacheRepository{Redis: rdb, DurationTTL: durationTTL}
}

func durationKey(ref model.VideoReference) string {
	return durationCacheKeyPrefix + string(ref.Provider) + ":" + ref.ExternalID
}

// GetDuration 查缓存时长。第二个返回值表示是否命中（0也是合法命中）
func (r *CacheRepository) GetDuration(ctx context.Context, ref model.VideoReference) (int, bool) {
	val, err := r.Redis.Get(ctx, durationKey(ref)).Result()
	if err != nil {
		return 0, false
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return secs, true
}

// SetDuration 写缓存。后写覆盖先写：同一视频的计算结果是确定的，last-writer-wins 可接受
func (r *CacheRepository) SetDuration(ctx context.Context, ref model.VideoReference, seconds int) {
	r.Redis.Set(ctx, durationKey(ref), strconv.Itoa(seconds), r.DurationTTL)
}

// ConsumeQuota 按天累计YouTube配额消耗，返回累计后的值。
// 计数键保留48小时，跨天自动滚动
func (r *CacheRepository) ConsumeQuota(ctx context.Context, units int64) (int64, error) {
	key := quotaKeyPrefix + time.Now().Format("20060102")
	used, err := r.Redis.IncrBy(ctx, key, units).Result()
	if err != nil {
		return 0, err
	}
	r.Redis.Expire(ctx, key, 48*time.Hour)
	return used, nil
}

// EnqueueRecalc 投递课程重算任务。已有等待中的同课程任务时跳过（至少一次语义，非恰好一次）
func (r *CacheRepository) EnqueueRecalc(ctx context.Context, courseID uint) (bool, error) {
	pendingKey := fmt.Sprintf("%s%d", recalcPendingPrefix, courseID)
	ok, err := r.Redis.SetNX(ctx, pendingKey, "1", time.Hour).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := r.Redis.RPush(ctx, recalcQueueKey, strconv.FormatUint(uint64(courseID), 10)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// DequeueRecalc 取出一个重算任务并清除等待标记。
// 标记在取出时清除而非完成时清除，所以"刚完成的任务"与"新的调度请求"之间存在
// 一次多余重算的窗口——聚合本身幂等，多算一次无害
func (r *CacheRepository) DequeueRecalc(ctx context.Context) (uint, bool) {
	val, err := r.Redis.LPop(ctx, recalcQueueKey).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false
	}
	r.Redis.Del(ctx, fmt.Sprintf("%s%d", recalcPendingPrefix, uint(id)))
	return uint(id), true
}
