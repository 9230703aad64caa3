package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/pkg/logger"
	"course_enrich_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// DurationCache 视频时长共享缓存。负结果（0）同样写入，避免反复请求失败端点
type DurationCache interface {
	GetDuration(ctx context.Context, ref model.VideoReference) (int, bool)
	SetDuration(ctx context.Context, ref model.VideoReference, seconds int)
}

// DurationSource 提供方时长查询策略。按注册顺序（优先级）逐个询问，
// 显式注入而非模块级单例，便于测试替换
type DurationSource interface {
	Name() string
	CanHandle(ref model.VideoReference) bool
	Lookup(ctx context.Context, ref model.VideoReference) (int, error)
}

// 元字段里可能出现的时长键名，按优先级排列
var acceptedDurationKeys = []string{"duration", "video_duration", "length", "lesson_duration"}

// DurationService 单课时时长解析链：
// 已缓存值 → 手工覆盖 → 元字段（格式自适应解析）→ 内嵌视频提供方查询。
// 每一步拿到正数即短路。任何失败都降级为0，不向上抛错
type DurationService struct {
	Extractor *VideoService
	Cache     DurationCache
	Sources   []DurationSource
}

func NewDurationService(extractor *VideoService, cache DurationCache, sources []DurationSource) *DurationService {
	return &DurationService{
		Extractor: extractor,
		Cache:     cache,
		Sources:   sources,
	}
}

// ResolveFast 渲染路径解析：绝不发起网络调用。
// 缓存未命中时只走本地链路，查不到就是0
func (s *DurationService) ResolveFast(ctx context.Context, lesson *model.Lesson) int {
	return s.resolve(ctx, lesson, false)
}

// ResolveFull 保存路径/后台任务解析：允许阻塞的外部查询
func (s *DurationService) ResolveFull(ctx context.Context, lesson *model.Lesson) int {
	return s.resolve(ctx, lesson, true)
}

func (s *DurationService) resolve(ctx context.Context, lesson *model.Lesson, allowNetwork bool) int {
	// 1. 已解析缓存（快路径，不重算）
	if lesson.DurationSeconds != nil && *lesson.DurationSeconds > 0 {
		return *lesson.DurationSeconds
	}

	// 2. 手工录入的覆盖值
	if lesson.DurationOverride != nil && *lesson.DurationOverride > 0 {
		return *lesson.DurationOverride
	}

	// 3. 外部写入的元字段
	if secs := s.resolveFromMeta(lesson.Meta); secs > 0 {
		return secs
	}

	// 4. 内嵌视频提供方查询
	ref := s.Extractor.ExtractReference(lesson.Content)
	if ref == nil {
		return 0
	}

	if secs, ok := s.Cache.GetDuration(ctx, *ref); ok {
		monitoring.DurationCacheCounter.WithLabelValues("hit").Inc()
		return secs
	}
	monitoring.DurationCacheCounter.WithLabelValues("miss").Inc()

	if !allowNetwork {
		return 0
	}

	return s.lookupProvider(ctx, lesson.ID, *ref)
}

// lookupProvider 逐个询问已注册来源。失败、超时、无key都按"没有数据"处理，
// 并把负结果写入缓存
func (s *DurationService) lookupProvider(ctx context.Context, lessonID uint, ref model.VideoReference) int {
	for _, src := range s.Sources {
		if !src.CanHandle(ref) {
			continue
		}
		secs, err := src.Lookup(ctx, ref)
		if err != nil {
			logger.Log.Warn("视频时长查询失败",
				zap.Uint("lessonID", lessonID),
				zap.String("source", src.Name()),
				zap.String("externalID", ref.ExternalID),
				zap.Error(err))
			monitoring.ProviderLookupCounter.WithLabelValues(src.Name(), "error").Inc()
			secs = 0
		} else {
			monitoring.ProviderLookupCounter.WithLabelValues(src.Name(), "ok").Inc()
		}
		s.Cache.SetDuration(ctx, ref, secs)
		return secs
	}
	return 0
}

func (s *DurationService) resolveFromMeta(meta string) int {
	if strings.TrimSpace(meta) == "" {
		return 0
	}
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(meta), &fields); err != nil {
		return 0
	}
	for _, key := range acceptedDurationKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if secs, ok := ParseFlexibleDuration(v); ok && secs > 0 {
				return secs
			}
		case float64:
			if secs, ok := interpretBareNumber(v); ok && secs > 0 {
				return secs
			}
		}
	}
	return 0
}

var (
	hmsPattern = regexp.MustCompile(`^(\d{1,3}):(\d{1,2}):(\d{1,2})$`)
	msPattern  = regexp.MustCompile(`^(\d{1,4}):(\d{1,2})$`)
	isoPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ParseFlexibleDuration 格式自适应时长解析，返回秒数。
// 支持纯数字、HH:MM:SS、MM:SS 和 ISO-8601 风格的 PTxHxMxS。
// 纯数字语义模糊：<1000 按分钟、≥1000 按秒解释——沿用既有数据的历史约定，
// 重新设计时应改为带显式单位的输入
func ParseFlexibleDuration(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return interpretBareNumber(n)
	}

	if m := hmsPattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		return h*3600 + min*60 + s, true
	}

	if m := msPattern.FindStringSubmatch(value); m != nil {
		min, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		return min*60 + s, true
	}

	upper := strings.ToUpper(value)
	if m := isoPattern.FindStringSubmatch(upper); m != nil && (m[1] != "" || m[2] != "" || m[3] != "") {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		s, _ := strconv.Atoi(m[3])
		return h*3600 + min*60 + s, true
	}

	return 0, false
}

func interpretBareNumber(n float64) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	if n < 1000 {
		return int(n * 60), true
	}
	return int(n), true
}
