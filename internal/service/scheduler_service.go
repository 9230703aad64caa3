package service

import (
	"context"
	"time"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/pkg/logger"
	"course_enrich_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// RecalcQueue 重算任务队列。入队带去重标记，至少一次投递语义
type RecalcQueue interface {
	EnqueueRecalc(ctx context.Context, courseID uint) (bool, error)
	DequeueRecalc(ctx context.Context) (uint, bool)
}

// CourseReader 课程读取端
type CourseReader interface {
	FindByID(id uint) (*model.Course, error)
}

// LessonStore 课时读写端
type LessonStore interface {
	FindByID(id uint) (*model.Lesson, error)
	UpdateEnrichment(id uint, updates map[string]interface{}) error
}

// SchedulerService 协调三条加工触发路径：
//   - 发布路径：同步做完整加工并立刻重算所属课程
//   - 读路径：只返回已缓存的汇总，缺失时排队延迟重算，绝不阻塞读请求
//   - 后台路径：轮询队列逐个消化延迟任务
type SchedulerService struct {
	Lessons    LessonStore
	Courses    CourseReader
	Curriculum CurriculumProvider
	Analyzer   *AnalyzerService
	Videos     *VideoService
	Durations  *DurationService
	Aggregator *AggregateService
	Queue      RecalcQueue
}

func NewSchedulerService(
	lessons LessonStore,
	courses CourseReader,
	curriculum CurriculumProvider,
	analyzer *AnalyzerService,
	videos *VideoService,
	durations *DurationService,
	aggregator *AggregateService,
	queue RecalcQueue,
) *SchedulerService {
	return &SchedulerService{
		Lessons:    lessons,
		Courses:    courses,
		Curriculum: curriculum,
		Analyzer:   analyzer,
		Videos:     videos,
		Durations:  durations,
		Aggregator: aggregator,
		Queue:      queue,
	}
}

// OnLessonPublished 课时发布时的同步加工：分类、完整时长解析、
// 结果落库，随后就地重算所属课程的总时长。
// 发布是唯一允许阻塞外部查询的前台路径
func (s *SchedulerService) OnLessonPublished(ctx context.Context, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, err
	}

	ref := s.Videos.ExtractReference(lesson.Content)
	hasVideo := ref != nil
	features := s.Analyzer.Analyze(lesson.Content)

	resourceType := s.Analyzer.ClassifyResourceType(features, hasVideo)
	interactivity := s.Analyzer.ClassifyInteractivity(features, hasVideo)
	seconds := s.Durations.ResolveFull(ctx, lesson)

	updates := map[string]interface{}{
		"resource_type": string(resourceType),
		"interactivity": string(interactivity),
	}
	if seconds > 0 {
		updates["duration_seconds"] = seconds
	}
	if err := s.Lessons.UpdateEnrichment(lesson.ID, updates); err != nil {
		return nil, err
	}

	lesson.ResourceType = string(resourceType)
	lesson.Interactivity = string(interactivity)
	if seconds > 0 {
		lesson.DurationSeconds = &seconds
	}

	if section, err := s.Curriculum.SectionByID(lesson.SectionID); err != nil {
		logger.Log.Warn("课时所属小节缺失，跳过发布后课程重算",
			zap.Uint("lessonID", lesson.ID),
			zap.Uint("sectionID", lesson.SectionID),
			zap.Error(err))
	} else if _, err := s.Aggregator.Recalculate(ctx, section.CourseID); err != nil {
		logger.Log.Warn("发布后课程重算失败",
			zap.Uint("courseID", section.CourseID),
			zap.Error(err))
	} else {
		monitoring.RecalcJobCounter.WithLabelValues("save").Inc()
	}

	logger.Log.Info("课时加工完成",
		zap.Uint("lessonID", lesson.ID),
		zap.String("resourceType", string(resourceType)),
		zap.Int("durationSeconds", seconds))

	return lesson, nil
}

// CourseDuration 读路径查询课程总时长。已有缓存直接返回；
// 缓存缺失时排队延迟重算并返回未计算的零值，不让读请求等网络
func (s *SchedulerService) CourseDuration(ctx context.Context, courseID uint) (*model.CourseDuration, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		return nil, err
	}

	if course.TotalDurationSeconds != nil {
		result := &model.CourseDuration{
			CourseID:        course.ID,
			DurationSeconds: *course.TotalDurationSeconds,
			Calculated:      true,
		}
		if course.TotalDurationMinutes != nil {
			result.DurationMinutes = *course.TotalDurationMinutes
		} else {
			result.DurationMinutes = (*course.TotalDurationSeconds + 59) / 60
		}
		if course.LastCalculatedAt != nil {
			result.LastCalculated = course.LastCalculatedAt.Format(time.RFC3339)
		}
		return result, nil
	}

	queued, err := s.Queue.EnqueueRecalc(ctx, courseID)
	if err != nil {
		logger.Log.Warn("重算任务入队失败",
			zap.Uint("courseID", courseID),
			zap.Error(err))
	} else if queued {
		logger.Log.Info("课程时长未缓存，已排队延迟重算", zap.Uint("courseID", courseID))
	}

	return &model.CourseDuration{CourseID: course.ID}, nil
}

// RecalculateNow 立即重算（管理端手动触发）。
// 空课程的聚合也会成功，所以先确认课程存在，不给不存在的ID返回零快照
func (s *SchedulerService) RecalculateNow(ctx context.Context, courseID uint) (*model.CourseDuration, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return nil, err
	}

	result, err := s.Aggregator.Recalculate(ctx, courseID)
	if err != nil {
		return nil, err
	}
	monitoring.RecalcJobCounter.WithLabelValues("admin").Inc()
	return result, nil
}

// RunPendingJobs 排空延迟重算队列，返回处理的任务数。
// 单个任务失败只记日志，不中断其余任务
func (s *SchedulerService) RunPendingJobs(ctx context.Context) int {
	processed := 0
	for {
		courseID, ok := s.Queue.DequeueRecalc(ctx)
		if !ok {
			return processed
		}
		if _, err := s.Aggregator.Recalculate(ctx, courseID); err != nil {
			logger.Log.Error("延迟重算任务失败",
				zap.Uint("courseID", courseID),
				zap.Error(err))
			continue
		}
		monitoring.RecalcJobCounter.WithLabelValues("deferred").Inc()
		processed++
	}
}
