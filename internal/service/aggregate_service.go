package service

import (
	"context"
	"time"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/pkg/logger"

	"go.uber.org/zap"
)

// CourseDurationStore 课程时长汇总的持久化写入端
type CourseDurationStore interface {
	UpdateDuration(courseID uint, seconds, minutes int, at time.Time) error
}

// AggregateService 课程总时长聚合：按层级顺序遍历全部课时，
// 逐个做完整解析（允许外部查询）后求和。
// 解析失败的课时按0计入，聚合永远能算完
type AggregateService struct {
	Curriculum CurriculumProvider
	Durations  *DurationService
	Courses    CourseDurationStore
}

func NewAggregateService(curriculum CurriculumProvider, durations *DurationService, courses CourseDurationStore) *AggregateService {
	return &AggregateService{
		Curriculum: curriculum,
		Durations:  durations,
		Courses:    courses,
	}
}

// Recalculate 重算并持久化课程总时长。分钟数向上取整，
// 保证任何非零秒数至少显示1分钟
func (s *AggregateService) Recalculate(ctx context.Context, courseID uint) (*model.CourseDuration, error) {
	sections, err := s.Curriculum.SectionsOfCourse(courseID)
	if err != nil {
		return nil, err
	}

	totalSeconds := 0
	lessonCount := 0
	for _, section := range sections {
		lessons, err := s.Curriculum.LessonsOfSection(section.ID)
		if err != nil {
			return nil, err
		}
		for i := range lessons {
			totalSeconds += s.Durations.ResolveFull(ctx, &lessons[i])
			lessonCount++
		}
	}

	totalMinutes := (totalSeconds + 59) / 60
	now := time.Now()

	if err := s.Courses.UpdateDuration(courseID, totalSeconds, totalMinutes, now); err != nil {
		return nil, err
	}

	logger.Log.Info("课程总时长重算完成",
		zap.Uint("courseID", courseID),
		zap.Int("lessons", lessonCount),
		zap.Int("totalSeconds", totalSeconds))

	return &model.CourseDuration{
		CourseID:        courseID,
		DurationSeconds: totalSeconds,
		DurationMinutes: totalMinutes,
		Calculated:      true,
		LastCalculated:  now.Format(time.RFC3339),
	}, nil
}
