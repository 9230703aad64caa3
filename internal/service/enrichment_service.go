package service

import (
	"context"

	"course_enrich_backend/internal/model"
)

// EnrichmentService 读路径的元数据装配：
// 优先使用发布时落库的分类结果，没有就就地重算（纯本地，无副作用）。
// 时长走快速链路，保证读请求不触发网络
type EnrichmentService struct {
	Lessons   LessonStore
	Analyzer  *AnalyzerService
	Videos    *VideoService
	Durations *DurationService
	Hierarchy *HierarchyService
	Chapters  *ChapterService
}

func NewEnrichmentService(
	lessons LessonStore,
	analyzer *AnalyzerService,
	videos *VideoService,
	durations *DurationService,
	hierarchy *HierarchyService,
	chapters *ChapterService,
) *EnrichmentService {
	return &EnrichmentService{
		Lessons:   lessons,
		Analyzer:  analyzer,
		Videos:    videos,
		Durations: durations,
		Hierarchy: hierarchy,
		Chapters:  chapters,
	}
}

// LessonMeta 装配单课时的完整加工视图
func (s *EnrichmentService) LessonMeta(ctx context.Context, lessonID uint) (*model.LessonMeta, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, err
	}

	resourceType := model.ResourceType(lesson.ResourceType)
	interactivity := model.Interactivity(lesson.Interactivity)
	if resourceType == "" || interactivity == "" {
		hasVideo := s.Videos.ExtractReference(lesson.Content) != nil
		features := s.Analyzer.Analyze(lesson.Content)
		if resourceType == "" {
			resourceType = s.Analyzer.ClassifyResourceType(features, hasVideo)
		}
		if interactivity == "" {
			interactivity = s.Analyzer.ClassifyInteractivity(features, hasVideo)
		}
	}

	clips := s.Chapters.Extract(lesson)
	if clips == nil {
		clips = []model.Clip{}
	}

	return &model.LessonMeta{
		LessonID:        lesson.ID,
		ResourceType:    resourceType,
		Interactivity:   interactivity,
		DurationSeconds: s.Durations.ResolveFast(ctx, lesson),
		GlobalPosition:  s.Hierarchy.GlobalPosition(lesson),
		Clips:           clips,
	}, nil
}

// LessonChapters 只取章节列表
func (s *EnrichmentService) LessonChapters(lessonID uint) ([]model.Clip, error) {
	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		return nil, err
	}
	clips := s.Chapters.Extract(lesson)
	if clips == nil {
		clips = []model.Clip{}
	}
	return clips, nil
}
