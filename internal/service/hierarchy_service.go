package service

import (
	"course_enrich_backend/internal/model"
	"course_enrich_backend/pkg/logger"

	"go.uber.org/zap"
)

// CurriculumProvider 层级结构只读访问，列表已按排序字段排好
type CurriculumProvider interface {
	SectionByID(id uint) (*model.Section, error)
	SectionsOfCourse(courseID uint) ([]model.Section, error)
	LessonsOfSection(sectionID uint) ([]model.Lesson, error)
}

// HierarchyService 计算课时在整个课程中的全局位置。
// 位置 = 前面所有小节的课时总数 + 课时在本小节内的序号 + 1（从1开始）。
// 层级不完整（孤儿课时、小节不在课程里）时返回0表示不可解析
type HierarchyService struct {
	Curriculum CurriculumProvider
}

func NewHierarchyService(curriculum CurriculumProvider) *HierarchyService {
	return &HierarchyService{Curriculum: curriculum}
}

// GlobalPosition 返回课时的全局位置，0 表示无法确定
func (s *HierarchyService) GlobalPosition(lesson *model.Lesson) int {
	if lesson.SectionID == 0 {
		return 0
	}

	section, err := s.Curriculum.SectionByID(lesson.SectionID)
	if err != nil {
		return 0
	}

	sections, err := s.Curriculum.SectionsOfCourse(section.CourseID)
	if err != nil {
		logger.Log.Warn("课程小节列表查询失败",
			zap.Uint("courseID", section.CourseID),
			zap.Error(err))
		return 0
	}

	precedingLessons := 0
	for _, sec := range sections {
		if sec.ID == section.ID {
			return precedingLessons + lesson.OrderInSection + 1
		}
		lessons, err := s.Curriculum.LessonsOfSection(sec.ID)
		if err != nil {
			return 0
		}
		precedingLessons += len(lessons)
	}

	// 小节不属于其声明的课程，层级已损坏
	return 0
}
