package service

import (
	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/repository"
)

// ContentService 管理端写路径：课程/小节/课时的录入与修改。
// 写入只动原始字段，派生缓存由发布和重算路径维护
type ContentService struct {
	Courses *repository.CourseRepository
	Lessons *repository.LessonRepository
}

func NewContentService(courses *repository.CourseRepository, lessons *repository.LessonRepository) *ContentService {
	return &ContentService{
		Courses: courses,
		Lessons: lessons,
	}
}

func (s *ContentService) CreateCourse(course *model.Course) error {
	return s.Courses.Create(course)
}

func (s *ContentService) CreateSection(section *model.Section) error {
	if _, err := s.Courses.FindByID(section.CourseID); err != nil {
		return err
	}
	return s.Courses.CreateSection(section)
}

func (s *ContentService) CreateLesson(lesson *model.Lesson) error {
	if _, err := s.Courses.FindSectionByID(lesson.SectionID); err != nil {
		return err
	}
	return s.Lessons.Create(lesson)
}

func (s *ContentService) GetLesson(id uint) (*model.Lesson, error) {
	return s.Lessons.FindByID(id)
}

func (s *ContentService) SaveLesson(lesson *model.Lesson) error {
	return s.Lessons.Save(lesson)
}
