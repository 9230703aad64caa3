package service

import (
	"errors"
	"testing"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"
)

// fakeCurriculum 内存里的课程层级，小节与课时都已按顺序排列
type fakeCurriculum struct {
	sections map[uint]*model.Section
	byCourse map[uint][]model.Section
	lessons  map[uint][]model.Lesson
}

func newFakeCurriculum() *fakeCurriculum {
	return &fakeCurriculum{
		sections: map[uint]*model.Section{},
		byCourse: map[uint][]model.Section{},
		lessons:  map[uint][]model.Lesson{},
	}
}

func (f *fakeCurriculum) addSection(courseID, sectionID uint, lessonCount int) {
	section := model.Section{CourseID: courseID, Order: len(f.byCourse[courseID])}
	section.ID = sectionID
	f.sections[sectionID] = &section
	f.byCourse[courseID] = append(f.byCourse[courseID], section)

	for i := 0; i < lessonCount; i++ {
		lesson := model.Lesson{SectionID: sectionID, OrderInSection: i}
		lesson.ID = sectionID*100 + uint(i)
		f.lessons[sectionID] = append(f.lessons[sectionID], lesson)
	}
}

func (f *fakeCurriculum) SectionByID(id uint) (*model.Section, error) {
	section, ok := f.sections[id]
	if !ok {
		return nil, util.ErrSectionNotFound
	}
	return section, nil
}

func (f *fakeCurriculum) SectionsOfCourse(courseID uint) ([]model.Section, error) {
	return f.byCourse[courseID], nil
}

func (f *fakeCurriculum) LessonsOfSection(sectionID uint) ([]model.Lesson, error) {
	return f.lessons[sectionID], nil
}

func TestGlobalPosition(t *testing.T) {
	curriculum := newFakeCurriculum()
	// 课程1：小节10有2个课时，小节20有3个课时，小节30有1个课时
	curriculum.addSection(1, 10, 2)
	curriculum.addSection(1, 20, 3)
	curriculum.addSection(1, 30, 1)

	s := NewHierarchyService(curriculum)

	tests := []struct {
		name           string
		sectionID      uint
		orderInSection int
		want           int
	}{
		{"第一小节第一课", 10, 0, 1},
		{"第一小节第二课", 10, 1, 2},
		{"第二小节第一课", 20, 0, 3},
		{"第二小节第三课", 20, 2, 5},
		{"第三小节第一课", 30, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lesson := &model.Lesson{SectionID: tt.sectionID, OrderInSection: tt.orderInSection}
			if got := s.GlobalPosition(lesson); got != tt.want {
				t.Errorf("GlobalPosition = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGlobalPositionUnresolvable(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(1, 10, 2)

	s := NewHierarchyService(curriculum)

	tests := []struct {
		name   string
		lesson *model.Lesson
	}{
		{"没有所属小节", &model.Lesson{SectionID: 0}},
		{"小节不存在", &model.Lesson{SectionID: 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.GlobalPosition(tt.lesson); got != 0 {
				t.Errorf("GlobalPosition = %d, want 0 for broken hierarchy", got)
			}
		})
	}
}

type failingCurriculum struct {
	fakeCurriculum
}

func (f *failingCurriculum) SectionsOfCourse(courseID uint) ([]model.Section, error) {
	return nil, errors.New("db down")
}

func TestGlobalPositionQueryFailure(t *testing.T) {
	curriculum := &failingCurriculum{fakeCurriculum: *newFakeCurriculum()}
	curriculum.addSection(1, 10, 1)

	s := NewHierarchyService(curriculum)

	lesson := &model.Lesson{SectionID: 10, OrderInSection: 0}
	if got := s.GlobalPosition(lesson); got != 0 {
		t.Errorf("GlobalPosition = %d, want 0 on query failure", got)
	}
}
