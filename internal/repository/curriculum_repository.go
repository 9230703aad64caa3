package repository

import (
	"errors"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"

	"gorm.io/gorm"
)

// CurriculumRepository 层级结构的只读视图，供位置计算与课程聚合使用。
// 所有列表查询都按 sort_order 稳定排序
type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) SectionByID(id uint) (*model.Section, error) {
	var section model.Section
	if err := r.DB.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

func (r *CurriculumRepository) SectionsOfCourse(courseID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("course_id = ?", courseID).
		Order("sort_order asc").
		Find(&sections).Error
	return sections, err
}

func (r *CurriculumRepository) LessonsOfSection(sectionID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("section_id = ?", sectionID).
		Order("sort_order asc").
		Find(&lessons).Error
	return lessons, err
}
