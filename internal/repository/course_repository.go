package repository

import (
	"errors"
	"time"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) CreateSection(section *model.Section) error {
	return r.DB.Create(section).Error
}

func (r *CourseRepository) FindSectionByID(id uint) (*model.Section, error) {
	var section model.Section
	err := r.DB.First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// UpdateDuration 写入课程时长快照。整个代码库里只有聚合服务调用这里
func (r *CourseRepository) UpdateDuration(courseID uint, seconds, minutes int, at time.Time) error {
	return r.DB.Model(&model.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"total_duration_seconds": seconds,
		"total_duration_minutes": minutes,
		"last_calculated_at":     at,
	}).Error
}
