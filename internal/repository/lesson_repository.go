package repository

import (
	"errors"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// UpdateEnrichment 更新课时的派生缓存字段
func (r *LessonRepository) UpdateEnrichment(id uint, updates map[string]interface{}) error {
	return r.DB.Model(&model.Lesson{}).Where("id = ?", id).Updates(updates).Error
}
