package model

import "time"

// Course 课程：有序章节的顶层容器。
// 时长字段只允许 AggregateService 写入，是计算时刻的快照而非实时视图
// swagger:model Course
type Course struct {
	BaseModel
	Title                string     `gorm:"size:255;not null" json:"title"`
	Slug                 string     `gorm:"size:255;uniqueIndex" json:"slug"`
	TotalDurationSeconds *int       `gorm:"column:total_duration_seconds" json:"totalDurationSeconds"`
	TotalDurationMinutes *int       `gorm:"column:total_duration_minutes" json:"totalDurationMinutes"` // 向上取整到分钟
	LastCalculatedAt     *time.Time `gorm:"column:last_calculated_at" json:"lastCalculatedAt"`
	Sections             []Section  `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Section 章节：课程内的有序课时分组。Order 在同一课程内唯一
type Section struct {
	BaseModel
	CourseID uint     `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Order    int      `gorm:"column:sort_order;default:0" json:"order"`
	Lessons  []Lesson `gorm:"foreignKey:SectionID" json:"lessons,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}
