package model

// Lesson 课时：最小内容单元，属于且仅属于一个章节。
// DurationSeconds / ResourceType / Interactivity 为派生缓存，发布时重算
// swagger:model Lesson
type Lesson struct {
	BaseModel
	SectionID        uint   `gorm:"index;type:bigint unsigned;not null" json:"sectionId"`
	Title            string `gorm:"size:255;not null" json:"title"`
	PermalinkURL     string `gorm:"size:255" json:"permalinkUrl"`
	Content          string `gorm:"type:longtext" json:"content"`
	OrderInSection   int    `gorm:"column:sort_order;default:0" json:"orderInSection"`
	DurationOverride *int   `gorm:"column:duration_override" json:"durationOverride"` // 手工录入的时长（秒）
	DurationSeconds  *int   `gorm:"column:duration_seconds" json:"durationSeconds"`
	ResourceType     string `gorm:"size:32" json:"resourceType"`
	Interactivity    string `gorm:"size:32" json:"interactivity"`
	Meta             string `gorm:"type:text" json:"meta"`        // 松散命名字段的JSON对象（duration / video_duration 等）
	ChaptersRaw      string `gorm:"type:text" json:"chaptersRaw"` // 结构化章节元字段（JSON数组或分隔字符串）
}

func (Lesson) TableName() string {
	return "lessons"
}
