package model

// ResourceType / Interactivity 分类标签。规则按固定优先级求值，见 AnalyzerService
type ResourceType string

const (
	ResourceQuiz     ResourceType = "quiz"
	ResourceVideo    ResourceType = "video"
	ResourceExercise ResourceType = "exercise"
	ResourceTutorial ResourceType = "tutorial"
	ResourceLecture  ResourceType = "lecture"
	ResourceReading  ResourceType = "reading"
	ResourceLesson   ResourceType = "lesson"
)

type Interactivity string

const (
	InteractivityActive     Interactivity = "active"
	InteractivityExpositive Interactivity = "expositive"
	InteractivityMixed      Interactivity = "mixed"
)

// ContentFeatures 内容特征向量。每次分类请求从最新内容现算，不落库
type ContentFeatures struct {
	HasQuiz              bool `json:"hasQuiz"`
	HasTutorialStructure bool `json:"hasTutorialStructure"`
	HasInteractive       bool `json:"hasInteractive"`
	WordCount            int  `json:"wordCount"`
	HeadingCount         int  `json:"headingCount"`
	CodeBlockCount       int  `json:"codeBlockCount"`
}

type VideoProvider string

const (
	ProviderYouTube VideoProvider = "youtube"
	ProviderVimeo   VideoProvider = "vimeo"
	// ProviderFile 自托管媒体直链，优先级最低，仅在两家提供方都未命中时使用
	ProviderFile VideoProvider = "file"
)

// VideoReference 课时内嵌视频的规范化引用。每课时最多取一个（YouTube优先）
type VideoReference struct {
	Provider   VideoProvider `json:"provider"`
	ExternalID string        `json:"externalId"`
}

// Clip 视频章节片段。Position 从1开始、严格递增且连续
type Clip struct {
	Name        string `json:"name"`
	StartOffset int    `json:"startOffset"` // 秒
	EndOffset   *int   `json:"endOffset,omitempty"`
	Position    int    `json:"position"`
	URL         string `json:"url"`
}

// LessonMeta 输出给 schema 序列化层的课时派生字段
type LessonMeta struct {
	LessonID        uint          `json:"lessonId"`
	ResourceType    ResourceType  `json:"resourceType"`
	Interactivity   Interactivity `json:"interactivity"`
	DurationSeconds int           `json:"durationSeconds"`
	GlobalPosition  int           `json:"globalPosition"` // 0 表示层级无法解析
	Clips           []Clip        `json:"clips"`
}

// CourseDuration 课程时长聚合结果
type CourseDuration struct {
	CourseID        uint   `json:"courseId"`
	DurationSeconds int    `json:"durationSeconds"`
	DurationMinutes int    `json:"durationMinutes"`
	Calculated      bool   `json:"calculated"` // false 表示冷读、已调度后台重算
	LastCalculated  string `json:"lastCalculatedAt,omitempty"`
}
