package service

import (
	"regexp"
	"strings"

	"course_enrich_backend/internal/model"
)

// AnalyzerService 扫描课时原始内容提取特征向量，并据此给出
// 资源类型与交互类型分类。纯函数、同步、无任何I/O
type AnalyzerService struct{}

func NewAnalyzerService() *AnalyzerService {
	return &AnalyzerService{}
}

// 测验/表单类标记：短代码与区块编辑器两种写法都认
var quizMarkers = []string{
	"[quiz",
	"[ld_quiz",
	"[hdquiz",
	"[question",
	"<!-- wp:quiz",
	"[wpforms",
	"[formidable",
}

// 互动元素标记：表单、按钮区块、可下载文件区块、手风琴
var interactiveMarkers = []string{
	"<form",
	"[contact-form",
	"[wpforms",
	"<!-- wp:button",
	"<!-- wp:buttons",
	"<!-- wp:file",
	"accordion",
}

var (
	stepHeadingPattern    = regexp.MustCompile(`(?i)\bstep\s*\d+\b`)
	howToPattern          = regexp.MustCompile(`(?i)\bhow[\s-]to\b`)
	orderedListPattern    = regexp.MustCompile(`(?i)<ol[\s>]`)
	htmlHeadingPattern    = regexp.MustCompile(`(?i)<h[1-6][\s>]`)
	mdHeadingPattern      = regexp.MustCompile(`(?m)^#{1,6}\s`)
	preBlockPattern       = regexp.MustCompile(`(?i)<pre[\s>]`)
	fencedCodePattern     = regexp.MustCompile("(?m)^```")
	tagStripPattern       = regexp.MustCompile(`<[^>]*>`)
	shortcodeStripPattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// Analyze 每次分类请求都从最新内容现算，计算足够便宜，不做缓存
func (s *AnalyzerService) Analyze(content string) model.ContentFeatures {
	lower := strings.ToLower(content)

	features := model.ContentFeatures{
		HasQuiz:        containsAny(lower, quizMarkers),
		HasInteractive: containsAny(lower, interactiveMarkers),
		HeadingCount:   len(htmlHeadingPattern.FindAllString(content, -1)) + len(mdHeadingPattern.FindAllString(content, -1)),
		CodeBlockCount: countCodeBlocks(content),
	}

	features.WordCount = countWords(content)
	features.HasTutorialStructure = s.tutorialScore(content, features.CodeBlockCount) >= 3

	return features
}

// tutorialScore 教程结构打分：
// ≥2个"step N"式标题 +2；出现"how to"式措辞 +1；≥2个有序列表 +1；≥3个代码块 +1
func (s *AnalyzerService) tutorialScore(content string, codeBlocks int) int {
	score := 0
	if len(stepHeadingPattern.FindAllString(content, -1)) >= 2 {
		score += 2
	}
	if howToPattern.MatchString(content) {
		score++
	}
	if len(orderedListPattern.FindAllString(content, -1)) >= 2 {
		score++
	}
	if codeBlocks >= 3 {
		score++
	}
	return score
}

// ClassifyResourceType 固定优先级决策表，首条命中即返回。
// 各类别在特征层面并不互斥，顺序不可调整
func (s *AnalyzerService) ClassifyResourceType(f model.ContentFeatures, hasVideo bool) model.ResourceType {
	switch {
	case f.HasQuiz:
		return model.ResourceQuiz
	case hasVideo && f.WordCount < 300:
		return model.ResourceVideo
	case f.HasInteractive && f.CodeBlockCount >= 2:
		return model.ResourceExercise
	case f.HasTutorialStructure:
		return model.ResourceTutorial
	case hasVideo && f.WordCount > 300:
		return model.ResourceLecture
	case !hasVideo && f.WordCount > 500 && f.HeadingCount >= 2:
		return model.ResourceReading
	default:
		return model.ResourceLesson
	}
}

// ClassifyInteractivity 主动信号与讲授信号同时成立为 mixed，只有前者为 active，否则 expositive
func (s *AnalyzerService) ClassifyInteractivity(f model.ContentFeatures, hasVideo bool) model.Interactivity {
	active := f.HasQuiz || f.HasInteractive || f.CodeBlockCount >= 2
	expositive := hasVideo || f.WordCount > 200

	switch {
	case active && expositive:
		return model.InteractivityMixed
	case active:
		return model.InteractivityActive
	default:
		return model.InteractivityExpositive
	}
}

func containsAny(haystack string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(haystack, m) {
			return true
		}
	}
	return false
}

func countCodeBlocks(content string) int {
	// 围栏代码块成对出现，数量取对数
	return len(preBlockPattern.FindAllString(content, -1)) + len(fencedCodePattern.FindAllString(content, -1))/2
}

func countWords(content string) int {
	stripped := tagStripPattern.ReplaceAllString(content, " ")
	stripped = shortcodeStripPattern.ReplaceAllString(stripped, " ")
	return len(strings.Fields(stripped))
}
