package service

import (
	"strings"
	"testing"

	"course_enrich_backend/internal/model"
)

func TestAnalyzeQuizDetection(t *testing.T) {
	s := NewAnalyzerService()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"短代码测验", "<p>复习一下</p>[quiz id=3]", true},
		{"LearnDash测验", "[ld_quiz quiz_id=7]", true},
		{"区块测验", "<!-- wp:quiz {\"id\":1} -->", true},
		{"表单短代码", "请填写 [wpforms id=\"12\"]", true},
		{"大小写不敏感", "[QUIZ id=3]", true},
		{"普通正文", "<p>今天讲变量作用域</p>", false},
		{"提到quiz这个词", "<p>下节课有 quiz，请复习</p>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Analyze(tt.content).HasQuiz
			if got != tt.want {
				t.Errorf("Analyze(%q).HasQuiz = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestAnalyzeTutorialStructure(t *testing.T) {
	s := NewAnalyzerService()

	tutorial := `<h2>Step 1: 安装依赖</h2><ol><li>下载</li></ol>
<h2>Step 2: 初始化项目</h2><ol><li>运行命令</li></ol>
<pre>npm init</pre><pre>npm install</pre><pre>npm start</pre>`

	if !s.Analyze(tutorial).HasTutorialStructure {
		t.Error("step headings + ordered lists + code blocks should be tutorial structure")
	}

	// 单独一个信号不够
	weak := "<p>how to write a loop</p>"
	if s.Analyze(weak).HasTutorialStructure {
		t.Error("a lone how-to phrase should not qualify as tutorial structure")
	}
}

func TestAnalyzeCodeBlockCount(t *testing.T) {
	s := NewAnalyzerService()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"pre标签", "<pre>a</pre><pre>b</pre>", 2},
		{"围栏代码块按对数", "```go\nfmt.Println(1)\n```\n正文\n```go\nfmt.Println(2)\n```", 2},
		{"混合", "<pre>x</pre>\n```\ny\n```", 2},
		{"无代码", "<p>纯文字</p>", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Analyze(tt.content).CodeBlockCount
			if got != tt.want {
				t.Errorf("CodeBlockCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyzeWordCountStripsMarkup(t *testing.T) {
	s := NewAnalyzerService()

	got := s.Analyze("<p>one two</p> [shortcode attr=1] three").WordCount
	if got != 3 {
		t.Errorf("WordCount = %d, want 3 (markup and shortcodes stripped)", got)
	}
}

func TestClassifyResourceType(t *testing.T) {
	s := NewAnalyzerService()

	longText := strings.Repeat("word ", 600)

	tests := []struct {
		name     string
		content  string
		hasVideo bool
		want     model.ResourceType
	}{
		{"测验优先于视频", "[quiz id=1] https://youtu.be/dQw4w9WgXcQ", true, model.ResourceQuiz},
		{"短文字加视频", "<p>看视频</p>", true, model.ResourceVideo},
		{"长文字加视频是讲座", longText, true, model.ResourceLecture},
		{"表单加代码是练习", "<form></form><pre>a</pre><pre>b</pre>", false, model.ResourceExercise},
		{"长结构化文本是阅读", "<h2>一</h2><h2>二</h2>" + longText, false, model.ResourceReading},
		{"兜底", "<p>简短说明</p>", false, model.ResourceLesson},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := s.Analyze(tt.content)
			got := s.ClassifyResourceType(f, tt.hasVideo)
			if got != tt.want {
				t.Errorf("ClassifyResourceType = %q, want %q (features %+v)", got, tt.want, f)
			}
		})
	}
}

// 同一内容同时满足多个类别时，排前面的类别必须赢
func TestClassifyResourceTypePriority(t *testing.T) {
	s := NewAnalyzerService()

	// 测验 + 教程结构 + 视频，全部命中
	content := `[quiz id=1]
<h2>Step 1</h2><h2>Step 2</h2><ol></ol><ol></ol>
<pre>a</pre><pre>b</pre><pre>c</pre>`

	f := s.Analyze(content)
	if !f.HasQuiz || !f.HasTutorialStructure {
		t.Fatalf("test content should trigger multiple categories, got %+v", f)
	}
	if got := s.ClassifyResourceType(f, true); got != model.ResourceQuiz {
		t.Errorf("quiz must win over every other category, got %q", got)
	}
}

func TestClassifyInteractivity(t *testing.T) {
	s := NewAnalyzerService()

	longText := strings.Repeat("word ", 300)

	tests := []struct {
		name     string
		content  string
		hasVideo bool
		want     model.Interactivity
	}{
		{"只有测验", "[quiz id=1]", false, model.InteractivityActive},
		{"只有视频", "<p>short</p>", true, model.InteractivityExpositive},
		{"测验加视频", "[quiz id=1]", true, model.InteractivityMixed},
		{"测验加长文", "[quiz id=1]" + longText, false, model.InteractivityMixed},
		{"纯短文", "<p>hello world</p>", false, model.InteractivityExpositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := s.Analyze(tt.content)
			got := s.ClassifyInteractivity(f, tt.hasVideo)
			if got != tt.want {
				t.Errorf("ClassifyInteractivity = %q, want %q", got, tt.want)
			}
		})
	}
}
