package service

import (
	"reflect"
	"testing"

	"course_enrich_backend/internal/model"
)

func TestExtractFromStructuredMetaObjects(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		PermalinkURL: "https://example.com/lessons/intro",
		ChaptersRaw: `[
			{"name": "开场", "startOffset": 0},
			{"name": "核心概念", "time": "1:30", "endOffset": 240},
			{"name": "总结", "seconds": 300, "url": "https://example.com/custom"}
		]`,
	}

	clips := s.Extract(lesson)
	if len(clips) != 3 {
		t.Fatalf("len(clips) = %d, want 3", len(clips))
	}

	if clips[0].Name != "开场" || clips[0].StartOffset != 0 || clips[0].Position != 1 {
		t.Errorf("clip[0] = %+v", clips[0])
	}
	if clips[0].URL != "https://example.com/lessons/intro#t=0" {
		t.Errorf("clip[0].URL = %q", clips[0].URL)
	}

	if clips[1].StartOffset != 90 {
		t.Errorf("clip[1].StartOffset = %d, want 90 (parsed from clock string)", clips[1].StartOffset)
	}
	if clips[1].EndOffset == nil || *clips[1].EndOffset != 240 {
		t.Errorf("clip[1].EndOffset = %v, want 240", clips[1].EndOffset)
	}

	if clips[2].URL != "https://example.com/custom" {
		t.Errorf("explicit URL must win, got %q", clips[2].URL)
	}
	if clips[2].Position != 3 {
		t.Errorf("clip[2].Position = %d, want 3", clips[2].Position)
	}
}

func TestExtractFromStructuredMetaStringForms(t *testing.T) {
	s := NewChapterService()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"JSON字符串数组", `["0:00 - 开场白", "2:15 - 第一部分"]`, 2},
		{"换行分隔", "0:00 开场白\n2:15 第一部分\n5:00 答疑环节", 3},
		{"逗号分隔单行", "0:00 开场白, 2:15 第一部分", 2},
		{"结构化来源单条也接受", `[{"name": "唯一章节", "start": 10}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lesson := &model.Lesson{ChaptersRaw: tt.raw}
			clips := s.Extract(lesson)
			if len(clips) != tt.want {
				t.Errorf("len(clips) = %d, want %d (%+v)", len(clips), tt.want, clips)
			}
		})
	}
}

func TestExtractFromLabeledContainer(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		PermalinkURL: "https://example.com/lessons/loops",
		Content: `<p>正文开头</p>
<div class="video-chapters">
  <ul>
    <li>0:00 - 课程介绍</li>
    <li>3:45 - for 循环</li>
    <li>12:30 - while 循环</li>
  </ul>
</div>
<p>正文结尾</p>`,
	}

	clips := s.Extract(lesson)
	if len(clips) != 3 {
		t.Fatalf("len(clips) = %d, want 3", len(clips))
	}
	if clips[1].Name != "for 循环" || clips[1].StartOffset != 225 {
		t.Errorf("clip[1] = %+v", clips[1])
	}
	if clips[2].URL != "https://example.com/lessons/loops#t=750" {
		t.Errorf("clip[2].URL = %q", clips[2].URL)
	}
}

func TestExtractFromChapterHeading(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		Content: `<h2>正文标题</h2><p>内容</p>
<h3>Chapters</h3>
<p>0:00 介绍<br/>1:30 环境搭建<br/>4:00 第一个程序</p>
<h3>相关阅读</h3>
<p>10:30 这条不该被解析</p>`,
	}

	clips := s.Extract(lesson)
	if len(clips) != 3 {
		t.Fatalf("len(clips) = %d, want 3 (%+v)", len(clips), clips)
	}
	if clips[2].Name != "第一个程序" {
		t.Errorf("clip[2].Name = %q", clips[2].Name)
	}
}

func TestExtractTwoTimestampScenario(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		Content: `<ul class="timestamps"><li>00:00 Intro</li><li>01:30 Deep Dive</li></ul>`,
	}

	clips := s.Extract(lesson)
	if len(clips) != 2 {
		t.Fatalf("len(clips) = %d, want 2", len(clips))
	}
	if clips[0].Name != "Intro" || clips[0].StartOffset != 0 || clips[0].Position != 1 {
		t.Errorf("clip[0] = %+v", clips[0])
	}
	if clips[1].Name != "Deep Dive" || clips[1].StartOffset != 90 || clips[1].Position != 2 {
		t.Errorf("clip[1] = %+v", clips[1])
	}
}

// 内容扫描里孤立的单条时间戳是噪声
func TestExtractRejectsSingleContentMatch(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		Content: `<div class="chapters"><li>0:00 - 唯一一条</li></div>`,
	}

	if clips := s.Extract(lesson); len(clips) != 0 {
		t.Errorf("single content-scan match must be rejected, got %+v", clips)
	}
}

// 纯数字标题多半是把连写的时间戳错当成标题
func TestExtractRejectsNumericTitles(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		Content: `<div class="chapters"><li>0:00 - 1:30</li><li>1:30 - 2:45</li></div>`,
	}

	if clips := s.Extract(lesson); len(clips) != 0 {
		t.Errorf("numeric titles must be rejected, got %+v", clips)
	}
}

func TestExtractStructuredMetaWinsOverContent(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		ChaptersRaw: `[{"name": "来自元字段", "startOffset": 5}]`,
		Content:     `<div class="chapters"><li>0:00 - 内容一</li><li>1:00 - 内容二</li></div>`,
	}

	clips := s.Extract(lesson)
	if len(clips) != 1 || clips[0].Name != "来自元字段" {
		t.Errorf("structured meta must win, got %+v", clips)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{
		PermalinkURL: "https://example.com/l",
		Content: `<div class="timestamps">
<li>0:00 - 开场</li>
<li>2:00 - 正题</li>
</div>`,
	}

	first := s.Extract(lesson)
	second := s.Extract(lesson)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}

func TestExtractNoChapters(t *testing.T) {
	s := NewChapterService()

	lesson := &model.Lesson{Content: "<p>没有任何章节信息</p>"}
	if clips := s.Extract(lesson); len(clips) != 0 {
		t.Errorf("want no clips, got %+v", clips)
	}
}
