package service

import (
	"context"
	"testing"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"
)

func newTestEnrichment(lessons *fakeLessonStore, curriculum *fakeCurriculum) *EnrichmentService {
	analyzer := NewAnalyzerService()
	videos := NewVideoService()
	durations := NewDurationService(videos, newFakeCache(), nil)
	hierarchy := NewHierarchyService(curriculum)
	return NewEnrichmentService(lessons, analyzer, videos, durations, hierarchy, NewChapterService())
}

func TestLessonMetaUsesPersistedClassification(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(1, 10, 1)

	lessons := newFakeLessonStore()
	lesson := &model.Lesson{
		SectionID:       10,
		Content:         "[quiz id=1]", // 现算会得出 quiz，但落库值必须优先
		ResourceType:    string(model.ResourceLecture),
		Interactivity:   string(model.InteractivityMixed),
		DurationSeconds: intPtr(240),
	}
	lesson.ID = 5
	lessons.lessons[5] = lesson

	s := newTestEnrichment(lessons, curriculum)

	meta, err := s.LessonMeta(context.Background(), 5)
	if err != nil {
		t.Fatalf("LessonMeta: %v", err)
	}
	if meta.ResourceType != model.ResourceLecture {
		t.Errorf("ResourceType = %q, want persisted lecture", meta.ResourceType)
	}
	if meta.Interactivity != model.InteractivityMixed {
		t.Errorf("Interactivity = %q, want persisted mixed", meta.Interactivity)
	}
	if meta.DurationSeconds != 240 {
		t.Errorf("DurationSeconds = %d, want 240", meta.DurationSeconds)
	}
	if meta.GlobalPosition != 1 {
		t.Errorf("GlobalPosition = %d, want 1", meta.GlobalPosition)
	}
}

func TestLessonMetaClassifiesInlineWhenUnpublished(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(1, 10, 1)

	lessons := newFakeLessonStore()
	lesson := &model.Lesson{SectionID: 10, Content: "[quiz id=1]"}
	lesson.ID = 6
	lessons.lessons[6] = lesson

	s := newTestEnrichment(lessons, curriculum)

	meta, err := s.LessonMeta(context.Background(), 6)
	if err != nil {
		t.Fatalf("LessonMeta: %v", err)
	}
	if meta.ResourceType != model.ResourceQuiz {
		t.Errorf("ResourceType = %q, want inline-computed quiz", meta.ResourceType)
	}
	if meta.Interactivity != model.InteractivityActive {
		t.Errorf("Interactivity = %q, want active", meta.Interactivity)
	}
}

func TestLessonMetaClipsNeverNil(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(1, 10, 1)

	lessons := newFakeLessonStore()
	lesson := &model.Lesson{SectionID: 10, Content: "<p>没有章节</p>"}
	lesson.ID = 8
	lessons.lessons[8] = lesson

	s := newTestEnrichment(lessons, curriculum)

	meta, err := s.LessonMeta(context.Background(), 8)
	if err != nil {
		t.Fatalf("LessonMeta: %v", err)
	}
	if meta.Clips == nil {
		t.Error("Clips must serialize as [], not null")
	}
}

func TestLessonMetaUnknownLesson(t *testing.T) {
	s := newTestEnrichment(newFakeLessonStore(), newFakeCurriculum())

	if _, err := s.LessonMeta(context.Background(), 404); err != util.ErrLessonNotFound {
		t.Errorf("err = %v, want ErrLessonNotFound", err)
	}
}

func TestLessonChapters(t *testing.T) {
	lessons := newFakeLessonStore()
	lesson := &model.Lesson{
		PermalinkURL: "https://example.com/l",
		ChaptersRaw:  `[{"name": "第一章", "startOffset": 0}, {"name": "第二章", "startOffset": 60}]`,
	}
	lesson.ID = 9
	lessons.lessons[9] = lesson

	s := newTestEnrichment(lessons, newFakeCurriculum())

	clips, err := s.LessonChapters(9)
	if err != nil {
		t.Fatalf("LessonChapters: %v", err)
	}
	if len(clips) != 2 || clips[1].StartOffset != 60 {
		t.Errorf("clips = %+v", clips)
	}
}
