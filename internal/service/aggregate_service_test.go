package service

import (
	"context"
	"testing"
	"time"
)

type fakeCourseStore struct {
	courseID uint
	seconds  int
	minutes  int
	calls    int
}

func (f *fakeCourseStore) UpdateDuration(courseID uint, seconds, minutes int, at time.Time) error {
	f.courseID = courseID
	f.seconds = seconds
	f.minutes = minutes
	f.calls++
	return nil
}

func TestRecalculateSumsAllLessons(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(1, 10, 2)
	curriculum.addSection(1, 20, 1)

	// 给每个课时一个手工时长
	curriculum.lessons[10][0].DurationOverride = intPtr(90)
	curriculum.lessons[10][1].DurationOverride = intPtr(120)
	curriculum.lessons[20][0].DurationOverride = intPtr(45)

	store := &fakeCourseStore{}
	durations := NewDurationService(NewVideoService(), newFakeCache(), nil)
	s := NewAggregateService(curriculum, durations, store)

	result, err := s.Recalculate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	if result.DurationSeconds != 255 {
		t.Errorf("DurationSeconds = %d, want 255", result.DurationSeconds)
	}
	// 255秒向上取整是5分钟
	if result.DurationMinutes != 5 {
		t.Errorf("DurationMinutes = %d, want 5", result.DurationMinutes)
	}
	if !result.Calculated {
		t.Error("result must be marked calculated")
	}
	if result.LastCalculated == "" {
		t.Error("LastCalculated must be set")
	}

	if store.calls != 1 || store.courseID != 1 || store.seconds != 255 || store.minutes != 5 {
		t.Errorf("persisted snapshot = %+v", store)
	}
}

func TestRecalculateUnresolvableLessonsCountAsZero(t *testing.T) {
	curriculum := newFakeCurriculum()
	curriculum.addSection(2, 10, 2)
	curriculum.lessons[10][0].DurationOverride = intPtr(61)
	// 第二个课时没有任何时长来源

	store := &fakeCourseStore{}
	durations := NewDurationService(NewVideoService(), newFakeCache(), nil)
	s := NewAggregateService(curriculum, durations, store)

	result, err := s.Recalculate(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if result.DurationSeconds != 61 {
		t.Errorf("DurationSeconds = %d, want 61", result.DurationSeconds)
	}
	if result.DurationMinutes != 2 {
		t.Errorf("DurationMinutes = %d, want 2 (ceil of 61s)", result.DurationMinutes)
	}
}

func TestRecalculateEmptyCourse(t *testing.T) {
	store := &fakeCourseStore{}
	durations := NewDurationService(NewVideoService(), newFakeCache(), nil)
	s := NewAggregateService(newFakeCurriculum(), durations, store)

	result, err := s.Recalculate(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if result.DurationSeconds != 0 || result.DurationMinutes != 0 {
		t.Errorf("empty course should aggregate to zero, got %+v", result)
	}
	if store.calls != 1 {
		t.Errorf("zero snapshot must still be persisted, calls = %d", store.calls)
	}
}
