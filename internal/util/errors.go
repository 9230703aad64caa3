package util

import "errors"

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrQuotaExceeded   = errors.New("youtube daily quota exceeded")
	ErrNoAPIKey        = errors.New("youtube api key not configured")
	ErrVideoNotFound   = errors.New("video not found")
)
