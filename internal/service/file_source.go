package service

import (
	"context"

	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"
)

// FileDurationSource 自托管媒体文件的时长来源，用 ffprobe 探测直链。
// 只处理 ProviderFile 引用，排在两个视频平台之后
type FileDurationSource struct{}

func NewFileDurationSource() *FileDurationSource {
	return &FileDurationSource{}
}

func (s *FileDurationSource) Name() string {
	return "file"
}

func (s *FileDurationSource) CanHandle(ref model.VideoReference) bool {
	return ref.Provider == model.ProviderFile
}

func (s *FileDurationSource) Lookup(ctx context.Context, ref model.VideoReference) (int, error) {
	info, err := util.ProbeMediaDuration(ref.ExternalID)
	if err != nil {
		return 0, err
	}
	return int(info.Duration), nil
}
