package service

import (
	"testing"

	"course_enrich_backend/internal/model"
)

func TestExtractReference(t *testing.T) {
	s := NewVideoService()

	tests := []struct {
		name         string
		content      string
		wantProvider model.VideoProvider
		wantID       string
	}{
		{
			"YouTube短链",
			`<p>看这个 https://youtu.be/dQw4w9WgXcQ</p>`,
			model.ProviderYouTube, "dQw4w9WgXcQ",
		},
		{
			"YouTube watch链接",
			`<a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">视频</a>`,
			model.ProviderYouTube, "dQw4w9WgXcQ",
		},
		{
			"YouTube iframe嵌入",
			`<iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ"></iframe>`,
			model.ProviderYouTube, "dQw4w9WgXcQ",
		},
		{
			"隐私增强域名",
			`<iframe src="https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ"></iframe>`,
			model.ProviderYouTube, "dQw4w9WgXcQ",
		},
		{
			"区块编辑器embed",
			`<!-- wp:embed {"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","providerNameSlug":"youtube"} -->`,
			model.ProviderYouTube, "dQw4w9WgXcQ",
		},
		{
			"Vimeo播放器链接",
			`<iframe src="https://player.vimeo.com/video/76979871"></iframe>`,
			model.ProviderVimeo, "76979871",
		},
		{
			"Vimeo普通链接",
			`https://vimeo.com/76979871`,
			model.ProviderVimeo, "76979871",
		},
		{
			"自托管mp4直链",
			`<video src="https://cdn.example.com/lessons/intro.mp4"></video>`,
			model.ProviderFile, "https://cdn.example.com/lessons/intro.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := s.ExtractReference(tt.content)
			if ref == nil {
				t.Fatalf("ExtractReference(%q) = nil, want %s/%s", tt.content, tt.wantProvider, tt.wantID)
			}
			if ref.Provider != tt.wantProvider || ref.ExternalID != tt.wantID {
				t.Errorf("got %s/%s, want %s/%s", ref.Provider, ref.ExternalID, tt.wantProvider, tt.wantID)
			}
		})
	}
}

func TestExtractReferenceYouTubeWinsOverVimeo(t *testing.T) {
	s := NewVideoService()

	content := `<p>https://vimeo.com/76979871 和 https://youtu.be/dQw4w9WgXcQ</p>`
	ref := s.ExtractReference(content)
	if ref == nil || ref.Provider != model.ProviderYouTube {
		t.Fatalf("YouTube must win when both providers appear, got %+v", ref)
	}
}

func TestExtractReferenceNoVideo(t *testing.T) {
	s := NewVideoService()

	tests := []struct {
		name    string
		content string
	}{
		{"纯文本", "<p>今天没有视频</p>"},
		{"提到youtube但没有链接", "<p>我们常在 youtube 上找资料</p>"},
		{"ID长度不对", "https://youtu.be/short"},
		{"空内容", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ref := s.ExtractReference(tt.content); ref != nil {
				t.Errorf("ExtractReference(%q) = %+v, want nil", tt.content, ref)
			}
		})
	}
}
