package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"course_enrich_backend/internal/model"
)

// VideoService 从课时原始内容定位并规范化内嵌视频引用。
// 只做识别，不查时长。两个提供方都没命中时返回 nil——这不是错误，只是"没有视频"
type VideoService struct{}

func NewVideoService() *VideoService {
	return &VideoService{}
}

// YouTube 匹配顺序：短链 → watch链接 → embed链接 → 隐私增强域名，首个命中生效
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?[^"'\s]*v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube-nocookie\.com/embed/([a-zA-Z0-9_-]{11})`),
}

var vimeoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`),
	regexp.MustCompile(`vimeo\.com/(\d+)`),
}

// 区块编辑器的结构化embed：<!-- wp:embed {"url":"...","providerNameSlug":"youtube"} -->
var embedBlockPattern = regexp.MustCompile(`<!--\s*wp:embed\s+(\{.*?\})\s*-->`)

// 自托管媒体：video标签或内容中的直链媒体文件
var fileVideoPattern = regexp.MustCompile(`(?i)(?:src=["']|href=["'])?(https?://[^\s"'<>]+\.(?:mp4|m4v|webm|mov))`)

type embedBlockAttrs struct {
	URL              string `json:"url"`
	ProviderNameSlug string `json:"providerNameSlug"`
}

// ExtractReference 提取权威视频引用。YouTube与Vimeo同时出现时YouTube优先；
// 两者都没有时降级检查自托管媒体直链
func (s *VideoService) ExtractReference(content string) *model.VideoReference {
	if ref := matchPatterns(content, youtubePatterns, model.ProviderYouTube); ref != nil {
		return ref
	}
	if ref := s.extractFromEmbedBlock(content, "youtube", youtubePatterns, model.ProviderYouTube); ref != nil {
		return ref
	}

	// 仅当主提供方完全未命中时才检查备选提供方
	if ref := matchPatterns(content, vimeoPatterns, model.ProviderVimeo); ref != nil {
		return ref
	}
	if ref := s.extractFromEmbedBlock(content, "vimeo", vimeoPatterns, model.ProviderVimeo); ref != nil {
		return ref
	}

	if m := fileVideoPattern.FindStringSubmatch(content); len(m) > 1 {
		return &model.VideoReference{Provider: model.ProviderFile, ExternalID: m[1]}
	}

	return nil
}

func matchPatterns(content string, patterns []*regexp.Regexp, provider model.VideoProvider) *model.VideoReference {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(content); len(m) > 1 {
			return &model.VideoReference{Provider: provider, ExternalID: m[1]}
		}
	}
	return nil
}

// extractFromEmbedBlock 解析区块注释里的JSON属性，按 providerNameSlug 过滤
func (s *VideoService) extractFromEmbedBlock(content, slug string, patterns []*regexp.Regexp, provider model.VideoProvider) *model.VideoReference {
	for _, blockMatch := range embedBlockPattern.FindAllStringSubmatch(content, -1) {
		var attrs embedBlockAttrs
		if err := json.Unmarshal([]byte(blockMatch[1]), &attrs); err != nil {
			continue
		}
		if !strings.EqualFold(attrs.ProviderNameSlug, slug) {
			continue
		}
		if ref := matchPatterns(attrs.URL, patterns, provider); ref != nil {
			return ref
		}
	}
	return nil
}
