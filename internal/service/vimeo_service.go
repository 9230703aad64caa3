package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"course_enrich_backend/internal/model"
)

const vimeoOEmbedBaseURL = "https://vimeo.com/api/oembed.json"

// VimeoService 通过通用 oEmbed 元数据接口查时长，无需API key。
// oEmbed 响应本身就带 duration 字段
type VimeoService struct {
	BaseURL string
	HTTP    *http.Client
}

func NewVimeoService(timeout time.Duration) *VimeoService {
	return &VimeoService{
		BaseURL: vimeoOEmbedBaseURL,
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *VimeoService) Name() string {
	return "vimeo"
}

func (s *VimeoService) CanHandle(ref model.VideoReference) bool {
	return ref.Provider == model.ProviderVimeo
}

type vimeoOEmbedResponse struct {
	Duration int `json:"duration"`
}

func (s *VimeoService) Lookup(ctx context.Context, ref model.VideoReference) (int, error) {
	videoURL := "https://vimeo.com/" + ref.ExternalID
	apiURL := fmt.Sprintf("%s?url=%s", s.BaseURL, url.QueryEscape(videoURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("vimeo oEmbed error (status %d)", resp.StatusCode)
	}

	var result vimeoOEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	return result.Duration, nil
}
