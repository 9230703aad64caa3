package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"

	"course_enrich_backend/internal/config"
	"course_enrich_backend/internal/model"
	"course_enrich_backend/internal/util"
	"course_enrich_backend/pkg/monitoring"

	"golang.org/x/time/rate"
)

const youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// QuotaMeter 按天累计的配额计量器（每次时长查询1个配额单位）
type QuotaMeter interface {
	ConsumeQuota(ctx context.Context, units int64) (int64, error)
}

// YouTubeService 通过 Data API v3 查询视频时长。
// 受每日配额预算约束；没有API key不是错误，只是功能降级
type YouTubeService struct {
	BaseURL string
	Quota   QuotaMeter
	HTTP    *http.Client
	limiter *rate.Limiter

	// key与预算支持配置热更新，读写都要过锁
	mu          sync.RWMutex
	apiKey      string
	quotaBudget int64
}

func NewYouTubeService(cfg config.YouTubeConfig, quota QuotaMeter) *YouTubeService {
	return &YouTubeService{
		BaseURL:     youtubeAPIBaseURL,
		Quota:       quota,
		apiKey:      cfg.APIKey,
		quotaBudget: cfg.DailyQuotaUnits,
		HTTP: &http.Client{
			Timeout: cfg.Timeout,
		},
		// 请求限速，防止批量重算时打爆端点
		limiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// UpdateCredentials 运行时更新API key与每日配额预算，配置热加载回调专用
func (s *YouTubeService) UpdateCredentials(apiKey string, dailyQuotaUnits int64) {
	s.mu.Lock()
	s.apiKey = apiKey
	s.quotaBudget = dailyQuotaUnits
	s.mu.Unlock()
}

func (s *YouTubeService) Name() string {
	return "youtube"
}

func (s *YouTubeService) CanHandle(ref model.VideoReference) bool {
	return ref.Provider == model.ProviderYouTube
}

type youtubeVideosResponse struct {
	Items []struct {
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// Lookup 查询单个视频的时长（秒）。1次查询消耗1个配额单位
func (s *YouTubeService) Lookup(ctx context.Context, ref model.VideoReference) (int, error) {
	s.mu.RLock()
	apiKey, quotaBudget := s.apiKey, s.quotaBudget
	s.mu.RUnlock()

	if apiKey == "" {
		return 0, util.ErrNoAPIKey
	}

	used, err := s.Quota.ConsumeQuota(ctx, 1)
	if err == nil {
		monitoring.QuotaUnitsUsed.Set(float64(used))
		if used > quotaBudget {
			return 0, util.ErrQuotaExceeded
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	apiURL := fmt.Sprintf("%s/videos?id=%s&part=contentDetails&key=%s",
		s.BaseURL,
		url.QueryEscape(ref.ExternalID),
		url.QueryEscape(apiKey),
	)

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
		return 0, fmt.Errorf("youtube API error (status %d)", resp.StatusCode)
	}

	var result youtubeVideosResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	if len(result.Items) == 0 {
		return 0, util.ErrVideoNotFound
	}

	return ParseISO8601Duration(result.Items[0].ContentDetails.Duration), nil
}

var iso8601Pattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISO8601Duration 将 YouTube 返回的 PT#H#M#S 转换为秒
func ParseISO8601Duration(duration string) int {
	matches := iso8601Pattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var hours, minutes, seconds int
	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		minutes, _ = strconv.Atoi(matches[2])
	}
	if matches[3] != "" {
		seconds, _ = strconv.Atoi(matches[3])
	}

	return hours*3600 + minutes*60 + seconds
}
