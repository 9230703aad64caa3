package util

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MediaInfo 存储媒体文件探测结果
type MediaInfo struct {
	Duration float64 `json:"duration"` // 时长（秒）
	Format   string  `json:"format"`
}

// ProbeMediaDuration 使用ffmpeg-go的Probe获取自托管媒体文件的时长。
// input 可以是本地路径或 ffprobe 支持的远程URL
func ProbeMediaDuration(input string) (*MediaInfo, error) {
	jsonOutput, err := ffmpeg.Probe(input)
	if err != nil {
		return nil, fmt.Errorf("探测媒体信息失败: %v", err)
	}

	var result struct {
		Format struct {
			Duration string `json:"duration"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("解析媒体信息失败: %v", err)
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &MediaInfo{
		Duration: duration,
		Format:   result.Format.Format,
	}, nil
}
