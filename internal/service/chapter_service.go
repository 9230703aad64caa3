package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"course_enrich_backend/internal/model"
)

// ChapterService 从三个相互独立的来源提取章节/时间戳列表，
// 依次尝试，第一个产出可用章节的策略生效：
//  1. 结构化元字段（JSON对象数组 / 字符串数组 / 分隔字符串）
//  2. 内容中显式标注为章节容器的元素
//  3. "chapters/timestamps"词表标题之后的时间戳行
//
// 对相同输入重复提取必然得到相同的有序列表
type ChapterService struct{}

func NewChapterService() *ChapterService {
	return &ChapterService{}
}

// 内容扫描少于2条命中时整段丢弃：孤立的时间戳按噪声处理。
// 结构化元字段除外——显式提供的数据1条也算数
const minContentScanMatches = 2

var (
	clockLinePattern    = regexp.MustCompile(`^[\[\(]?((?:\d{1,2}:)?\d{1,3}:\d{2})[\]\)]?\s*[-–—:.|]*\s*(.*)$`)
	secondsLinePattern  = regexp.MustCompile(`^(\d+)\s*(?:s|sec|secs|seconds)?\s*[-–—:|]+\s*(.*)$`)
	numericTitlePattern = regexp.MustCompile(`^[\d:.\s\-–—]*$`)

	chapterContainerPattern = regexp.MustCompile(`(?is)<(?:div|ul|ol|section)[^>]*(?:class|id)\s*=\s*"[^"]*(?:chapter|timestamp)[^"]*"[^>]*>(.*?)</(?:div|ul|ol|section)>`)
	chapterHeadingPattern   = regexp.MustCompile(`(?is)<h[1-6][^>]*>\s*(?:video\s+)?(?:chapters?|time\s*stamps?|in\s+this\s+video)\s*[:：]?\s*</h[1-6]>`)
	nextHeadingPattern      = regexp.MustCompile(`(?i)<h[1-6][\s>]`)
	mdChapterHeadingPattern = regexp.MustCompile(`(?im)^#{1,6}\s*(?:video\s+)?(?:chapters?|time\s*stamps?|in\s+this\s+video)\s*:?\s*$`)
	mdNextHeadingPattern    = regexp.MustCompile(`(?m)^#{1,6}\s`)

	lineBreakTagPattern = regexp.MustCompile(`(?i)</li>|</p>|</div>|<br\s*/?>`)
)

// Extract 返回课时的有序章节列表，没有任何来源命中时返回空
func (s *ChapterService) Extract(lesson *model.Lesson) []model.Clip {
	if clips := s.fromStructuredMeta(lesson.ChaptersRaw, lesson.PermalinkURL); len(clips) > 0 {
		return clips
	}
	if clips := s.fromLabeledContainer(lesson.Content, lesson.PermalinkURL); len(clips) > 0 {
		return clips
	}
	return s.fromChapterHeading(lesson.Content, lesson.PermalinkURL)
}

type chapterCandidate struct {
	name  string
	start int
	end   *int
	url   string
}

// fromStructuredMeta 解析结构化元字段。输入形态不受控（消费者提供），
// 在边界处按标记联合分派：JSON数组 → 按元素解析；否则按分隔字符串处理
func (s *ChapterService) fromStructuredMeta(raw, permalink string) []model.Clip {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var candidates []chapterCandidate

	if strings.HasPrefix(raw, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &elements); err == nil {
			for _, el := range elements {
				if c, ok := parseStructuredElement(el); ok {
					candidates = append(candidates, c)
				}
			}
		}
	} else {
		lines := strings.Split(raw, "\n")
		if len(lines) == 1 {
			lines = strings.Split(raw, ",")
		}
		for _, line := range lines {
			if c, ok := parseTimestampLine(line); ok {
				candidates = append(candidates, c)
			}
		}
	}

	// 显式提供的结构化数据：1条也接受
	return buildClips(candidates, permalink)
}

// parseStructuredElement 单个JSON元素：对象或时间戳前缀字符串
func parseStructuredElement(el json.RawMessage) (chapterCandidate, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal(el, &obj); err == nil {
		return parseChapterObject(obj)
	}

	var line string
	if err := json.Unmarshal(el, &line); err == nil {
		return parseTimestampLine(line)
	}

	return chapterCandidate{}, false
}

func parseChapterObject(obj map[string]interface{}) (chapterCandidate, bool) {
	var c chapterCandidate

	for _, key := range []string{"name", "title"} {
		if v, ok := obj[key].(string); ok && strings.TrimSpace(v) != "" {
			c.name = strings.TrimSpace(v)
			break
		}
	}
	if c.name == "" {
		return c, false
	}

	start, ok := -1, false
	for _, key := range []string{"startOffset", "time", "start", "seconds"} {
		if v, exists := obj[key]; exists {
			if secs, parsed := parseOffsetValue(v); parsed {
				start, ok = secs, true
				break
			}
		}
	}
	if !ok || start < 0 {
		return c, false
	}
	c.start = start

	if v, exists := obj["endOffset"]; exists {
		if secs, parsed := parseOffsetValue(v); parsed {
			c.end = &secs
		}
	}
	if v, ok := obj["url"].(string); ok {
		c.url = v
	}

	return c, true
}

// parseOffsetValue 偏移值：数字按秒，字符串按钟面格式或秒数解析
func parseOffsetValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		if val < 0 {
			return 0, false
		}
		return int(val), true
	case string:
		val = strings.TrimSpace(val)
		if strings.Contains(val, ":") {
			return parseClockOffset(val)
		}
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}

// fromLabeledContainer 查找class/id带chapter或timestamp的容器元素，
// 解析其中被标签包裹或裸写的时间戳行
func (s *ChapterService) fromLabeledContainer(content, permalink string) []model.Clip {
	for _, m := range chapterContainerPattern.FindAllStringSubmatch(content, -1) {
		candidates := parseTimestampLines(htmlToLines(m[1]))
		if len(candidates) >= minContentScanMatches {
			return buildClips(candidates, permalink)
		}
	}
	return nil
}

// fromChapterHeading 查找词表匹配的标题，解析其后、下一个标题之前的时间戳行
func (s *ChapterService) fromChapterHeading(content, permalink string) []model.Clip {
	if loc := chapterHeadingPattern.FindStringIndex(content); loc != nil {
		section := content[loc[1]:]
		if next := nextHeadingPattern.FindStringIndex(section); next != nil {
			section = section[:next[0]]
		}
		candidates := parseTimestampLines(htmlToLines(section))
		if len(candidates) >= minContentScanMatches {
			return buildClips(candidates, permalink)
		}
	}

	if loc := mdChapterHeadingPattern.FindStringIndex(content); loc != nil {
		section := content[loc[1]:]
		if next := mdNextHeadingPattern.FindStringIndex(section); next != nil {
			section = section[:next[0]]
		}
		candidates := parseTimestampLines(strings.Split(section, "\n"))
		if len(candidates) >= minContentScanMatches {
			return buildClips(candidates, permalink)
		}
	}

	return nil
}

func parseTimestampLines(lines []string) []chapterCandidate {
	var candidates []chapterCandidate
	for _, line := range lines {
		if c, ok := parseTimestampLine(line); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// parseTimestampLine 识别 HH:MM:SS / MM:SS 开头、分隔符之后至少3个字符标题的行；
// 兜底识别"N秒 标题"的松散写法。标题本身是数字的拒绝，
// 避免把连写的时间戳当成标题串起来
func parseTimestampLine(line string) (chapterCandidate, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return chapterCandidate{}, false
	}

	if m := clockLinePattern.FindStringSubmatch(line); m != nil {
		secs, ok := parseClockOffset(m[1])
		if ok {
			if name, valid := validTitle(m[2]); valid {
				return chapterCandidate{name: name, start: secs}, true
			}
		}
		return chapterCandidate{}, false
	}

	if m := secondsLinePattern.FindStringSubmatch(line); m != nil {
		secs, err := strconv.Atoi(m[1])
		if err == nil && secs >= 0 {
			if name, valid := validTitle(m[2]); valid {
				return chapterCandidate{name: name, start: secs}, true
			}
		}
	}

	return chapterCandidate{}, false
}

func validTitle(title string) (string, bool) {
	title = strings.TrimSpace(title)
	if len(title) < 3 {
		return "", false
	}
	if numericTitlePattern.MatchString(title) {
		return "", false
	}
	return title, true
}

// parseClockOffset HH:MM:SS 或 MM:SS → 秒
func parseClockOffset(value string) (int, bool) {
	parts := strings.Split(value, ":")
	switch len(parts) {
	case 2:
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || sec > 59 {
			return 0, false
		}
		return min*60 + sec, true
	case 3:
		h, err1 := strconv.Atoi(parts[0])
		min, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || min > 59 || sec > 59 {
			return 0, false
		}
		return h*3600 + min*60 + sec, true
	}
	return 0, false
}

// htmlToLines 把容器片段按行级标签切开并去掉剩余标签
func htmlToLines(fragment string) []string {
	fragment = lineBreakTagPattern.ReplaceAllString(fragment, "\n")
	fragment = tagStripPattern.ReplaceAllString(fragment, "")
	return strings.Split(fragment, "\n")
}

// buildClips 赋予从1开始的连续位置，补齐URL（显式提供的优先，
// 否则在课时固定链接后追加时间片段锚点）
func buildClips(candidates []chapterCandidate, permalink string) []model.Clip {
	if len(candidates) == 0 {
		return nil
	}

	clips := make([]model.Clip, 0, len(candidates))
	for i, c := range candidates {
		url := c.url
		if url == "" && permalink != "" {
			url = fmt.Sprintf("%s#t=%d", permalink, c.start)
		}
		clips = append(clips, model.Clip{
			Name:        c.name,
			StartOffset: c.start,
			EndOffset:   c.end,
			Position:    i + 1,
			URL:         url,
		})
	}
	return clips
}
