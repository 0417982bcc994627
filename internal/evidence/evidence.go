// Package evidence turns a ranked video and its best segment into the
// SearchResult shape shared by every surface: M:SS timestamps, truncated
// context and description, and a playback URL that seeks to the segment.
package evidence

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dshills/huberman-health-mcp/pkg/types"
)

// Truncation budgets, in runes.
const (
	ContextBudget     = 200
	DescriptionBudget = 300

	Ellipsis = "..."

	// WatchURL is used when a video has no stored URL.
	WatchURL = "https://www.youtube.com/watch?v="

	titlePlaceholderPrefix = "This video discusses topics related to your query: "
)

// FormatTimestamp renders seconds as M:SS. Minutes are not capped, so an
// hour renders as 60:00. NaN, infinite and negative inputs render as 0:00.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Truncate shortens s to at most budget runes, appending Ellipsis when it
// cuts. Text within budget is returned unchanged.
func Truncate(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:budget]), isSpace) + Ellipsis
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// PlaybackURL returns the video's URL with a t=<seconds>s parameter when the
// whole-second offset is non-zero. A video without a URL gets a watch URL
// built from its ID.
func PlaybackURL(video types.Video, seconds float64) string {
	base := strings.TrimSpace(video.URL)
	if base == "" {
		base = WatchURL + url.QueryEscape(video.ID)
	}

	offset := int64(0)
	if !math.IsNaN(seconds) && !math.IsInf(seconds, 0) && seconds > 0 {
		offset = int64(seconds)
	}
	if offset == 0 {
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + "t=" + strconv.FormatInt(offset, 10) + "s"
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(offset, 10)+"s")
	u.RawQuery = q.Encode()
	return u.String()
}

// TitlePlaceholder is the context shown when a video matched on its title
// but no segment carried evidence.
func TitlePlaceholder(title string) string {
	return titlePlaceholderPrefix + title
}

// Build assembles a SearchResult for a ranked video.
func Build(rank int, video types.Video, score float64, context string, seconds float64) types.SearchResult {
	return types.SearchResult{
		Rank:           rank,
		VideoID:        video.ID,
		Title:          video.Title,
		URL:            PlaybackURL(video, seconds),
		RelevanceScore: score,
		Timestamp:      FormatTimestamp(seconds),
		Context:        Truncate(strings.TrimSpace(context), ContextBudget),
		Description:    Truncate(strings.TrimSpace(video.Description), DescriptionBudget),
	}
}
