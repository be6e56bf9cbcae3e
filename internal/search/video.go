package search

import (
	"regexp"
	"strings"

	"github.com/hayhai/hayhai/internal/model"
)

var videoKeywords = []string{"video", "youtube", "watch", "clip", "footage"}

var reYouTubeID = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)

// IsVideoQuery reports whether the question is video-flavored, either
// because the search type is videos or a video keyword appears in it.
func IsVideoQuery(question string, searchType model.SearchType) bool {
	if searchType == model.SearchTypeVideos {
		return true
	}
	lower := strings.ToLower(question)
	for _, kw := range videoKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// YouTubeID extracts the video ID from a YouTube URL, or "" if the URL
// is not a YouTube watch link.
func YouTubeID(rawURL string) string {
	m := reYouTubeID.FindStringSubmatch(rawURL)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

// FilterURLs selects up to max result URLs. YouTube links are dropped
// unless the query is video-flavored.
func FilterURLs(results []Result, max int, videoSearch bool) []string {
	var urls []string
	for _, r := range results {
		if len(urls) >= max {
			break
		}
		if !videoSearch && YouTubeID(r.URL) != "" {
			continue
		}
		urls = append(urls, r.URL)
	}
	return urls
}
