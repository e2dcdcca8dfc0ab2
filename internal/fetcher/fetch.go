package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// FetchCombined retrieves every source playlist and concatenates them
// into one M3U document. EXTINF lines missing a group-title are tagged
// with a default derived from the source URL path, so entries stay
// attributable to their source. A source that fails to fetch is logged
// and skipped; the run continues with partial data. An empty source
// list yields a bare header.
func FetchCombined(ctx context.Context, urls []string, userAgent string, timeout time.Duration) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	client := &http.Client{Timeout: timeout}
	for _, src := range urls {
		text, err := fetchOne(ctx, client, src, userAgent)
		if err != nil {
			slog.Warn("skipping source playlist", "url", src, "error", err)
			continue
		}
		appendSource(&b, text, defaultGroup(src))
	}
	return b.String()
}

func fetchOne(ctx context.Context, client *http.Client, src, userAgent string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("NewRequest: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ReadAll: %w", err)
	}
	return string(body), nil
}

// appendSource copies EXTINF and URL lines into the combined document,
// injecting group-title where the source omitted it.
func appendSource(b *strings.Builder, text, group string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "#EXTINF"):
			if group != "" && !strings.Contains(line, "group-title") {
				line = strings.Replace(line, "#EXTINF:-1", `#EXTINF:-1 group-title="`+group+`"`, 1)
			}
			b.WriteString(line)
			b.WriteByte('\n')
		case strings.HasPrefix(line, "http"):
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
}

// defaultGroup derives a group name from the URL path basename, e.g.
// "https://host/lists/sports.m3u" -> "sports.m3u".
func defaultGroup(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
